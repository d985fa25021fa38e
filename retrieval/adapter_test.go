package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentforge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	docs []core.Document
	err  error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string) ([]core.Document, error) {
	return f.docs, f.err
}

type fakeReranker struct {
	docs []core.Document
	err  error

	gotQuery string
	gotDocs  []core.Document
}

func (f *fakeReranker) Rerank(_ context.Context, query string, docs []core.Document) ([]core.Document, error) {
	f.gotQuery = query
	f.gotDocs = docs

	if f.err != nil {
		return nil, f.err
	}
	if f.docs != nil {
		return f.docs, nil
	}
	return docs, nil
}

func TestAdapterRetrieveInfo(t *testing.T) {
	t.Run("formats reranked documents", func(t *testing.T) {
		retriever := &fakeRetriever{docs: []core.Document{
			{ID: "a", Content: "first passage"},
			{ID: "b", Content: "second passage"},
		}}
		reranker := &fakeReranker{}

		adapter := NewAdapter(retriever, reranker)

		content, docs, err := adapter.RetrieveInfo(context.Background(), "what is up")
		require.NoError(t, err)

		assert.Len(t, docs, 2)
		assert.Equal(t, "what is up", reranker.gotQuery)
		assert.Equal(t, "<Document 0>\nfirst passage\n</Document 0>\n\n<Document 1>\nsecond passage\n</Document 1>", content)
	})

	t.Run("empty results yield empty string", func(t *testing.T) {
		adapter := NewAdapter(&fakeRetriever{}, &fakeReranker{})

		content, docs, err := adapter.RetrieveInfo(context.Background(), "anything")
		require.NoError(t, err)

		assert.Empty(t, docs)
		assert.Equal(t, "", content)
	})

	t.Run("retriever error is wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		adapter := NewAdapter(&fakeRetriever{err: boom}, &fakeReranker{})

		_, _, err := adapter.RetrieveInfo(context.Background(), "anything")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "retrieval failed")
	})

	t.Run("reranker error is wrapped", func(t *testing.T) {
		boom := errors.New("rate limited")
		retriever := &fakeRetriever{docs: []core.Document{{Content: "x"}}}
		adapter := NewAdapter(retriever, &fakeReranker{err: boom})

		_, _, err := adapter.RetrieveInfo(context.Background(), "anything")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "reranking failed")
	})
}

func TestAdapterTool(t *testing.T) {
	retriever := &fakeRetriever{docs: []core.Document{{ID: "a", Content: "passage"}}}
	adapter := NewAdapter(retriever, &fakeReranker{})

	retrieveTool := adapter.Tool()
	assert.Equal(t, "retrieve_info", retrieveTool.Name())

	toolCtx := core.NewToolContext(context.Background(), "run-1", "fc-1", nil)

	result, err := retrieveTool.Call(toolCtx, map[string]any{"query": "passage"})
	require.NoError(t, err)

	payload, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "<Document 0>\npassage\n</Document 0>", payload["content"])

	docs, ok := payload["documents"].([]core.Document)
	require.True(t, ok)
	assert.Len(t, docs, 1)
}

func TestStubPipeline(t *testing.T) {
	adapter := NewAdapter(StubRetriever{}, StubReranker{})

	content, docs, err := adapter.RetrieveInfo(context.Background(), "anything")
	require.NoError(t, err)

	assert.Empty(t, docs)
	assert.Equal(t, "", content)
}
