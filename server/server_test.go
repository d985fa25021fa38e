package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hupe1980/agentforge/agent"
	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeManager replays canned events for StreamQuery.
type fakeManager struct {
	events []core.StreamEvent
	err    error

	gotInput core.ChatInput
}

func (f *fakeManager) StreamQuery(_ context.Context, input core.ChatInput) (<-chan core.StreamEvent, <-chan error) {
	eventCh := make(chan core.StreamEvent, len(f.events)+1)
	errCh := make(chan error, 1)

	f.gotInput = input

	for _, ev := range f.events {
		eventCh <- ev
	}
	close(eventCh)

	if f.err != nil {
		errCh <- f.err
	}
	close(errCh)

	return eventCh, errCh
}

func (f *fakeManager) Config() agent.Config { return agent.Config{} }

func (f *fakeManager) Tools() []tool.Tool { return nil }

func decodeLines(t *testing.T, body string) []core.StreamEvent {
	t.Helper()

	var events []core.StreamEvent

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev core.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}

	return events
}

const chatBody = `{
	"input": {
		"input": {
			"messages": [
				{"type": "human", "content": "hello"},
				{"type": "ai", "content": "hi there"}
			],
			"user_id": "u-1",
			"session_id": "s-1"
		}
	}
}`

func TestHandleChats(t *testing.T) {
	t.Run("streams metadata, events and end marker", func(t *testing.T) {
		mgr := &fakeManager{events: []core.StreamEvent{
			core.NewContentEvent("partial ", true),
			core.NewContentEvent("partial answer", false),
		}}
		srv := New(mgr)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(chatBody))

		srv.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

		events := decodeLines(t, rec.Body.String())
		require.Len(t, events, 4)

		assert.Equal(t, core.StreamEventMetadata, events[0].Type)
		assert.NotEmpty(t, events[0].RunID)

		assert.Equal(t, core.StreamEventContent, events[1].Type)
		assert.True(t, events[1].Partial)
		assert.Equal(t, core.StreamEventContent, events[2].Type)
		assert.Equal(t, "partial answer", events[2].Content)

		assert.Equal(t, core.StreamEventEnd, events[3].Type)
	})

	t.Run("wire messages are converted to roles", func(t *testing.T) {
		mgr := &fakeManager{}
		srv := New(mgr)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(chatBody))

		srv.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, mgr.gotInput.Messages, 2)
		assert.Equal(t, "user", mgr.gotInput.Messages[0].Role)
		assert.Equal(t, "hello", mgr.gotInput.Messages[0].Text())
		assert.Equal(t, "assistant", mgr.gotInput.Messages[1].Role)
		assert.Equal(t, "u-1", mgr.gotInput.UserID)
		assert.Equal(t, "s-1", mgr.gotInput.SessionID)
	})

	t.Run("stream error is sent in-band before end", func(t *testing.T) {
		mgr := &fakeManager{err: errors.New("model exploded")}
		srv := New(mgr)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(chatBody))

		srv.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		events := decodeLines(t, rec.Body.String())
		require.Len(t, events, 3)

		assert.Equal(t, core.StreamEventError, events[1].Type)
		assert.Contains(t, events[1].Error, "model exploded")
		assert.Equal(t, core.StreamEventEnd, events[2].Type)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		srv := New(&fakeManager{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader("{"))

		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown message type is rejected", func(t *testing.T) {
		srv := New(&fakeManager{})

		body := `{"input":{"input":{"messages":[{"type":"system","content":"x"}]}}}`

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(body))

		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleFeedback(t *testing.T) {
	t.Run("accepts and acknowledges", func(t *testing.T) {
		srv := New(&fakeManager{})

		body := `{"score": 4, "text": "helpful", "run_id": "run-1", "log_type": "feedback"}`

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))

		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		srv := New(&fakeManager{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader("}"))

		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRootRedirect(t *testing.T) {
	srv := New(&fakeManager{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/docs", rec.Header().Get("Location"))
}

func TestDocs(t *testing.T) {
	srv := New(&fakeManager{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POST /chats")
}
