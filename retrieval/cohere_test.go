package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/agentforge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohereEmbedder(t *testing.T) {
	var gotBody cohereEmbedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/embed", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": map[string]any{
				"float": [][]float32{{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer server.Close()

	embedder := NewCohereEmbedder("test-key", func(o *CohereEmbedderOptions) {
		o.BaseURL = server.URL
	})

	vector, err := embedder.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	assert.Equal(t, []string{"hello"}, gotBody.Texts)
	assert.Equal(t, "search_query", gotBody.InputType)
}

func TestCohereReranker(t *testing.T) {
	t.Run("reorders and truncates to top-n", func(t *testing.T) {
		var gotBody cohereRerankRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/rerank", r.URL.Path)

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"index": 2, "relevance_score": 0.9},
					{"index": 0, "relevance_score": 0.4},
				},
			})
		}))
		defer server.Close()

		reranker := NewCohereReranker("test-key", func(o *CohereRerankerOptions) {
			o.BaseURL = server.URL
			o.TopN = 2
		})

		docs := []core.Document{
			{ID: "a", Content: "alpha"},
			{ID: "b", Content: "beta"},
			{ID: "c", Content: "gamma"},
		}

		reranked, err := reranker.Rerank(context.Background(), "query", docs)
		require.NoError(t, err)

		require.Len(t, reranked, 2)
		assert.Equal(t, "c", reranked[0].ID)
		assert.Equal(t, float64(0.9), reranked[0].Score)
		assert.Equal(t, "a", reranked[1].ID)

		assert.Equal(t, 2, gotBody.TopN)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, gotBody.Documents)
	})

	t.Run("skips remote call for empty input", func(t *testing.T) {
		reranker := NewCohereReranker("test-key", func(o *CohereRerankerOptions) {
			o.BaseURL = "http://invalid.invalid"
		})

		reranked, err := reranker.Rerank(context.Background(), "query", nil)
		require.NoError(t, err)
		assert.Empty(t, reranked)
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer server.Close()

		reranker := NewCohereReranker("test-key", func(o *CohereRerankerOptions) {
			o.BaseURL = server.URL
		})

		_, err := reranker.Rerank(context.Background(), "query", []core.Document{{Content: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})
}
