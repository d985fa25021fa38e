package retrieval

import (
	"context"
	"net/http"
	"time"

	"github.com/hupe1980/agentforge/core"
)

// CohereReranker implements Reranker using Cohere's v2 rerank API. It scores
// candidate documents against the query and keeps the top results.
// See: https://docs.cohere.com/reference/rerank
type CohereReranker struct {
	client *cohereClient
	topN   int
	model  string
}

// CohereRerankerOptions configure the Cohere reranker.
type CohereRerankerOptions struct {
	// BaseURL for the API (default: https://api.cohere.com).
	BaseURL string
	// Model name (default: rerank-v3.5).
	Model string
	// TopN is the number of documents to keep (default: 5).
	TopN int
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
}

// NewCohereReranker creates a Cohere rerank client.
func NewCohereReranker(apiKey string, optFns ...func(o *CohereRerankerOptions)) *CohereReranker {
	opts := CohereRerankerOptions{
		BaseURL:    cohereBaseURL,
		Model:      "rerank-v3.5",
		TopN:       5,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &CohereReranker{
		client: &cohereClient{
			httpClient: opts.HTTPClient,
			apiKey:     apiKey,
			baseURL:    opts.BaseURL,
		},
		topN:  opts.TopN,
		model: opts.Model,
	}
}

type cohereRerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type cohereRerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank implements Reranker. Documents come back ordered by relevance,
// truncated to the configured top-n, with scores replaced by the rerank
// relevance score.
func (r *CohereReranker) Rerank(ctx context.Context, query string, docs []core.Document) ([]core.Document, error) {
	if len(docs) == 0 {
		return docs, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	payload := cohereRerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: texts,
		TopN:      r.topN,
	}

	var parsed cohereRerankResponse
	if err := r.client.post(ctx, "/v2/rerank", payload, &parsed); err != nil {
		return nil, err
	}

	reranked := make([]core.Document, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if result.Index < 0 || result.Index >= len(docs) {
			continue
		}

		doc := docs[result.Index]
		doc.Score = result.RelevanceScore
		reranked = append(reranked, doc)
	}

	return reranked, nil
}
