package retrieval

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Embedder turns a query into a vector suitable for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CohereEmbedder implements Embedder using Cohere's v2 embeddings API.
// See: https://docs.cohere.com/reference/embed
type CohereEmbedder struct {
	client    *cohereClient
	model     string
	inputType string
}

// CohereEmbedderOptions configure the Cohere embedder.
type CohereEmbedderOptions struct {
	// BaseURL for the API (default: https://api.cohere.com).
	BaseURL string
	// Model name (default: embed-english-v3.0).
	Model string
	// InputType specifies the type of input, required for v3+ models.
	// Queries use "search_query"; indexed documents use "search_document".
	InputType string
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
}

// NewCohereEmbedder creates a Cohere embeddings client.
func NewCohereEmbedder(apiKey string, optFns ...func(o *CohereEmbedderOptions)) *CohereEmbedder {
	opts := CohereEmbedderOptions{
		BaseURL:    cohereBaseURL,
		Model:      "embed-english-v3.0",
		InputType:  "search_query",
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &CohereEmbedder{
		client: &cohereClient{
			httpClient: opts.HTTPClient,
			apiKey:     apiKey,
			baseURL:    opts.BaseURL,
		},
		model:     opts.Model,
		inputType: opts.InputType,
	}
}

type cohereEmbedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type cohereEmbedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

// Embed implements Embedder.
func (e *CohereEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := cohereEmbedRequest{
		Model:          e.model,
		Texts:          []string{text},
		InputType:      e.inputType,
		EmbeddingTypes: []string{"float"},
	}

	var parsed cohereEmbedResponse
	if err := e.client.post(ctx, "/v2/embed", payload, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Embeddings.Float) == 0 {
		return nil, fmt.Errorf("cohere embed returned no embeddings")
	}
	return parsed.Embeddings.Float[0], nil
}
