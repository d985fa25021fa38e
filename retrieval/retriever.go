// Package retrieval implements the "search then re-rank then format" tool
// backing. A Retriever fetches candidate documents for a query, a Reranker
// re-orders them by relevance, and the Adapter composes the two into a single
// call that also renders the ranked documents for model consumption.
//
// Real and stub implementations share the same interfaces; the composition
// root selects stubs when the integration-test flag is set so the full
// request path can run deterministically without managed backends.
package retrieval

import (
	"context"

	"github.com/hupe1980/agentforge/core"
)

// Retriever fetches candidate documents for a query from a search backend.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]core.Document, error)
}

// Reranker re-orders candidate documents by descending relevance to the
// query, truncating to its configured top-N.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []core.Document) ([]core.Document, error)
}

// StubRetriever returns no documents for any query. It never touches the
// network and is a drop-in substitute for a real Retriever in integration
// tests.
type StubRetriever struct{}

// Retrieve implements Retriever.
func (StubRetriever) Retrieve(context.Context, string) ([]core.Document, error) {
	return []core.Document{}, nil
}

// StubReranker returns no documents for any input. It never touches the
// network and is a drop-in substitute for a real Reranker in integration
// tests.
type StubReranker struct{}

// Rerank implements Reranker.
func (StubReranker) Rerank(context.Context, string, []core.Document) ([]core.Document, error) {
	return []core.Document{}, nil
}
