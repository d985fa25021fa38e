package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/tool"
)

// Adapter chains a Retriever with a Reranker and renders the surviving
// documents into a single prompt-ready string. It is the backing
// implementation of the retrieve_info tool.
type Adapter struct {
	retriever Retriever
	reranker  Reranker
	logger    logging.Logger
}

// AdapterOptions configure optional Adapter dependencies.
type AdapterOptions struct {
	// Logger for retrieval diagnostics.
	Logger logging.Logger
}

// NewAdapter creates an Adapter over the given retriever and reranker.
func NewAdapter(retriever Retriever, reranker Reranker, optFns ...func(o *AdapterOptions)) *Adapter {
	opts := AdapterOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Adapter{
		retriever: retriever,
		reranker:  reranker,
		logger:    opts.Logger,
	}
}

// RetrieveInfo runs the full pipeline: similarity search, relevance
// re-ranking, then formatting. The returned string is what the model sees;
// the documents are returned alongside for callers that surface citations.
func (a *Adapter) RetrieveInfo(ctx context.Context, query string) (string, []core.Document, error) {
	candidates, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}

	a.logger.Debug("retrieval.candidates", "query", query, "count", len(candidates))

	docs, err := a.reranker.Rerank(ctx, query, candidates)
	if err != nil {
		return "", nil, fmt.Errorf("reranking failed: %w", err)
	}

	a.logger.Debug("retrieval.reranked", "query", query, "count", len(docs))

	return formatDocs(docs), docs, nil
}

// Tool exposes the pipeline as the retrieve_info function tool.
func (a *Adapter) Tool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"retrieve_info",
		"Use this when you need additional information to answer a question. "+
			"Searches the document store for passages relevant to the query.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
			},
			"required": []string{"query"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["query"].(string)

			content, docs, err := a.RetrieveInfo(toolCtx.Context(), query)
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"content":   content,
				"documents": docs,
			}, nil
		},
	)
}

// formatDocs renders documents as numbered pseudo-XML blocks separated by
// blank lines. Indices start at zero so the model can cite them back.
func formatDocs(docs []core.Document) string {
	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("<Document %d>\n%s\n</Document %d>", i, doc.Content, i))
	}

	return strings.Join(blocks, "\n\n")
}
