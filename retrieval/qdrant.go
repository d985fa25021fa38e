package retrieval

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentforge/core"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantRetriever implements Retriever against a Qdrant collection. Queries
// are embedded with the configured Embedder and matched by cosine similarity.
type QdrantRetriever struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
	topK       uint64
}

// QdrantRetrieverOptions configure the Qdrant retriever.
type QdrantRetrieverOptions struct {
	// APIKey for Qdrant Cloud deployments. Empty for local instances.
	APIKey string
	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
	// TopK is the number of candidates fetched per query (default: 20).
	TopK uint64
}

// NewQdrantRetriever connects to Qdrant over gRPC and returns a retriever
// scoped to the given collection.
func NewQdrantRetriever(host string, port int, collection string, embedder Embedder, optFns ...func(o *QdrantRetrieverOptions)) (*QdrantRetriever, error) {
	opts := QdrantRetrieverOptions{
		TopK: 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: opts.APIKey,
		UseTLS: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client for %s:%d: %w", host, port, err)
	}

	return &QdrantRetriever{
		client:     client,
		embedder:   embedder,
		collection: collection,
		topK:       opts.TopK,
	}, nil
}

// Retrieve implements Retriever.
func (r *QdrantRetriever) Retrieve(ctx context.Context, query string) ([]core.Document, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := r.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          r.topK,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	docs := make([]core.Document, 0, len(searchResult.Result))
	for _, point := range searchResult.Result {
		docs = append(docs, scoredPointToDocument(point))
	}

	return docs, nil
}

func scoredPointToDocument(point *qdrant.ScoredPoint) core.Document {
	doc := core.Document{
		Score:    float64(point.Score),
		Metadata: make(map[string]any),
	}

	switch id := point.Id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Uuid:
		doc.ID = id.Uuid
	case *qdrant.PointId_Num:
		doc.ID = fmt.Sprintf("%d", id.Num)
	}

	for key, value := range point.Payload {
		converted := qdrantValueToAny(value)

		switch key {
		case "content", "page_content":
			if s, ok := converted.(string); ok {
				doc.Content = s
				continue
			}
		case "title":
			if s, ok := converted.(string); ok {
				doc.Title = s
				continue
			}
		}

		doc.Metadata[key] = converted
	}

	return doc
}

func qdrantValueToAny(value *qdrant.Value) any {
	switch v := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return v.StringValue
	case *qdrant.Value_IntegerValue:
		return v.IntegerValue
	case *qdrant.Value_DoubleValue:
		return v.DoubleValue
	case *qdrant.Value_BoolValue:
		return v.BoolValue
	case *qdrant.Value_ListValue:
		items := make([]any, 0, len(v.ListValue.Values))
		for _, item := range v.ListValue.Values {
			items = append(items, qdrantValueToAny(item))
		}
		return items
	case *qdrant.Value_StructValue:
		fields := make(map[string]any, len(v.StructValue.Fields))
		for k, item := range v.StructValue.Fields {
			fields[k] = qdrantValueToAny(item)
		}
		return fields
	default:
		return nil
	}
}
