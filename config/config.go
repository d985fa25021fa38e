// Package config resolves all environment-derived configuration into an
// explicit, immutable snapshot taken once at startup. Components receive the
// snapshot (or individual values) as dependencies; nothing in the rest of the
// codebase reads environment variables ad hoc.
package config

import (
	"os"
	"strconv"
)

// Unset is the sentinel value used for optional credentials/identifiers that
// gate feature availability. A value equal to Unset means the corresponding
// capability (web search, document retrieval) is disabled.
const Unset = "unset"

// Config is the process-wide configuration snapshot.
type Config struct {
	// SerperAPIKey enables the general web-information tools when set to a
	// value other than Unset.
	SerperAPIKey string

	// DataStoreID identifies the search index backing the retrieval tool.
	// Retrieval is disabled while it equals Unset.
	DataStoreID string

	// Region is the cloud region used for managed services.
	Region string

	// SearchLocation is the location of the managed search index.
	SearchLocation string

	// CohereAPIKey authenticates the embedding and re-ranking services.
	CohereAPIKey string

	// QdrantHost / QdrantPort locate the vector search backend (gRPC).
	QdrantHost string
	QdrantPort int

	// IntegrationTest substitutes retrieval backends with stubs so the full
	// request path can be exercised without reaching managed services.
	IntegrationTest bool

	// FrontendURL is the single allowed CORS origin for the HTTP server.
	FrontendURL string

	// DeployEndpoint is the managed execution service the deploy helper
	// pushes agent manifests to.
	DeployEndpoint string

	// DeployAPIKey authenticates deployment requests (optional).
	DeployAPIKey string
}

// FromEnv builds a Config from the current process environment. Call it once
// at startup, after LoadDotEnv if .env support is wanted.
func FromEnv() *Config {
	return &Config{
		SerperAPIKey:    getenv("SERPER_API_KEY", Unset),
		DataStoreID:     getenv("DATA_STORE_ID", Unset),
		Region:          getenv("REGION", "us-central1"),
		SearchLocation:  getenv("SEARCH_LOCATION", "us"),
		CohereAPIKey:    getenv("COHERE_API_KEY", ""),
		QdrantHost:      getenv("QDRANT_HOST", "localhost"),
		QdrantPort:      getenvInt("QDRANT_PORT", 6334),
		IntegrationTest: os.Getenv("INTEGRATION_TEST") == "TRUE",
		FrontendURL:     getenv("FRONTEND_URL", "http://localhost:4200"),
		DeployEndpoint:  getenv("DEPLOY_ENDPOINT", ""),
		DeployAPIKey:    getenv("DEPLOY_API_KEY", ""),
	}
}

// SearchEnabled reports whether the web-search tool block should be offered.
func (c *Config) SearchEnabled() bool { return c.SerperAPIKey != Unset }

// RetrievalEnabled reports whether the retrieval tool should be offered.
func (c *Config) RetrievalEnabled() bool { return c.DataStoreID != Unset }

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
