// Package deploy pushes a configured agent to a managed reasoning-engine
// endpoint. It serializes the agent's configuration and tool surface into a
// deployment manifest and submits it over HTTP; it does not build or upload
// code artifacts.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/agentforge/agent"
	"github.com/hupe1980/agentforge/logging"
)

// requirements is the static dependency list advertised in the manifest. It
// mirrors the module's direct requirements; keep it in sync with go.mod.
var requirements = []string{
	"github.com/alecthomas/kong",
	"github.com/anthropics/anthropic-sdk-go",
	"github.com/go-chi/chi/v5",
	"github.com/go-chi/cors",
	"github.com/google/uuid",
	"github.com/joho/godotenv",
	"github.com/openai/openai-go",
	"github.com/qdrant/go-client",
}

// DeployError wraps any failure during deployment so callers can treat the
// whole operation as a single fallible step.
type DeployError struct {
	Err error
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("deployment failed: %v", e.Err)
}

func (e *DeployError) Unwrap() error { return e.Err }

// Manifest is the wire payload submitted to the reasoning-engine endpoint.
type Manifest struct {
	DisplayName  string         `json:"display_name"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	AgentConfig  manifestConfig `json:"agent_config"`
	Tools        []string       `json:"tools"`
}

type manifestConfig struct {
	Prompt          string  `json:"prompt,omitempty"`
	Industry        string  `json:"industry,omitempty"`
	Framework       string  `json:"framework"`
	ModelName       string  `json:"model_name"`
	MaxRetries      int     `json:"max_retries"`
	MaxOutputTokens int64   `json:"max_output_tokens,omitempty"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"top_p,omitempty"`
	TopK            int64   `json:"top_k,omitempty"`
	ReturnSteps     bool    `json:"return_steps,omitempty"`
}

// Engine describes the deployed engine as reported by the endpoint.
type Engine struct {
	Name       string `json:"name"`
	Region     string `json:"region"`
	ResourceID string `json:"resource_id"`
}

// Client submits deployment manifests to a reasoning-engine endpoint.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	region      string
	displayName string
	description string
	logger      logging.Logger
}

// ClientOptions configure the deploy client.
type ClientOptions struct {
	// Region the engine is deployed into (default: us-central1).
	Region string
	// DisplayName shown in the engine console (default: agentforge).
	DisplayName string
	// Description shown in the engine console.
	Description string
	// HTTPClient overrides the default 60s-timeout client.
	HTTPClient *http.Client
	// Logger for diagnostics.
	Logger logging.Logger
}

// NewClient creates a deploy client for the given endpoint.
func NewClient(endpoint, apiKey string, optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		Region:      "us-central1",
		DisplayName: "agentforge",
		Description: "Tool-using conversational agent",
		HTTPClient:  &http.Client{Timeout: 60 * time.Second},
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{
		httpClient:  opts.HTTPClient,
		endpoint:    endpoint,
		apiKey:      apiKey,
		region:      opts.Region,
		displayName: opts.DisplayName,
		description: opts.Description,
		logger:      opts.Logger,
	}
}

// Deploy builds the manifest for the given manager and submits it. Any
// failure, from marshalling to a non-2xx response, comes back as *DeployError.
func (c *Client) Deploy(ctx context.Context, mgr agent.Manager) (*Engine, error) {
	cfg := mgr.Config()

	toolNames := make([]string, 0, len(mgr.Tools()))
	for _, t := range mgr.Tools() {
		toolNames = append(toolNames, t.Name())
	}

	manifest := Manifest{
		DisplayName:  c.displayName,
		Description:  c.description,
		Requirements: requirements,
		AgentConfig: manifestConfig{
			Prompt:          cfg.Prompt,
			Industry:        string(cfg.Industry),
			Framework:       string(cfg.Framework),
			ModelName:       cfg.ModelName,
			MaxRetries:      cfg.MaxRetries,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			ReturnSteps:     cfg.ReturnSteps,
		},
		Tools: toolNames,
	}

	body, err := json.Marshal(manifest)
	if err != nil {
		return nil, &DeployError{Err: err}
	}

	url := fmt.Sprintf("%s/v1/regions/%s/engines", c.endpoint, c.region)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &DeployError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("deploy.submit", "endpoint", c.endpoint, "region", c.region, "tools", len(toolNames))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DeployError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &DeployError{Err: fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, string(data))}
	}

	var engine Engine
	if err := json.NewDecoder(resp.Body).Decode(&engine); err != nil {
		return nil, &DeployError{Err: fmt.Errorf("failed to decode engine response: %w", err)}
	}

	c.logger.Info("deploy.complete", "engine", engine.Name, "resource_id", engine.ResourceID)

	return &engine, nil
}
