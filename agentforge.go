// Package agentforge provides a high-level façade over the agent manager,
// tool registry and retrieval pipeline, enabling construction of a
// ready-to-serve conversational agent from an environment snapshot. Most
// applications interact with this package by:
//  1. Creating an AgentForge via New() with an agent.Config
//  2. Serving it over HTTP (Serve) or pushing it to a managed
//     reasoning-engine endpoint (Deploy)
//
// The façade owns the wiring decisions: real retrieval backends versus stubs,
// fallback model resolution and tool registry assembly. All defaults are safe
// for local development; production deployments supply credentials through
// the environment.
package agentforge

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentforge/agent"
	"github.com/hupe1980/agentforge/config"
	"github.com/hupe1980/agentforge/deploy"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/model"
	"github.com/hupe1980/agentforge/retrieval"
	"github.com/hupe1980/agentforge/server"
	"github.com/hupe1980/agentforge/tool"
)

// Options configures the AgentForge instance.
type Options struct {
	// Config is the environment snapshot. Nil resolves a fresh one from the
	// process environment.
	Config *config.Config
	// FallbackModelName backs the always-present fallback tool
	// (default: gpt-4o-mini).
	FallbackModelName string
	// Logger for all components. Nil disables logging.
	Logger logging.Logger
}

// AgentForge bundles a fully wired agent manager with the configuration it
// was built from.
type AgentForge struct {
	cfg     *config.Config
	manager agent.Manager
	logger  logging.Logger
}

// New assembles the dependency graph and constructs the manager selected by
// agentCfg.Framework. Construction is fail-fast: a bad model name surfaces as
// model.ErrNotFound before any executor exists.
func New(agentCfg agent.Config, optFns ...func(o *Options)) (*AgentForge, error) {
	opts := Options{
		FallbackModelName: "gpt-4o-mini",
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.FromEnv()
	}

	fallback, err := model.Resolve(opts.FallbackModelName, model.Params{
		MaxRetries:  agentCfg.MaxRetries,
		Temperature: agentCfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fallback model: %w", err)
	}

	retrieveTool, err := buildRetrieveTool(cfg, opts.Logger)
	if err != nil {
		return nil, err
	}

	registry := tool.NewRegistry(cfg, fallback, func(o *tool.RegistryOptions) {
		o.RetrieveTool = retrieveTool
		o.Logger = opts.Logger
	})

	manager, err := agent.New(agentCfg, agent.Dependencies{
		Registry: registry,
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &AgentForge{
		cfg:     cfg,
		manager: manager,
		logger:  opts.Logger,
	}, nil
}

// buildRetrieveTool wires the retrieval pipeline when a data store is
// configured: Cohere embeddings + Qdrant search + Cohere re-ranking, or the
// no-network stubs when the integration-test switch is on.
func buildRetrieveTool(cfg *config.Config, logger logging.Logger) (tool.Tool, error) {
	if !cfg.RetrievalEnabled() {
		return nil, nil
	}

	var (
		retriever retrieval.Retriever
		reranker  retrieval.Reranker
	)

	if cfg.IntegrationTest {
		retriever = retrieval.StubRetriever{}
		reranker = retrieval.StubReranker{}
	} else {
		embedder := retrieval.NewCohereEmbedder(cfg.CohereAPIKey)

		qdrantRetriever, err := retrieval.NewQdrantRetriever(cfg.QdrantHost, cfg.QdrantPort, cfg.DataStoreID, embedder)
		if err != nil {
			return nil, err
		}

		retriever = qdrantRetriever
		reranker = retrieval.NewCohereReranker(cfg.CohereAPIKey)
	}

	adapter := retrieval.NewAdapter(retriever, reranker, func(o *retrieval.AdapterOptions) {
		o.Logger = logger
	})

	return adapter.Tool(), nil
}

// Manager returns the wired agent manager.
func (a *AgentForge) Manager() agent.Manager { return a.manager }

// Config returns the configuration snapshot the instance was built from.
func (a *AgentForge) Config() *config.Config { return a.cfg }

// Serve runs the HTTP front door on addr until ctx is canceled.
func (a *AgentForge) Serve(ctx context.Context, addr string) error {
	srv := server.New(a.manager, func(o *server.Options) {
		o.Addr = addr
		o.FrontendURL = a.cfg.FrontendURL
		o.Logger = a.logger
	})

	return srv.Start(ctx)
}

// Deploy pushes the agent to the configured reasoning-engine endpoint.
func (a *AgentForge) Deploy(ctx context.Context, optFns ...func(o *deploy.ClientOptions)) (*deploy.Engine, error) {
	if a.cfg.DeployEndpoint == "" {
		return nil, fmt.Errorf("deploy endpoint is not configured")
	}

	clientOptFns := append([]func(o *deploy.ClientOptions){func(o *deploy.ClientOptions) {
		o.Region = a.cfg.Region
		o.Logger = a.logger
	}}, optFns...)

	client := deploy.NewClient(a.cfg.DeployEndpoint, a.cfg.DeployAPIKey, clientOptFns...)

	return client.Deploy(ctx, a.manager)
}
