package tool

import (
	"github.com/hupe1980/agentforge/config"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/model"
)

// Industry selects the vertical-specific tool added to the agent's tool set.
type Industry string

const (
	// IndustryNone disables vertical-specific tools.
	IndustryNone Industry = ""
	// IndustryFinance adds the finance news tool.
	IndustryFinance Industry = "finance"
	// IndustryHealthcare adds the medical publications tool.
	IndustryHealthcare Industry = "healthcare"
	// IndustryRetail is reserved; no retail tool ships yet.
	IndustryRetail Industry = "retail"
)

// Registry assembles the ordered tool set offered to an agent. It is built
// once at startup from the configuration snapshot and explicit dependencies;
// Tools is deterministic for a fixed selector and snapshot and performs no
// side effects beyond reading the captured state.
type Registry struct {
	cfg          *config.Config
	fallbackLLM  model.Model
	retrieveTool Tool
	logger       logging.Logger
}

// RegistryOptions configure optional Registry dependencies.
type RegistryOptions struct {
	// RetrieveTool is the document retrieval tool. It is only offered when
	// the configuration carries a data-store identifier.
	RetrieveTool Tool
	// Logger used by tools that need one at construction time.
	Logger logging.Logger
}

// NewRegistry builds a Registry. fallbackLLM backs the always-present
// fallback tool and must not be nil.
func NewRegistry(cfg *config.Config, fallbackLLM model.Model, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		cfg:          cfg,
		fallbackLLM:  fallbackLLM,
		retrieveTool: opts.RetrieveTool,
		logger:       opts.Logger,
	}
}

// Tools returns the ordered tool list for the given industry selector.
//
// Assembly order:
//  1. the industry tool, on exact selector match (unknown selectors add none)
//  2. the four general web-information tools, only when a search API key is
//     configured
//  3. the retrieval tool, only when a data-store identifier is configured
//  4. the fallback tool and the should_continue tool, always, last, in that
//     order
//
// Duplicates are not deduplicated; callers own uniqueness if they extend the
// returned slice.
func (r *Registry) Tools(industry Industry) []Tool {
	var tools []Tool

	switch industry {
	case IndustryFinance:
		tools = append(tools, NewFinanceNewsTool())
	case IndustryHealthcare:
		tools = append(tools, NewMedicalPublicationsTool())
	}

	// These tools are only offered when the user configured a search API key.
	if r.cfg.SearchEnabled() {
		serper := NewSerperClient(r.cfg.SerperAPIKey)
		tools = append(tools,
			NewWebSearchTool(serper),
			NewScholarSearchTool(serper),
			NewTrendsSearchTool(serper),
			NewFinanceSearchTool(serper),
		)
	}

	// The retrieval tool is only offered when a data store is configured.
	if r.cfg.RetrievalEnabled() && r.retrieveTool != nil {
		tools = append(tools, r.retrieveTool)
	}

	tools = append(tools,
		NewFallbackTool(r.fallbackLLM),
		NewShouldContinueTool(),
	)

	return tools
}
