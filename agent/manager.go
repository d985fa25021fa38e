// Package agent contains the orchestration managers that bind a configured
// model, a tool set and exactly one executor into a streaming query surface.
// Two variants ship, one per executor engine; both normalize their executor's
// native output into core.StreamEvent sequences.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/model"
	"github.com/hupe1980/agentforge/tool"
)

// Framework selects the orchestration engine a manager wraps.
type Framework string

const (
	// FrameworkReact wraps the single-pass react executor. Only the terminal
	// answer is surfaced.
	FrameworkReact Framework = "react"
	// FrameworkGraph wraps the message-mode graph executor. Assistant deltas
	// and complete messages are surfaced as they occur.
	FrameworkGraph Framework = "graph"
)

// Config captures everything a manager needs to assemble its executor. It is
// read once during construction and never mutated afterwards; changing any
// field requires building a new manager.
type Config struct {
	// Prompt is the system instruction prepended to every model call.
	Prompt string
	// Industry selects the vertical tool added by the registry.
	Industry tool.Industry
	// Framework selects the orchestration engine.
	Framework Framework
	// ModelName identifies the chat model (resolved via model.Resolve).
	ModelName string
	// MaxRetries is forwarded to the provider SDK (default: 6). Nothing above
	// the provider retries.
	MaxRetries int
	// MaxOutputTokens caps completion length. Zero keeps the provider default.
	MaxOutputTokens int64
	// Temperature is the sampling temperature (default: 0).
	Temperature float64
	// TopP nucleus sampling parameter. Zero keeps the provider default.
	TopP float64
	// TopK sampling parameter. Zero keeps the provider default.
	TopK int64
	// ReturnSteps surfaces intermediate tool steps (react only; they are
	// produced but dropped by the manager either way, see ReactManager).
	ReturnSteps bool
	// Verbose enables per-turn diagnostics (default: true).
	Verbose bool

	// verboseSet tracks whether Verbose was explicitly configured.
	verboseSet bool
}

// WithVerbose explicitly sets the Verbose flag, overriding the default.
func (c Config) WithVerbose(v bool) Config {
	c.Verbose = v
	c.verboseSet = true
	return c
}

// withDefaults fills unset knobs with the values the stack was tuned for.
func (c Config) withDefaults() Config {
	if c.Framework == "" {
		c.Framework = FrameworkReact
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 6
	}
	if !c.verboseSet {
		c.Verbose = true
	}
	return c
}

// Dependencies are the externally constructed collaborators a manager needs.
type Dependencies struct {
	// Registry assembles the tool set. Required.
	Registry *tool.Registry
	// Logger for diagnostics. Optional; a NoOpLogger is substituted when nil.
	Logger logging.Logger
}

// Manager is the streaming query surface exposed to transports. StreamQuery
// is lazy: each call starts an independent run; a consumed stream cannot be
// resumed, only restarted.
type Manager interface {
	// StreamQuery runs one query. The event channel closes when the run ends;
	// at most one error is sent, wrapped as *StreamError.
	StreamQuery(ctx context.Context, input core.ChatInput) (<-chan core.StreamEvent, <-chan error)

	// Config returns the immutable configuration snapshot.
	Config() Config

	// Tools returns the tool set bound at construction.
	Tools() []tool.Tool
}

// New builds the manager variant selected by cfg.Framework. Construction is
// strictly sequential and fail-fast: tools are assembled first, then the
// model is resolved, then the executor is built. A partially constructed
// manager is never returned.
func New(cfg Config, deps Dependencies) (Manager, error) {
	cfg = cfg.withDefaults()

	switch cfg.Framework {
	case FrameworkReact:
		return NewReactManager(cfg, deps)
	case FrameworkGraph:
		return NewGraphManager(cfg, deps)
	default:
		return nil, &InitError{Err: fmt.Errorf("unknown framework %q", cfg.Framework)}
	}
}

// base holds the state shared by both manager variants.
type base struct {
	cfg    Config
	tools  []tool.Tool
	llm    model.Model
	logger logging.Logger
}

// newBase performs the variant-independent construction steps.
func newBase(cfg Config, deps Dependencies) (*base, error) {
	if deps.Registry == nil {
		return nil, &InitError{Err: errors.New("tool registry is required")}
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	tools := deps.Registry.Tools(cfg.Industry)

	llm, err := model.Resolve(cfg.ModelName, model.Params{
		MaxRetries:      cfg.MaxRetries,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		Verbose:         cfg.Verbose,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, &InitError{Err: err}
	}

	return &base{
		cfg:    cfg,
		tools:  tools,
		llm:    llm,
		logger: logger,
	}, nil
}

// Config implements Manager.
func (b *base) Config() Config { return b.cfg }

// Tools implements Manager.
func (b *base) Tools() []tool.Tool { return b.tools }
