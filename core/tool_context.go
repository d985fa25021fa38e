package core

import (
	"context"

	"github.com/hupe1980/agentforge/logging"
)

// ToolContext provides a constrained, auditable surface for tool / function
// implementations invoked by an agent. Tools receive the ambient request
// context, a structured logger, and correlation identifiers; they get no
// access to the executor or transport internals.
type ToolContext struct {
	ctx            context.Context
	runID          string
	functionCallID string
	logger         logging.Logger
}

// NewToolContext constructs a tool context bound to a run and unique
// functionCallID. A nil logger is substituted with a NoOpLogger.
func NewToolContext(ctx context.Context, runID, functionCallID string, logger logging.Logger) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:            ctx,
		runID:          runID,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
