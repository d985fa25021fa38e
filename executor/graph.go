package executor

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/model"
	"github.com/hupe1980/agentforge/tool"
)

// Message is an item of graph executor output. Assistant messages arrive as
// partial text deltas followed by the complete message; tool results arrive
// as tool-role messages.
type Message struct {
	Content core.Content
	Partial bool
}

// GraphInput is the executor input: the full conversation so far.
type GraphInput struct {
	Messages []core.Content
}

// GraphExecutor runs the same model/tool cycle as ReactExecutor but streams
// everything it sees: assistant text deltas while the model generates,
// complete assistant messages (including those requesting tools), and the
// tool results themselves. Callers decide what to surface.
type GraphExecutor struct {
	llm          model.Model
	registry     map[string]tool.Tool
	defs         []model.ToolDefinition
	instructions string
	maxTurns     int
	debug        bool
	logger       logging.Logger
}

// GraphOptions configure a GraphExecutor.
type GraphOptions struct {
	// Instructions is the system prompt prepended to every model call.
	Instructions string
	// MaxTurns bounds the tool loop (default: 10).
	MaxTurns int
	// Debug logs each state transition.
	Debug bool
	// Logger for diagnostics.
	Logger logging.Logger
}

// NewGraphExecutor creates a GraphExecutor over the given model and tools.
func NewGraphExecutor(llm model.Model, tools []tool.Tool, optFns ...func(o *GraphOptions)) *GraphExecutor {
	opts := GraphOptions{
		MaxTurns: 10,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &GraphExecutor{
		llm:          llm,
		registry:     toolMap(tools),
		defs:         toolDefinitions(tools),
		instructions: opts.Instructions,
		maxTurns:     opts.MaxTurns,
		debug:        opts.Debug,
		logger:       opts.Logger,
	}
}

// Stream launches the loop asynchronously. The message channel closes when
// the model produces a final answer without further tool calls; at most one
// error is sent. Each call is an independent run.
func (e *GraphExecutor) Stream(ctx context.Context, input GraphInput) (<-chan Message, <-chan error) {
	msgCh := make(chan Message, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		defer close(errCh)

		contents := make([]core.Content, len(input.Messages))
		copy(contents, input.Messages)

		runID := core.NewID()

		emit := func(msg Message) bool {
			select {
			case msgCh <- msg:
				return true
			case <-ctx.Done():
				errCh <- ctx.Err()
				return false
			}
		}

		for turn := 0; turn < e.maxTurns; turn++ {
			if e.debug {
				e.logger.Debug("graph.turn", "run_id", runID, "turn", turn, "messages", len(contents))
			}

			respCh, modelErrCh := e.llm.Generate(ctx, model.Request{
				Instructions: e.instructions,
				Contents:     contents,
				Tools:        e.defs,
				Stream:       true,
			})

			canceled := false
			final, err := drain(respCh, modelErrCh, func(resp model.Response) {
				if canceled {
					return
				}
				if !emit(Message{Content: resp.Content, Partial: true}) {
					canceled = true
				}
			})
			if canceled {
				return
			}
			if err != nil {
				errCh <- err
				return
			}

			if !emit(Message{Content: final.Content}) {
				return
			}

			fnCalls := final.Content.FunctionCalls()
			if len(fnCalls) == 0 {
				return
			}

			contents = append(contents, final.Content)

			for _, call := range fnCalls {
				toolCtx := core.NewToolContext(ctx, runID, call.ID, e.logger)

				result, toolErr := dispatch(toolCtx, e.registry, call, e.logger)

				toolMsg := functionResponseContent(call, result, toolErr)
				contents = append(contents, toolMsg)

				if !emit(Message{Content: toolMsg}) {
					return
				}
			}
		}

		errCh <- fmt.Errorf("no final answer after %d turns", e.maxTurns)
	}()

	return msgCh, errCh
}
