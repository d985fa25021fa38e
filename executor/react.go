package executor

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/model"
	"github.com/hupe1980/agentforge/tool"
)

// ChunkKind discriminates react chunk payloads.
type ChunkKind string

const (
	// ChunkKindStep carries an intermediate tool action and its observation.
	ChunkKindStep ChunkKind = "step"
	// ChunkKindFinal carries the terminal answer. Exactly one per run.
	ChunkKindFinal ChunkKind = "final"
)

// Step records a single tool invocation made during a react run.
type Step struct {
	// Action is the tool name the model chose.
	Action string
	// Input is the raw serialized argument payload.
	Input string
	// Observation is the tool result fed back to the model.
	Observation any
	// Err is set when the tool failed; Observation is nil in that case.
	Err string
}

// Chunk is an item of react executor output.
type Chunk struct {
	Kind   ChunkKind
	Step   *Step
	Output string
}

// ReactInput is the executor input split into the turn being answered and the
// preceding conversation.
type ReactInput struct {
	CurrentTurn core.Content
	History     []core.Content
}

// ReactExecutor runs a single-pass reasoning loop: prompt the model, execute
// any requested tools, feed the observations back, repeat until the model
// answers in plain text. Intermediate steps are surfaced only when
// ReturnSteps is enabled; the final answer is always the last chunk.
type ReactExecutor struct {
	llm          model.Model
	registry     map[string]tool.Tool
	defs         []model.ToolDefinition
	instructions string
	maxTurns     int
	returnSteps  bool
	verbose      bool
	logger       logging.Logger
}

// ReactOptions configure a ReactExecutor.
type ReactOptions struct {
	// Instructions is the system prompt prepended to every model call.
	Instructions string
	// MaxTurns bounds the tool loop (default: 10).
	MaxTurns int
	// ReturnSteps surfaces intermediate tool steps as chunks.
	ReturnSteps bool
	// Verbose logs each turn.
	Verbose bool
	// Logger for diagnostics.
	Logger logging.Logger
}

// NewReactExecutor creates a ReactExecutor over the given model and tools.
func NewReactExecutor(llm model.Model, tools []tool.Tool, optFns ...func(o *ReactOptions)) *ReactExecutor {
	opts := ReactOptions{
		MaxTurns: 10,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ReactExecutor{
		llm:          llm,
		registry:     toolMap(tools),
		defs:         toolDefinitions(tools),
		instructions: opts.Instructions,
		maxTurns:     opts.MaxTurns,
		returnSteps:  opts.ReturnSteps,
		verbose:      opts.Verbose,
		logger:       opts.Logger,
	}
}

// Stream launches the loop asynchronously. The chunk channel closes after the
// final chunk or an error; at most one error is sent. Each call is an
// independent run.
func (e *ReactExecutor) Stream(ctx context.Context, input ReactInput) (<-chan Chunk, <-chan error) {
	chunkCh := make(chan Chunk, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(chunkCh)
		defer close(errCh)

		contents := make([]core.Content, 0, len(input.History)+1)
		contents = append(contents, input.History...)
		contents = append(contents, input.CurrentTurn)

		runID := core.NewID()

		for turn := 0; turn < e.maxTurns; turn++ {
			if e.verbose {
				e.logger.Info("react.turn", "run_id", runID, "turn", turn, "messages", len(contents))
			}

			respCh, modelErrCh := e.llm.Generate(ctx, model.Request{
				Instructions: e.instructions,
				Contents:     contents,
				Tools:        e.defs,
			})

			final, err := drain(respCh, modelErrCh, nil)
			if err != nil {
				errCh <- err
				return
			}

			fnCalls := final.Content.FunctionCalls()
			if len(fnCalls) == 0 {
				// Plain text answer terminates the loop.
				select {
				case chunkCh <- Chunk{Kind: ChunkKindFinal, Output: final.Content.Text()}:
				case <-ctx.Done():
					errCh <- ctx.Err()
				}
				return
			}

			contents = append(contents, final.Content)

			for _, call := range fnCalls {
				toolCtx := core.NewToolContext(ctx, runID, call.ID, e.logger)

				result, toolErr := dispatch(toolCtx, e.registry, call, e.logger)

				contents = append(contents, functionResponseContent(call, result, toolErr))

				if e.returnSteps {
					step := &Step{
						Action:      call.Name,
						Input:       call.Arguments,
						Observation: result,
					}
					if toolErr != nil {
						step.Err = toolErr.Error()
						step.Observation = nil
					}

					select {
					case chunkCh <- Chunk{Kind: ChunkKindStep, Step: step}:
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					}
				}
			}
		}

		errCh <- fmt.Errorf("no final answer after %d turns", e.maxTurns)
	}()

	return chunkCh, errCh
}
