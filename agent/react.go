package agent

import (
	"context"
	"errors"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/executor"
)

// reactStreamer is the executor surface ReactManager depends on. Satisfied by
// *executor.ReactExecutor; narrowed to an interface so tests can substitute a
// scripted stream.
type reactStreamer interface {
	Stream(ctx context.Context, input executor.ReactInput) (<-chan executor.Chunk, <-chan error)
}

// ReactManager wraps the single-pass react executor. Intermediate step chunks
// are consumed and dropped; only the terminal answer reaches the caller, as a
// single complete content event.
type ReactManager struct {
	*base
	exec reactStreamer
}

// NewReactManager constructs the react variant. See New for the construction
// contract.
func NewReactManager(cfg Config, deps Dependencies) (*ReactManager, error) {
	b, err := newBase(cfg.withDefaults(), deps)
	if err != nil {
		return nil, err
	}

	m := &ReactManager{base: b}
	m.setUp()

	return m, nil
}

// setUp binds the executor. Called exactly once from the constructor.
func (m *ReactManager) setUp() {
	m.exec = executor.NewReactExecutor(m.llm, m.tools, func(o *executor.ReactOptions) {
		o.Instructions = m.cfg.Prompt
		o.ReturnSteps = m.cfg.ReturnSteps
		o.Verbose = m.cfg.Verbose
		o.Logger = m.logger
	})
}

// StreamQuery implements Manager. The first message is the turn being
// answered; any remaining messages are treated as prior conversation.
func (m *ReactManager) StreamQuery(ctx context.Context, input core.ChatInput) (<-chan core.StreamEvent, <-chan error) {
	eventCh := make(chan core.StreamEvent, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		if len(input.Messages) == 0 {
			errCh <- &StreamError{Err: errors.New("no messages provided")}
			return
		}

		chunkCh, execErrCh := m.exec.Stream(ctx, executor.ReactInput{
			CurrentTurn: input.Messages[0],
			History:     input.Messages[1:],
		})

		for chunk := range chunkCh {
			if chunk.Kind != executor.ChunkKindFinal {
				continue
			}

			select {
			case eventCh <- core.NewContentEvent(chunk.Output, false):
			case <-ctx.Done():
				errCh <- &StreamError{Err: ctx.Err()}
				return
			}
		}

		if err, ok := <-execErrCh; ok && err != nil {
			errCh <- &StreamError{Err: err}
		}
	}()

	return eventCh, errCh
}
