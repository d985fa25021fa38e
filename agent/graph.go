package agent

import (
	"context"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/executor"
)

// graphStreamer is the executor surface GraphManager depends on. Satisfied by
// *executor.GraphExecutor; narrowed to an interface so tests can substitute a
// scripted stream.
type graphStreamer interface {
	Stream(ctx context.Context, input executor.GraphInput) (<-chan executor.Message, <-chan error)
}

// GraphManager wraps the message-mode graph executor. Assistant deltas and
// complete assistant messages are forwarded verbatim as content events.
// Tool-result messages are currently only logged.
type GraphManager struct {
	*base
	exec graphStreamer
}

// NewGraphManager constructs the graph variant. See New for the construction
// contract.
func NewGraphManager(cfg Config, deps Dependencies) (*GraphManager, error) {
	b, err := newBase(cfg.withDefaults(), deps)
	if err != nil {
		return nil, err
	}

	m := &GraphManager{base: b}
	m.setUp()

	return m, nil
}

// setUp binds the executor. Called exactly once from the constructor.
func (m *GraphManager) setUp() {
	m.exec = executor.NewGraphExecutor(m.llm, m.tools, func(o *executor.GraphOptions) {
		o.Instructions = m.cfg.Prompt
		o.Debug = m.cfg.Verbose
		o.Logger = m.logger
	})
}

// StreamQuery implements Manager. The full message list is handed to the
// executor as conversation state.
func (m *GraphManager) StreamQuery(ctx context.Context, input core.ChatInput) (<-chan core.StreamEvent, <-chan error) {
	eventCh := make(chan core.StreamEvent, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		msgCh, execErrCh := m.exec.Stream(ctx, executor.GraphInput{
			Messages: input.Messages,
		})

		for msg := range msgCh {
			if msg.Content.Role == "tool" {
				// TODO: surface tool results as tool events once the frontend
				// renders them; until then they are diagnostics only.
				for _, fr := range msg.Content.FunctionResponses() {
					m.logger.Info("agent.tool.result", "tool", fr.Name, "function_call_id", fr.ID, "error", fr.Error != "")
				}
				continue
			}

			select {
			case eventCh <- core.NewContentEvent(msg.Content.Text(), msg.Partial):
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
