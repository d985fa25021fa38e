package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/model"
	"github.com/hupe1980/agentforge/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel replays one canned response stream per Generate call.
type scriptedModel struct {
	turns [][]model.Response
	errs  []error
	calls int

	gotRequests []model.Request
}

func (m *scriptedModel) Generate(_ context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response, 16)
	errCh := make(chan error, 1)

	m.gotRequests = append(m.gotRequests, req)

	idx := m.calls
	m.calls++

	go func() {
		defer close(respCh)
		defer close(errCh)

		if idx < len(m.errs) && m.errs[idx] != nil {
			errCh <- m.errs[idx]
			return
		}

		for _, resp := range m.turns[idx] {
			respCh <- resp
		}
	}()

	return respCh, errCh
}

func (m *scriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test", SupportsTools: true}
}

func toolCallResponse(id, name, args string) model.Response {
	return model.Response{
		Content: core.Content{
			Role: "assistant",
			Parts: []core.Part{core.FunctionCallPart{
				FunctionCall: core.FunctionCall{ID: id, Name: name, Arguments: args},
			}},
		},
		FinishReason: "tool_calls",
	}
}

func finalResponse(text string) model.Response {
	return model.Response{
		Content:      core.NewAssistantContent(text),
		FinishReason: "stop",
	}
}

func echoTool(t *testing.T) tool.Tool {
	t.Helper()

	return tool.NewFunctionTool(
		"echo",
		"Echoes the input back",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return args["text"], nil
		},
	)
}

func TestReactExecutor(t *testing.T) {
	t.Run("tool loop then final answer", func(t *testing.T) {
		llm := &scriptedModel{turns: [][]model.Response{
			{toolCallResponse("fc-1", "echo", `{"text":"pong"}`)},
			{finalResponse("the answer")},
		}}

		exec := NewReactExecutor(llm, []tool.Tool{echoTool(t)}, func(o *ReactOptions) {
			o.ReturnSteps = true
		})

		chunkCh, errCh := exec.Stream(context.Background(), ReactInput{
			CurrentTurn: core.NewUserContent("ping"),
		})

		var chunks []Chunk
		for chunk := range chunkCh {
			chunks = append(chunks, chunk)
		}
		require.NoError(t, <-errCh)

		require.Len(t, chunks, 2)

		assert.Equal(t, ChunkKindStep, chunks[0].Kind)
		require.NotNil(t, chunks[0].Step)
		assert.Equal(t, "echo", chunks[0].Step.Action)
		assert.Equal(t, "pong", chunks[0].Step.Observation)

		assert.Equal(t, ChunkKindFinal, chunks[1].Kind)
		assert.Equal(t, "the answer", chunks[1].Output)
	})

	t.Run("steps suppressed by default", func(t *testing.T) {
		llm := &scriptedModel{turns: [][]model.Response{
			{toolCallResponse("fc-1", "echo", `{"text":"pong"}`)},
			{finalResponse("done")},
		}}

		exec := NewReactExecutor(llm, []tool.Tool{echoTool(t)})

		chunkCh, errCh := exec.Stream(context.Background(), ReactInput{
			CurrentTurn: core.NewUserContent("ping"),
		})

		var chunks []Chunk
		for chunk := range chunkCh {
			chunks = append(chunks, chunk)
		}
		require.NoError(t, <-errCh)

		require.Len(t, chunks, 1)
		assert.Equal(t, ChunkKindFinal, chunks[0].Kind)
	})

	t.Run("history precedes current turn", func(t *testing.T) {
		llm := &scriptedModel{turns: [][]model.Response{
			{finalResponse("ok")},
		}}

		exec := NewReactExecutor(llm, nil, func(o *ReactOptions) {
			o.Instructions = "be helpful"
		})

		chunkCh, errCh := exec.Stream(context.Background(), ReactInput{
			CurrentTurn: core.NewUserContent("now"),
			History: []core.Content{
				core.NewUserContent("before"),
				core.NewAssistantContent("earlier answer"),
			},
		})

		for range chunkCh {
		}
		require.NoError(t, <-errCh)

		require.Len(t, llm.gotRequests, 1)
		req := llm.gotRequests[0]

		assert.Equal(t, "be helpful", req.Instructions)
		require.Len(t, req.Contents, 3)
		assert.Equal(t, "before", req.Contents[0].Text())
		assert.Equal(t, "now", req.Contents[2].Text())
		assert.False(t, req.Stream)
	})

	t.Run("model error terminates run", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		llm := &scriptedModel{errs: []error{boom}}

		exec := NewReactExecutor(llm, nil)

		chunkCh, errCh := exec.Stream(context.Background(), ReactInput{
			CurrentTurn: core.NewUserContent("ping"),
		})

		for range chunkCh {
		}
		assert.ErrorIs(t, <-errCh, boom)
	})

	t.Run("max turns exhausted", func(t *testing.T) {
		llm := &scriptedModel{turns: [][]model.Response{
			{toolCallResponse("fc-1", "echo", `{"text":"a"}`)},
			{toolCallResponse("fc-2", "echo", `{"text":"b"}`)},
		}}

		exec := NewReactExecutor(llm, []tool.Tool{echoTool(t)}, func(o *ReactOptions) {
			o.MaxTurns = 2
		})

		chunkCh, errCh := exec.Stream(context.Background(), ReactInput{
			CurrentTurn: core.NewUserContent("ping"),
		})

		for range chunkCh {
		}
		err := <-errCh
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no final answer")
	})
}

func TestGraphExecutor(t *testing.T) {
	t.Run("streams deltas tools and final message", func(t *testing.T) {
		llm := &scriptedModel{turns: [][]model.Response{
			{
				toolCallResponse("fc-1", "echo", `{"text":"pong"}`),
			},
			{
				{Partial: true, Content: core.NewAssistantContent("the ")},
				{Partial: true, Content: core.NewAssistantContent("answer")},
				finalResponse("the answer"),
			},
		}}

		exec := NewGraphExecutor(llm, []tool.Tool{echoTool(t)})

		msgCh, errCh := exec.Stream(context.Background(), GraphInput{
			Messages: []core.Content{core.NewUserContent("ping")},
		})

		var msgs []Message
		for msg := range msgCh {
			msgs = append(msgs, msg)
		}
		require.NoError(t, <-errCh)

		// tool-call message, tool result, two deltas, final message
		require.Len(t, msgs, 5)

		assert.Len(t, msgs[0].Content.FunctionCalls(), 1)
		assert.False(t, msgs[0].Partial)

		assert.Equal(t, "tool", msgs[1].Content.Role)
		responses := msgs[1].Content.FunctionResponses()
		require.Len(t, responses, 1)
		assert.Equal(t, "pong", responses[0].Response)

		assert.True(t, msgs[2].Partial)
		assert.Equal(t, "the ", msgs[2].Content.Text())
		assert.True(t, msgs[3].Partial)

		assert.False(t, msgs[4].Partial)
		assert.Equal(t, "the answer", msgs[4].Content.Text())
	})

	t.Run("requests streaming from model", func(t *testing.T) {
		llm := &scriptedModel{turns: [][]model.Response{
			{finalResponse("ok")},
		}}

		exec := NewGraphExecutor(llm, nil)

		msgCh, errCh := exec.Stream(context.Background(), GraphInput{
			Messages: []core.Content{core.NewUserContent("hi")},
		})

		for range msgCh {
		}
		require.NoError(t, <-errCh)

		require.Len(t, llm.gotRequests, 1)
		assert.True(t, llm.gotRequests[0].Stream)
	})

	t.Run("tool failure is surfaced in tool message", func(t *testing.T) {
		failing := tool.NewFunctionTool(
			"boom",
			"Always fails",
			map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ *core.ToolContext, _ map[string]any) (any, error) {
				return nil, errors.New("kaboom")
			},
		)

		llm := &scriptedModel{turns: [][]model.Response{
			{toolCallResponse("fc-1", "boom", `{}`)},
			{finalResponse("recovered")},
		}}

		exec := NewGraphExecutor(llm, []tool.Tool{failing})

		msgCh, errCh := exec.Stream(context.Background(), GraphInput{
			Messages: []core.Content{core.NewUserContent("go")},
		})

		var toolMsgs []Message
		for msg := range msgCh {
			if msg.Content.Role == "tool" {
				toolMsgs = append(toolMsgs, msg)
			}
		}
		require.NoError(t, <-errCh)

		require.Len(t, toolMsgs, 1)
		responses := toolMsgs[0].Content.FunctionResponses()
		require.Len(t, responses, 1)
		assert.Contains(t, responses[0].Error, "kaboom")
	})
}
