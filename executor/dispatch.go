package executor

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/model"
	"github.com/hupe1980/agentforge/tool"
)

// toolMap indexes tools by name for dispatch. Later entries win on duplicate
// names.
func toolMap(tools []tool.Tool) map[string]tool.Tool {
	m := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		m[t.Name()] = t
	}
	return m
}

// toolDefinitions converts tools into the declaration format passed to models.
func toolDefinitions(tools []tool.Tool) []model.ToolDefinition {
	if len(tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// dispatch executes a single function call against the tool registry. Panics
// inside tool implementations are recovered and returned as errors so a
// misbehaving tool cannot take down the run.
func dispatch(toolCtx *core.ToolContext, registry map[string]tool.Tool, call core.FunctionCall, logger logging.Logger) (result any, err error) {
	impl, ok := registry[call.Name]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", call.Name)
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args for %s: %w", call.Name, err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("executor.tool.panic", "tool", call.Name, "recover", r, "stack", string(debug.Stack()))
			result, err = nil, fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()

	start := time.Now()
	result, err = impl.Call(toolCtx, args)

	logger.Info("executor.tool.executed",
		"tool", call.Name,
		"function_call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	return result, err
}

// functionResponseContent wraps a tool result (or failure) as tool-role
// content that can be appended to the running conversation.
func functionResponseContent(call core.FunctionCall, result any, err error) core.Content {
	fr := core.FunctionResponse{
		ID:       call.ID,
		Name:     call.Name,
		Response: result,
	}
	if err != nil {
		fr.Error = err.Error()
	}

	return core.Content{
		Role:  "tool",
		Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: fr}},
	}
}

// drain consumes a model response stream to completion, forwarding partial
// chunks to onPartial (may be nil) and returning the final response. The
// error channel is checked after the response channel closes.
func drain(respCh <-chan model.Response, errCh <-chan error, onPartial func(model.Response)) (*model.Response, error) {
	var final *model.Response

	for resp := range respCh {
		if resp.Partial {
			if onPartial != nil {
				onPartial(resp)
			}
			continue
		}

		r := resp
		final = &r
	}

	if err, ok := <-errCh; ok && err != nil {
		return nil, err
	}

	if final == nil {
		return nil, fmt.Errorf("model stream ended without a final response")
	}

	return final, nil
}
