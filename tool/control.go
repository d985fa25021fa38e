package tool

import (
	"fmt"

	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/model"
)

// NewFallbackTool returns the always-present fallback tool. When the agent
// lacks context to answer from its other tools it answers the question with a
// direct, single-shot model call.
func NewFallbackTool(llm model.Model) *FunctionTool {
	return NewFunctionTool(
		"fallback",
		"Use this tool if you determine that you do not have enough context to respond to "+
			"the questions of the user. This tool will attempt to answer the question using "+
			"the model's own knowledge.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			query := queryArg(args)

			respCh, errCh := llm.Generate(toolCtx.Context(), model.Request{
				Contents: []core.Content{core.NewUserContent(query)},
			})

			var answer string
			for resp := range respCh {
				if !resp.Partial {
					answer = resp.Content.Text()
				}
			}
			if err := <-errCh; err != nil {
				return nil, fmt.Errorf("fallback model call failed: %w", err)
			}

			return answer, nil
		},
	)
}

// NewShouldContinueTool returns the stop-reasoning no-op tool. Calling it
// signals the model determined it has enough context to answer.
func NewShouldContinueTool() *FunctionTool {
	return NewFunctionTool(
		"should_continue",
		"Use this tool if you determine that you have enough context to respond to the "+
			"questions of the user.",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return nil, nil
		},
	)
}
