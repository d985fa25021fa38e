package tool

import (
	"errors"
	"testing"

	"github.com/hupe1980/agentforge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
}

func TestFunctionTool(t *testing.T) {
	newToolCtx := func(t *testing.T) *core.ToolContext {
		t.Helper()
		return core.NewToolContext(t.Context(), "run-1", "fc-1", nil)
	}

	t.Run("success", func(t *testing.T) {
		sum := NewFunctionTool("calculate_sum", "Adds two numbers", sumSchema(),
			func(_ *core.ToolContext, args map[string]any) (any, error) {
				return args["a"].(float64) + args["b"].(float64), nil
			},
		)

		assert.Equal(t, "calculate_sum", sum.Name())
		assert.Equal(t, "Adds two numbers", sum.Description())

		result, err := sum.Call(newToolCtx(t), map[string]any{"a": 1.5, "b": 2.5})
		require.NoError(t, err)
		assert.Equal(t, 4.0, result)
	})

	t.Run("missing required argument", func(t *testing.T) {
		sum := NewFunctionTool("calculate_sum", "Adds two numbers", sumSchema(),
			func(_ *core.ToolContext, _ map[string]any) (any, error) {
				t.Fatal("function must not run on validation failure")
				return nil, nil
			},
		)

		_, err := sum.Call(newToolCtx(t), map[string]any{"a": 1.5})

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
		assert.Equal(t, "calculate_sum", toolErr.Tool)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		sum := NewFunctionTool("calculate_sum", "Adds two numbers", sumSchema(),
			func(_ *core.ToolContext, _ map[string]any) (any, error) {
				t.Fatal("function must not run on validation failure")
				return nil, nil
			},
		)

		_, err := sum.Call(newToolCtx(t), map[string]any{"a": "one", "b": 2.0})

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	})

	t.Run("execution failure is wrapped", func(t *testing.T) {
		failing := NewFunctionTool("boom", "Always fails",
			map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ *core.ToolContext, _ map[string]any) (any, error) {
				return nil, errors.New("backend down")
			},
		)

		_, err := failing.Call(newToolCtx(t), map[string]any{})

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
		assert.Equal(t, "backend down", toolErr.Message)
	})

	t.Run("tool errors pass through unchanged", func(t *testing.T) {
		custom := NewToolError("limited", "rate limit exceeded", "RATE_LIMITED")

		limited := NewFunctionTool("limited", "Rate limited",
			map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ *core.ToolContext, _ map[string]any) (any, error) {
				return nil, custom
			},
		)

		_, err := limited.Call(newToolCtx(t), map[string]any{})

		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Same(t, custom, toolErr)
	})
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type echoArgs struct {
		Text string `json:"text" description:"Text to echo"`
	}

	echo := NewFunctionToolFromStruct("echo", "Echoes text", echoArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return args["text"], nil
		},
	)

	params := echo.Parameters()
	assert.Equal(t, "object", params["type"])

	props, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "text")
}
