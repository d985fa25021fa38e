package model

import (
	"context"
	"testing"

	"github.com/hupe1980/agentforge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModelGenerate(t *testing.T) {
	t.Run("canned response", func(t *testing.T) {
		m := NewMockModel("mock", "mock")
		m.AddResponse("ping", "pong")

		respCh, errCh := m.Generate(context.Background(), Request{
			Contents: []core.Content{core.NewUserContent("ping")},
		})

		var final *Response
		for resp := range respCh {
			if !resp.Partial {
				r := resp
				final = &r
			}
		}
		require.NoError(t, <-errCh)

		require.NotNil(t, final)
		assert.Equal(t, "pong", final.Content.Text())
		assert.Equal(t, "stop", final.FinishReason)
	})

	t.Run("streaming emits partials before final", func(t *testing.T) {
		m := NewMockModel("mock", "mock")
		m.AddResponse("hi", "ok")

		respCh, errCh := m.Generate(context.Background(), Request{
			Contents: []core.Content{core.NewUserContent("hi")},
			Stream:   true,
		})

		var partials, finals int
		for resp := range respCh {
			if resp.Partial {
				partials++
			} else {
				finals++
			}
		}
		require.NoError(t, <-errCh)

		assert.Equal(t, 2, partials) // one per rune of "ok"
		assert.Equal(t, 1, finals)
	})

	t.Run("empty contents is an error", func(t *testing.T) {
		m := NewMockModel("mock", "mock")

		respCh, errCh := m.Generate(context.Background(), Request{})

		for range respCh {
		}
		assert.Error(t, <-errCh)
	})
}
