package agentforge

import (
	"testing"

	"github.com/hupe1980/agentforge/agent"
	"github.com/hupe1980/agentforge/config"
	"github.com/hupe1980/agentforge/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("wires a manager with stub retrieval", func(t *testing.T) {
		forge, err := New(agent.Config{ModelName: "mock"}, func(o *Options) {
			o.FallbackModelName = "mock"
			o.Config = &config.Config{
				SerperAPIKey:    config.Unset,
				DataStoreID:     "docs",
				IntegrationTest: true,
			}
		})
		require.NoError(t, err)

		names := make([]string, 0)
		for _, tl := range forge.Manager().Tools() {
			names = append(names, tl.Name())
		}

		assert.Contains(t, names, "retrieve_info")
		assert.Equal(t, []string{"fallback", "should_continue"}, names[len(names)-2:])
	})

	t.Run("retrieval omitted without a data store", func(t *testing.T) {
		forge, err := New(agent.Config{ModelName: "mock"}, func(o *Options) {
			o.FallbackModelName = "mock"
			o.Config = &config.Config{
				SerperAPIKey: config.Unset,
				DataStoreID:  config.Unset,
			}
		})
		require.NoError(t, err)

		for _, tl := range forge.Manager().Tools() {
			assert.NotEqual(t, "retrieve_info", tl.Name())
		}
	})

	t.Run("unknown agent model fails fast", func(t *testing.T) {
		_, err := New(agent.Config{ModelName: "palm-2"}, func(o *Options) {
			o.FallbackModelName = "mock"
			o.Config = &config.Config{
				SerperAPIKey: config.Unset,
				DataStoreID:  config.Unset,
			}
		})

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("unknown fallback model fails fast", func(t *testing.T) {
		_, err := New(agent.Config{ModelName: "mock"}, func(o *Options) {
			o.FallbackModelName = "palm-2"
			o.Config = &config.Config{
				SerperAPIKey: config.Unset,
				DataStoreID:  config.Unset,
			}
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
