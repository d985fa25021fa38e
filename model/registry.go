package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Resolve when a model name maps to no known
// provider. Callers surface it as-is so construction failures caused by a
// bad model identifier stay distinguishable from other initialization errors.
var ErrNotFound = errors.New("model not found")

// Params carries the sampling / retry knobs forwarded to provider clients.
// Retries are owned by the provider SDKs; nothing above this layer retries.
type Params struct {
	MaxRetries      int
	MaxOutputTokens int64
	Temperature     float64
	TopP            float64
	TopK            int64
	Verbose         bool
}

// Factory constructs a Model from a concrete model name and parameters.
type Factory func(name string, params Params) (Model, error)

// providerFor maps a model name to its provider factory by prefix. The set is
// intentionally static; registering providers dynamically would reintroduce
// the hidden-global pattern this package exists to avoid.
func providerFor(name string) (Factory, bool) {
	switch {
	case strings.HasPrefix(name, "gpt-") || strings.HasPrefix(name, "o1-") || strings.HasPrefix(name, "o3-"):
		return newOpenAI, true
	case strings.HasPrefix(name, "claude-"):
		return newAnthropic, true
	case name == "mock" || strings.HasPrefix(name, "mock-"):
		return func(name string, _ Params) (Model, error) {
			return NewMockModel(name, "mock"), nil
		}, true
	default:
		return nil, false
	}
}

// Resolve maps a model name to a ready provider client. An unknown name
// yields ErrNotFound; any provider construction failure is returned wrapped.
func Resolve(name string, params Params) (Model, error) {
	factory, ok := providerFor(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	m, err := factory(name, params)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model %q: %w", name, err)
	}
	return m, nil
}
