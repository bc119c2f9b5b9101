package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Extract(_ context.Context, _ Request) (string, error) {
	return "", nil
}

func TestRegistry_Resolve_PreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubAdapter{name: AnthropicID})
	r.Register(&stubAdapter{name: GeminiID})
	r.Register(&stubAdapter{name: DeepSeekID})

	adapters, err := r.Resolve([]string{DeepSeekID, AnthropicID})
	require.NoError(t, err)
	require.Len(t, adapters, 2)
	assert.Equal(t, DeepSeekID, adapters[0].Name())
	assert.Equal(t, AnthropicID, adapters[1].Name())
}

func TestRegistry_Resolve_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubAdapter{name: AnthropicID})

	_, err := r.Resolve([]string{AnthropicID, "mistral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral")
}

func TestRegistry_Resolve_EmptyList(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(nil)
	require.Error(t, err)
}

func TestRegistry_GetAndList(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get(GeminiID))

	r.Register(&stubAdapter{name: GeminiID})
	assert.NotNil(t, r.Get(GeminiID))
	assert.ElementsMatch(t, []string{GeminiID}, r.List())
}
