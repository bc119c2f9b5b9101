// Package provider defines the capability interface AI backends implement
// for financial-fact extraction, plus the registry the pipeline resolves
// its priority list against.
package provider

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
)

// Known provider ids. These match config keys and priority-list entries.
const (
	AnthropicID = "anthropic"
	GeminiID    = "gemini"
	DeepSeekID  = "deepseek"
)

// Request is a single extraction request. The orchestrator owns the prompt
// contract; adapters only transport it.
type Request struct {
	System string
	Prompt string
}

// Adapter is the capability interface over "extract financial facts from
// text given a schema": send the prompt to one AI backend and return the
// raw response text. Implementations are stateless and side-effect-free
// beyond the network call; failures are kind-tagged *Error values.
type Adapter interface {
	Name() string
	Extract(ctx context.Context, req Request) (string, error)
}

// Registry manages configured provider adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get returns an adapter by name, or nil if not registered.
func (r *Registry) Get(name string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[name]
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}

// Resolve maps a priority list of provider ids onto registered adapters,
// preserving order. An unregistered id is an error: a misconfigured
// priority list should fail loudly, not silently shrink.
func (r *Registry) Resolve(priority []string) ([]Adapter, error) {
	if len(priority) == 0 {
		return nil, eris.New("provider: empty priority list")
	}

	out := make([]Adapter, 0, len(priority))
	for _, id := range priority {
		a := r.Get(id)
		if a == nil {
			return nil, eris.Errorf("provider: %q is not configured", id)
		}
		out = append(out, a)
	}
	return out, nil
}
