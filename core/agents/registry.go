package agents

import (
	"fmt"
	"sync"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
)

// Registry is the thread-safe owner of the category-to-agent mapping.
// Registration happens once per category at startup; duplicate registration
// is a configuration error surfaced immediately, not at request time.
type Registry struct {
	mu     sync.RWMutex
	agents map[domain.Category]*Agent
	order  []domain.Category
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[domain.Category]*Agent),
	}
}

func (r *Registry) Register(category domain.Category, descriptor *Descriptor, chat ChatFunc) error {
	if !category.IsValid() {
		return coreerrors.Configuration(fmt.Sprintf("cannot register unknown category %q", category))
	}
	if descriptor == nil {
		return coreerrors.Configuration(fmt.Sprintf("nil descriptor for category %q", category))
	}
	if chat == nil {
		return coreerrors.Configuration(fmt.Sprintf("nil chat capability for category %q", category))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[category]; exists {
		return coreerrors.Configuration(fmt.Sprintf("category %q registered twice", category))
	}

	r.agents[category] = &Agent{Descriptor: descriptor, Chat: chat}
	r.order = append(r.order, category)
	return nil
}

// Get returns the agent for a category. A category with no registration,
// as happens during partial startup, surfaces as AgentUnavailable.
func (r *Registry) Get(category domain.Category) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[category]
	if !ok {
		return nil, coreerrors.AgentUnavailable(category.String())
	}
	return agent, nil
}

// Unregister removes an agent, e.g. for maintenance. Subsequent Get calls
// surface AgentUnavailable.
func (r *Registry) Unregister(category domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[category]; !ok {
		return
	}
	delete(r.agents, category)
	for i, c := range r.order {
		if c == category {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// List returns descriptors in registration order, for discovery endpoints.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.agents[c].Descriptor)
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
