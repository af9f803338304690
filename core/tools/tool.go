// Package tools holds the closed set of domain tools agents may invoke
// while answering. Tools are local capabilities, not remote plugins; the
// set is fixed at build time.
package tools

import (
	"context"
	"sync"

	coreerrors "github.com/transvia/copiloto/core/errors"
)

// Tool is a named capability an agent can invoke with free-form arguments.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, args map[string]any) (*Invocation, error)
}

// Invocation is the outcome of a tool call. Degraded marks results produced
// without their backing collaborator; the text must say so and never
// fabricate data.
type Invocation struct {
	Output   string         `json:"output"`
	Degraded bool           `json:"degraded"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Set is a fixed lookup of tools by name.
type Set struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewSet builds a set from the given tools. Duplicate names fail fast.
func NewSet(tools ...Tool) (*Set, error) {
	s := &Set{tools: make(map[string]Tool, len(tools))}
	for _, tool := range tools {
		if tool == nil {
			return nil, coreerrors.Configuration("nil tool in set")
		}
		name := tool.Name()
		if name == "" {
			return nil, coreerrors.Configuration("tool with empty name")
		}
		if _, exists := s.tools[name]; exists {
			return nil, coreerrors.Configuration("duplicate tool name: " + name)
		}
		s.tools[name] = tool
		s.order = append(s.order, name)
	}
	return s, nil
}

// Get returns the named tool.
func (s *Set) Get(name string) (Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tool, ok := s.tools[name]
	return tool, ok
}

// Names lists tool names in registration order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}
