// Package agents defines the agent record the orchestrator delegates to and
// the registry that owns the category-to-agent mapping. An agent is plain
// composition: a descriptor, a tool set, and a chat capability, with
// cross-cutting behavior layered on as middleware rather than inheritance.
package agents

import (
	"context"
)

// Descriptor is the static identity of a domain agent. Created once at
// startup and read-only thereafter.
type Descriptor struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	ToolNames    []string `json:"tool_names"`
}

// RequestContext carries per-call tenant identity down the chain. The core
// never persists it.
type RequestContext struct {
	UserID      string   `json:"user_id"`
	OrgID       string   `json:"org_id"`
	BranchID    string   `json:"branch_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	SessionID   string   `json:"session_id,omitempty"`
}

// ChatRequest is the normalized input handed to a chat capability.
type ChatRequest struct {
	Message string
	Context *RequestContext

	// Grounding is optional retrieved context the agent should cite.
	Grounding string
}

// ChatResult is the normalized output of a chat capability.
type ChatResult struct {
	Text         string
	ToolsInvoked []string
}

// ChatFunc is the single operation an agent's chat capability exposes.
// Implementations must honor ctx cancellation and deadlines.
type ChatFunc func(ctx context.Context, req *ChatRequest) (*ChatResult, error)

// Agent binds a descriptor to its chat capability.
type Agent struct {
	Descriptor *Descriptor
	Chat       ChatFunc
}
