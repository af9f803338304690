// Package providers adapts the LLM vendor SDKs behind a single chat
// completion interface so agents stay vendor-neutral.
package providers

import "context"

// ChatProvider is the completion capability agents are built on.
type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
	SupportsModel(model string) bool
}

// ProviderCloser is implemented by providers holding releasable resources.
type ProviderCloser interface {
	Close() error
}

// Request is a vendor-neutral chat completion request.
type Request struct {
	Messages     []Message `json:"messages"`
	Model        string    `json:"model,omitempty"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
}

// Message is one turn in the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Response is a vendor-neutral completion result.
type Response struct {
	Content    string     `json:"content"`
	Model      string     `json:"model"`
	StopReason StopReason `json:"stop_reason"`
	Usage      Usage      `json:"usage"`
}

type StopReason string

const (
	StopReasonEndTurn   StopReason = "end_turn"
	StopReasonMaxTokens StopReason = "max_tokens"
	StopReasonError     StopReason = "error"
)

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
