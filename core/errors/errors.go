// Package errors defines the typed failure kinds that cross the copiloto
// core boundary. Every error carries a stable machine-readable kind plus a
// human-readable message; backend exception details never leak into kinds.
package errors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInvalidCategory: caller supplied an explicit category outside the
	// closed set. Client-input error, never retried.
	KindInvalidCategory Kind = iota

	// KindAgentUnavailable: resolved category has no registered agent.
	// Recoverable at the caller's discretion.
	KindAgentUnavailable

	// KindAgentExecution: the delegated chat capability failed. The original
	// message is preserved for logs; stack traces are not exposed.
	KindAgentExecution

	// KindRetrievalUnavailable: embedding or search backend failed or timed
	// out. Callers disclose the degradation and proceed ungrounded.
	KindRetrievalUnavailable

	// KindConfiguration: invalid static tables or duplicate registration at
	// startup. Fatal: must prevent startup, never surface mid-request.
	KindConfiguration
)

var kindNames = map[Kind]string{
	KindInvalidCategory:      "invalid_category",
	KindAgentUnavailable:     "agent_unavailable",
	KindAgentExecution:       "agent_execution_error",
	KindRetrievalUnavailable: "retrieval_unavailable",
	KindConfiguration:        "configuration_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// CoreError is the single error type the core raises across its boundary.
type CoreError struct {
	Kind       Kind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is matches two CoreErrors by kind, so errors.Is(err, ErrRetrievalUnavailable)
// works regardless of message.
func (e *CoreError) Is(target error) bool {
	var ce *CoreError
	if errors.As(target, &ce) {
		return e.Kind == ce.Kind
	}
	return false
}

func New(kind Kind, message string) *CoreError {
	return &CoreError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, underlying error) *CoreError {
	return &CoreError{Kind: kind, Message: message, Underlying: underlying}
}

func InvalidCategory(name string) *CoreError {
	return New(KindInvalidCategory, fmt.Sprintf("category %q is not in the registered set", name))
}

func AgentUnavailable(category string) *CoreError {
	return New(KindAgentUnavailable, fmt.Sprintf("no agent registered for category %q", category))
}

func AgentExecution(agent string, underlying error) *CoreError {
	return Wrap(KindAgentExecution, fmt.Sprintf("agent %q failed", agent), underlying)
}

func RetrievalUnavailable(stage string, underlying error) *CoreError {
	return Wrap(KindRetrievalUnavailable, fmt.Sprintf("retrieval %s failed", stage), underlying)
}

func Configuration(message string) *CoreError {
	return New(KindConfiguration, message)
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidCategory      = New(KindInvalidCategory, "invalid category")
	ErrAgentUnavailable     = New(KindAgentUnavailable, "agent unavailable")
	ErrAgentExecution       = New(KindAgentExecution, "agent execution failed")
	ErrRetrievalUnavailable = New(KindRetrievalUnavailable, "retrieval unavailable")
	ErrConfiguration        = New(KindConfiguration, "configuration error")
)

// KindOf extracts the kind from an error chain, defaulting to agent
// execution for untyped failures.
func KindOf(err error) Kind {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindAgentExecution
}

// IsRecoverable reports whether the caller may retry or degrade instead of
// failing the whole request.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindAgentUnavailable, KindRetrievalUnavailable:
		return true
	default:
		return false
	}
}
