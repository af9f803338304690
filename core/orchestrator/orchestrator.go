// Package orchestrator is the single entry point that resolves which domain
// agent handles an inbound message and normalizes the reply envelope.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/router"
)

// Response is the normalized reply envelope. Classification is nil when the
// caller forced a category explicitly.
type Response struct {
	ID             string                 `json:"id"`
	Category       string                 `json:"category"`
	AgentName      string                 `json:"agent_name"`
	Text           string                 `json:"text"`
	ToolsInvoked   []string               `json:"tools_invoked"`
	EchoedContext  *agents.RequestContext `json:"context,omitempty"`
	Classification *router.Result         `json:"classification,omitempty"`
	Elapsed        time.Duration          `json:"elapsed"`
}

type Config struct {
	ChatTimeout time.Duration
	Logger      *slog.Logger
}

type Orchestrator struct {
	router      *router.Router
	registry    *agents.Registry
	chatTimeout time.Duration
	logger      *slog.Logger
}

// New wires the orchestrator from explicitly constructed dependencies. There
// is no ambient singleton; tests build isolated instances.
func New(r *router.Router, registry *agents.Registry, cfg Config) (*Orchestrator, error) {
	if r == nil {
		return nil, coreerrors.Configuration("orchestrator requires a router")
	}
	if registry == nil {
		return nil, coreerrors.Configuration("orchestrator requires an agent registry")
	}
	if registry.Len() == 0 {
		return nil, coreerrors.Configuration("orchestrator requires at least one registered agent")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = 30 * time.Second
	}

	return &Orchestrator{
		router:      r,
		registry:    registry,
		chatTimeout: cfg.ChatTimeout,
		logger:      cfg.Logger,
	}, nil
}

// Route resolves the target agent and delegates. explicitCategory skips
// classification when non-empty; an unknown name is an InvalidCategory
// failure with no delegation attempted. Steps are strictly sequential:
// classify, look up, delegate.
func (o *Orchestrator) Route(
	ctx context.Context,
	message string,
	reqCtx *agents.RequestContext,
	explicitCategory string,
) (*Response, error) {
	start := time.Now()

	category, classification, err := o.resolveCategory(message, explicitCategory)
	if err != nil {
		return nil, err
	}

	agent, err := o.registry.Get(category)
	if err != nil {
		o.logger.Warn("agent lookup failed", "category", category.String(), "error", err)
		return nil, err
	}

	result, err := o.delegate(ctx, agent, message, reqCtx)
	if err != nil {
		return nil, err
	}

	return &Response{
		ID:             newResponseID(),
		Category:       category.String(),
		AgentName:      agent.Descriptor.Name,
		Text:           result.Text,
		ToolsInvoked:   result.ToolsInvoked,
		EchoedContext:  reqCtx,
		Classification: classification,
		Elapsed:        time.Since(start),
	}, nil
}

func (o *Orchestrator) resolveCategory(message, explicit string) (domain.Category, *router.Result, error) {
	if explicit != "" {
		category, ok := domain.ParseCategory(explicit)
		if !ok {
			return 0, nil, coreerrors.InvalidCategory(explicit)
		}
		return category, nil, nil
	}

	classification := o.router.Classify(message)
	return classification.Category, classification, nil
}

// delegate runs the agent's chat capability under the configured timeout.
// Cancellation from the caller propagates into the provider call; failures
// are wrapped so stack traces never reach the end user.
func (o *Orchestrator) delegate(
	ctx context.Context,
	agent *agents.Agent,
	message string,
	reqCtx *agents.RequestContext,
) (*agents.ChatResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.chatTimeout)
	defer cancel()

	result, err := agent.Chat(ctx, &agents.ChatRequest{
		Message: message,
		Context: reqCtx,
	})
	if err != nil {
		if coreerrors.KindOf(err) == coreerrors.KindAgentExecution {
			return nil, err
		}
		return nil, coreerrors.AgentExecution(agent.Descriptor.Name, err)
	}
	return result, nil
}

func newResponseID() string {
	return "resp_" + uuid.New().String()[:8]
}
