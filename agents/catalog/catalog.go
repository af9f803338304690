// Package catalog declares the domain-specialized agents shipped with the
// copiloto: one per category, each with its descriptor, system prompt and
// tool surface. The catalog is static; registration happens once at startup.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/providers"
	"github.com/transvia/copiloto/core/tools"
)

// Definition binds a category to its agent identity and prompt.
type Definition struct {
	Category     domain.Category
	Descriptor   *agents.Descriptor
	SystemPrompt string

	// UseRetrieval marks agents that ground answers in the legislation
	// knowledge base before completing.
	UseRetrieval bool
}

// Definitions returns every shipped agent in category order.
func Definitions() []Definition {
	return []Definition{
		fiscalDefinition(),
		financialDefinition(),
		tmsDefinition(),
		crmDefinition(),
		fleetDefinition(),
		accountingDefinition(),
		strategicDefinition(),
		qaDefinition(),
	}
}

// BuildConfig wires the shared collaborators into the built agents.
type BuildConfig struct {
	Provider providers.ChatProvider
	Tools    *tools.Set
	Logger   *slog.Logger

	// ChatTimeout bounds each delegated chat call. Zero means the
	// middleware default.
	ChatTimeout time.Duration
}

// BuildRegistry constructs and registers all shipped agents.
func BuildRegistry(cfg BuildConfig) (*agents.Registry, error) {
	if cfg.Provider == nil {
		return nil, coreerrors.Configuration("agent catalog requires a chat provider")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = 30 * time.Second
	}

	registry := agents.NewRegistry()
	for _, def := range Definitions() {
		chat := newProviderChat(def, cfg)
		chat = agents.Apply(chat,
			agents.WithRecovery(def.Descriptor.Name),
			agents.WithLogging(def.Descriptor.Name, cfg.Logger),
			agents.WithTimeout(cfg.ChatTimeout),
		)
		if err := registry.Register(def.Category, def.Descriptor, chat); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// newProviderChat builds the chat capability for one definition: optional
// legislation grounding, then a single provider completion.
func newProviderChat(def Definition, cfg BuildConfig) agents.ChatFunc {
	return func(ctx context.Context, req *agents.ChatRequest) (*agents.ChatResult, error) {
		grounding := req.Grounding
		var invoked []string

		if grounding == "" && def.UseRetrieval && cfg.Tools != nil {
			if tool, ok := cfg.Tools.Get(tools.LegislationSearchName); ok {
				inv, err := tool.Invoke(ctx, map[string]any{"query": req.Message})
				if err == nil {
					grounding = inv.Output
					invoked = append(invoked, tool.Name())
				} else {
					cfg.Logger.Warn("grounding skipped",
						"agent", def.Descriptor.Name, "error", err)
				}
			}
		}

		response, err := cfg.Provider.Complete(ctx, &providers.Request{
			SystemPrompt: buildSystemPrompt(def, req, grounding),
			Messages: []providers.Message{
				{Role: providers.RoleUser, Content: req.Message},
			},
		})
		if err != nil {
			return nil, coreerrors.AgentExecution(def.Descriptor.Name, err)
		}

		return &agents.ChatResult{
			Text:         response.Content,
			ToolsInvoked: invoked,
		}, nil
	}
}

func buildSystemPrompt(def Definition, req *agents.ChatRequest, grounding string) string {
	var b strings.Builder
	b.WriteString(def.SystemPrompt)

	if req.Context != nil {
		b.WriteString("\n\n## Contexto do usuário\n")
		fmt.Fprintf(&b, "Organização: %s\n", req.Context.OrgID)
		if req.Context.BranchID != "" {
			fmt.Fprintf(&b, "Filial: %s\n", req.Context.BranchID)
		}
		if req.Context.Role != "" {
			fmt.Fprintf(&b, "Perfil: %s\n", req.Context.Role)
		}
	}

	if grounding != "" {
		b.WriteString("\n\n## Base de conhecimento\n")
		b.WriteString(grounding)
	}

	return b.String()
}
