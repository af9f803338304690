package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/transvia/copiloto/agents/catalog"
	"github.com/transvia/copiloto/core/agents"
	"github.com/transvia/copiloto/core/orchestrator"
	"github.com/transvia/copiloto/core/router"
)

var (
	chatCategory  string
	chatUserID    string
	chatOrgID     string
	chatBranchID  string
	chatRole      string
	chatLoadModel bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <mensagem>",
	Short: "Envia uma mensagem ao copiloto",
	Long: `Classifica a mensagem, delega ao agente especializado e mostra a
resposta. Requer pelo menos uma chave de API de provedor de LLM.

Examples:
  copiloto chat "qual a alíquota de ICMS para frete interestadual?"
  copiloto chat --category tms "como cobrar frete fracionado?"
  copiloto chat --org acme --branch matriz "margem por filial"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatCategory, "category", "c", "", "Force a category instead of classifying")
	chatCmd.Flags().StringVar(&chatUserID, "user", "", "User identifier forwarded to the agent")
	chatCmd.Flags().StringVar(&chatOrgID, "org", "", "Organization identifier forwarded to the agent")
	chatCmd.Flags().StringVar(&chatBranchID, "branch", "", "Branch identifier forwarded to the agent")
	chatCmd.Flags().StringVar(&chatRole, "role", "", "User role forwarded to the agent")
	chatCmd.Flags().BoolVar(&chatLoadModel, "load-model", false, "Download and load the ONNX embedding model")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	provider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	kb, err := buildKnowledgeBase(ctx, cfg, logger, chatLoadModel)
	if err != nil {
		return err
	}
	defer kb.Close()

	toolSet, err := buildLegislationTool(kb, logger)
	if err != nil {
		return err
	}

	registry, err := catalog.BuildRegistry(catalog.BuildConfig{
		Provider: provider,
		Tools:    toolSet,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	routerCfg, err := cfg.RouterConfig()
	if err != nil {
		return err
	}
	r, err := router.New(routerCfg, logger)
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(r, registry, orchestrator.Config{
		ChatTimeout: routerCfg.ChatTimeout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	response, err := orch.Route(ctx, message, chatContext(), chatCategory)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	fmt.Fprintf(w, "[%s] %s\n\n", response.Category, response.AgentName)
	fmt.Fprintln(w, response.Text)
	if len(response.ToolsInvoked) > 0 {
		fmt.Fprintf(w, "\nFerramentas: %s\n", strings.Join(response.ToolsInvoked, ", "))
	}
	return nil
}

// chatContext builds the request context from flags. All-empty flags mean no
// context at all.
func chatContext() *agents.RequestContext {
	if chatUserID == "" && chatOrgID == "" && chatBranchID == "" && chatRole == "" {
		return nil
	}
	return &agents.RequestContext{
		UserID:   chatUserID,
		OrgID:    chatOrgID,
		BranchID: chatBranchID,
		Role:     chatRole,
	}
}
