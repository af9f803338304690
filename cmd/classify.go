package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/router"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <mensagem>",
	Short: "Classifica uma mensagem em uma categoria de agente",
	Long: `Classifica uma mensagem pelo roteador de palavras-chave, sem chamar
nenhum provedor de LLM.

Examples:
  copiloto classify "qual a alíquota de ICMS para frete interestadual?"
  copiloto classify --json "como faço para cadastrar um motorista?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	routerCfg, err := cfg.RouterConfig()
	if err != nil {
		return err
	}
	r, err := router.New(routerCfg, logger)
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	result := r.Classify(message)

	w := cmd.OutOrStdout()
	if outputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newClassifyOutput(message, result))
	}

	fmt.Fprintf(w, "Categoria: %s\n", result.Category)
	fmt.Fprintf(w, "Pontuação: %d\n", result.Score)
	if result.Fallback {
		fmt.Fprintln(w, "Fallback:  sim (nenhuma categoria venceu)")
	}
	fmt.Fprintln(w)
	for _, category := range domain.ValidCategories() {
		fmt.Fprintf(w, "  %-12s %d\n", category, result.Scores[category])
	}
	return nil
}

type classifyOutput struct {
	Message  string         `json:"message"`
	Category string         `json:"category"`
	Score    int            `json:"score"`
	Fallback bool           `json:"fallback"`
	Scores   map[string]int `json:"scores"`
}

func newClassifyOutput(message string, result *router.Result) *classifyOutput {
	scores := make(map[string]int, len(result.Scores))
	for category, score := range result.Scores {
		scores[category.String()] = score
	}
	return &classifyOutput{
		Message:  message,
		Category: result.Category.String(),
		Score:    result.Score,
		Fallback: result.Fallback,
		Scores:   scores,
	}
}
