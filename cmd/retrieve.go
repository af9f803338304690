package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/retrieval"
)

var (
	retrieveSourceType string
	retrieveTopK       int
	retrieveLoadModel  bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <consulta>",
	Short: "Busca trechos relevantes na base de legislação",
	Long: `Executa o pipeline de recuperação contra a base de conhecimento e
mostra os trechos acima do limiar de relevância.

Examples:
  copiloto retrieve "alíquota de ICMS em operações interestaduais"
  copiloto retrieve --source-type law --top-k 3 "substituição tributária"
  copiloto retrieve --json "CTe cancelamento prazo" | jq '.sources'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	rootCmd.AddCommand(retrieveCmd)

	retrieveCmd.Flags().StringVarP(&retrieveSourceType, "source-type", "s", "", "Filter by source type (law, manual, regulation, article)")
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "Maximum number of passages (default from config)")
	retrieveCmd.Flags().BoolVar(&retrieveLoadModel, "load-model", false, "Download and load the ONNX embedding model")
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	kb, err := buildKnowledgeBase(ctx, cfg, logger, retrieveLoadModel)
	if err != nil {
		return err
	}
	defer kb.Close()

	topK := retrieveTopK
	if topK <= 0 {
		topK = cfg.Retrieval.DefaultTopK
	}

	query := strings.Join(args, " ")
	result, err := kb.Retriever.Retrieve(ctx, query, domain.ParseSourceType(retrieveSourceType), topK)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if !result.Grounded {
		fmt.Fprintln(w, "Nenhum trecho relevante encontrado.")
		return nil
	}

	fmt.Fprintf(w, "Trechos encontrados: %d\n\n", result.TotalResults)
	for i, passage := range result.Passages {
		printPassage(w, i+1, passage)
	}

	fmt.Fprintln(w, "Fontes:")
	for _, source := range result.Sources {
		fmt.Fprintf(w, "  - %s (%s, relevância %.1f%%)\n", source.Title, source.Type, source.Relevance)
	}
	return nil
}

func printPassage(w io.Writer, index int, passage retrieval.Passage) {
	header := passage.SourceTitle
	if passage.LawReference != "" {
		header += " (" + passage.LawReference
		if passage.Article != "" {
			header += ", " + passage.Article
		}
		header += ")"
	}
	fmt.Fprintf(w, "%d. %s [%.1f%%]\n", index, header, passage.Score*100)
	fmt.Fprintf(w, "   %s\n\n", snippet(passage.Content, 300))
}

// snippet trims content to maxLen characters on a word boundary.
func snippet(content string, maxLen int) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= maxLen {
		return content
	}
	cut := content[:maxLen]
	if lastSpace := strings.LastIndex(cut, " "); lastSpace > maxLen/2 {
		cut = cut[:lastSpace]
	}
	return cut + "..."
}
