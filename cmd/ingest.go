package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/knowledge"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <arquivo.jsonl>",
	Short: "Carrega documentos de legislação na base de conhecimento",
	Long: `Lê um arquivo JSON Lines com um documento por linha e o insere no
catálogo sqlite e no índice de texto. Campos por linha:

  {"id": "...", "content": "...", "source_title": "...",
   "source_type": "law", "law_reference": "Lei 87/1996", "article": "Art. 13"}

Examples:
  copiloto ingest legislacao.jsonl
  copiloto ingest --config prod.yaml base-icms.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// ingestRecord is the wire form of one knowledge-base document.
type ingestRecord struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	SourceTitle  string `json:"source_title"`
	SourceType   string `json:"source_type"`
	LawReference string `json:"law_reference"`
	Article      string `json:"article"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	catalog, err := knowledge.OpenCatalog(cfg.Knowledge.CatalogPath, logger)
	if err != nil {
		return err
	}
	defer catalog.Close()

	if cfg.Knowledge.BleveIndexPath == "" {
		logger.Warn("knowledge.bleve_index_path is empty, text index will not persist")
	}
	index, err := knowledge.OpenBleveIndex(cfg.Knowledge.BleveIndexPath, logger)
	if err != nil {
		return err
	}
	defer index.Close()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	ingested, skipped := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var record ingestRecord
		if err := json.Unmarshal(text, &record); err != nil {
			logger.Warn("skipping malformed line", "line", line, "error", err)
			skipped++
			continue
		}
		if record.ID == "" || record.Content == "" {
			logger.Warn("skipping incomplete record", "line", line, "id", record.ID)
			skipped++
			continue
		}

		doc := knowledge.Document{
			ID:           record.ID,
			Content:      record.Content,
			SourceTitle:  record.SourceTitle,
			SourceType:   domain.ParseSourceType(record.SourceType),
			LawReference: record.LawReference,
			Article:      record.Article,
		}
		if err := catalog.Add(ctx, doc); err != nil {
			return err
		}
		if err := index.Add(doc); err != nil {
			return err
		}
		ingested++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documentos inseridos: %d\n", ingested)
	if skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Linhas ignoradas: %d\n", skipped)
	}
	return nil
}
