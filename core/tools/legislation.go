package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/knowledge"
	"github.com/transvia/copiloto/core/retrieval"
)

// LegislationSearchName is the tool name agents reference.
const LegislationSearchName = "legislation_search"

// LegislationSearch grounds answers in the legislation knowledge base. The
// primary path is semantic retrieval; when the arguments carry an explicit
// citation the sqlite catalog is consulted too, and a keyword searcher, if
// configured, reorders the displayed passages by rank agreement.
type LegislationSearch struct {
	retriever retrieval.Retriever
	catalog   *knowledge.Catalog
	keyword   knowledge.KeywordSearcher
	logger    *slog.Logger
}

// LegislationSearchConfig wires the tool's collaborators. Retriever is
// required; catalog and keyword searcher are optional enrichments.
type LegislationSearchConfig struct {
	Retriever retrieval.Retriever
	Catalog   *knowledge.Catalog
	Keyword   knowledge.KeywordSearcher
	Logger    *slog.Logger
}

// NewLegislationSearch builds the tool.
func NewLegislationSearch(cfg LegislationSearchConfig) (*LegislationSearch, error) {
	if cfg.Retriever == nil {
		return nil, coreerrors.Configuration("legislation search requires a retriever")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &LegislationSearch{
		retriever: cfg.Retriever,
		catalog:   cfg.Catalog,
		keyword:   cfg.Keyword,
		logger:    cfg.Logger,
	}, nil
}

func (t *LegislationSearch) Name() string { return LegislationSearchName }

func (t *LegislationSearch) Description() string {
	return "Busca na base de legislação de transporte e tributação (leis, manuais, regulamentos) e retorna trechos citáveis com relevância."
}

// Invoke runs a search. Recognized args: "query" (required), "source_type",
// "top_k", "law_reference", "article". A failed backend degrades the result
// instead of failing the chat turn.
func (t *LegislationSearch) Invoke(ctx context.Context, args map[string]any) (*Invocation, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("legislation search: query argument is required")
	}

	filter := domain.SourceNone
	if name, ok := args["source_type"].(string); ok {
		filter = domain.ParseSourceType(name)
	}
	topK := 0
	if k, ok := args["top_k"].(float64); ok {
		topK = int(k)
	}

	result, err := t.retriever.Retrieve(ctx, query, filter, topK)
	if err != nil {
		if errors.Is(err, retrieval.ErrEmptyQuery) {
			return nil, err
		}
		if coreerrors.IsRecoverable(err) {
			t.logger.Warn("legislation retrieval degraded", "error", err)
			return &Invocation{
				Output:   "A base de legislação está temporariamente indisponível. A resposta a seguir não possui fontes citadas.",
				Degraded: true,
			}, nil
		}
		return nil, err
	}

	citations := t.lookupCitation(ctx, args)
	output := t.render(ctx, query, result, citations)

	return &Invocation{
		Output: output,
		Metadata: map[string]any{
			"total_results": result.TotalResults,
			"grounded":      result.Grounded,
		},
	}, nil
}

// lookupCitation consults the catalog when the caller named a specific law.
// Catalog failures are logged and ignored; the semantic result stands alone.
func (t *LegislationSearch) lookupCitation(ctx context.Context, args map[string]any) []knowledge.Match {
	if t.catalog == nil {
		return nil
	}
	lawReference, _ := args["law_reference"].(string)
	if lawReference == "" {
		return nil
	}
	article, _ := args["article"].(string)

	matches, err := t.catalog.LookupCitation(ctx, lawReference, article)
	if err != nil {
		t.logger.Warn("citation lookup failed", "law", lawReference, "error", err)
		return nil
	}
	return matches
}

// render formats the grounded context. With a keyword searcher available
// the passage display order follows the RRF fusion of both result lists;
// the pipeline's threshold and scores are untouched.
func (t *LegislationSearch) render(ctx context.Context, query string, result *retrieval.Result, citations []knowledge.Match) string {
	if !result.Grounded && len(citations) == 0 {
		return "Nenhum trecho relevante encontrado na base de legislação. Responda sem citar fontes e informe isso ao usuário."
	}

	var b strings.Builder

	if result.Grounded {
		b.WriteString("Contexto da legislação:\n\n")
		b.WriteString(t.orderedContext(ctx, query, result))
		b.WriteString("\n\nFontes:\n")
		for _, source := range result.Sources {
			fmt.Fprintf(&b, "- %s (%s, relevância %.1f%%)\n", source.Title, source.Type, source.Relevance)
		}
	}

	if len(citations) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Citação exata:\n")
		for _, c := range citations {
			fmt.Fprintf(&b, "[%s, %s]\n%s\n", c.LawReference, c.Article, c.Content)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (t *LegislationSearch) orderedContext(ctx context.Context, query string, result *retrieval.Result) string {
	if t.keyword == nil {
		return result.Context
	}

	keywordMatches, err := t.keyword.SearchText(ctx, query, len(result.Passages), domain.SourceNone)
	if err != nil {
		t.logger.Debug("keyword reorder skipped", "error", err)
		return result.Context
	}

	vectorMatches := make([]knowledge.Match, 0, len(result.Passages))
	byID := make(map[string]retrieval.Passage, len(result.Passages))
	for _, passage := range result.Passages {
		id := passage.SourceTitle + "|" + passage.Content
		byID[id] = passage
		vectorMatches = append(vectorMatches, knowledge.Match{
			Document: knowledge.Document{
				ID:          id,
				Content:     passage.Content,
				SourceTitle: passage.SourceTitle,
				SourceType:  passage.SourceType,
			},
			Score: passage.Score,
		})
	}

	fused := knowledge.FuseRRF(vectorMatches, keywordMatches)

	var b strings.Builder
	for _, m := range fused {
		passage, ok := byID[m.ID]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", passage.SourceTitle, passage.Content)
	}
	if b.Len() == 0 {
		return result.Context
	}
	return b.String()
}
