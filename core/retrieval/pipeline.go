// Package retrieval turns a text query into ranked, deduplicated,
// size-bounded grounding context with source citations, backed by the
// embedding capability and the knowledge store.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/transvia/copiloto/core/domain"
	"github.com/transvia/copiloto/core/embedder"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/knowledge"
)

// ErrEmptyQuery is returned before any collaborator call when the query is
// empty or whitespace-only.
var ErrEmptyQuery = errors.New("retrieval: query must not be empty")

const (
	// DefaultScoreThreshold is the minimum relevance a passage needs to
	// enter the context. Tunable via Config.
	DefaultScoreThreshold = 0.35

	// DefaultTopK applies when the caller passes topK <= 0. Explicit
	// values are clamped to [MinTopK, MaxTopK].
	DefaultTopK = 5
	MinTopK     = 1
	MaxTopK     = 10

	// DefaultContextBudget bounds the assembled context in characters.
	DefaultContextBudget = 4000
)

// Passage is one retrieved knowledge chunk that survived filtering.
type Passage struct {
	Content      string            `json:"content"`
	SourceTitle  string            `json:"source_title"`
	SourceType   domain.SourceType `json:"source_type"`
	LawReference string            `json:"law_reference,omitempty"`
	Article      string            `json:"article,omitempty"`
	Score        float64           `json:"score"`
}

// Source is a citation entry for human display. Relevance is the passage
// score as a percentage with one decimal.
type Source struct {
	Title     string            `json:"title"`
	Type      domain.SourceType `json:"type"`
	Relevance float64           `json:"relevance"`
}

// Result is the outcome of one retrieval. When Grounded is false no passage
// survived the threshold and callers should answer without grounding and
// say so.
type Result struct {
	Passages     []Passage `json:"passages"`
	TotalResults int       `json:"total_results"`
	Context      string    `json:"context"`
	Sources      []Source  `json:"sources"`
	Grounded     bool      `json:"grounded"`
}

// Config tunes the pipeline. Zero values fall back to the package defaults.
type Config struct {
	ScoreThreshold      float64
	ContextBudget       int
	CollaboratorTimeout time.Duration
	Logger              *slog.Logger
}

// Retriever is the capability domain tools depend on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, filter domain.SourceType, topK int) (*Result, error)
}

// Pipeline coordinates the embedding capability and the knowledge store.
type Pipeline struct {
	embed     embedder.Embedder
	store     knowledge.Store
	threshold float64
	budget    int
	timeout   time.Duration
	logger    *slog.Logger
}

// New builds a pipeline. The embedder and store are required.
func New(embed embedder.Embedder, store knowledge.Store, cfg Config) (*Pipeline, error) {
	if embed == nil {
		return nil, coreerrors.Configuration("retrieval pipeline requires an embedder")
	}
	if store == nil {
		return nil, coreerrors.Configuration("retrieval pipeline requires a knowledge store")
	}
	if cfg.ScoreThreshold == 0 {
		cfg.ScoreThreshold = DefaultScoreThreshold
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 1 {
		return nil, coreerrors.Configuration("score threshold must be within [0,1]")
	}
	if cfg.ContextBudget <= 0 {
		cfg.ContextBudget = DefaultContextBudget
	}
	if cfg.CollaboratorTimeout <= 0 {
		cfg.CollaboratorTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		embed:     embed,
		store:     store,
		threshold: cfg.ScoreThreshold,
		budget:    cfg.ContextBudget,
		timeout:   cfg.CollaboratorTimeout,
		logger:    cfg.Logger,
	}, nil
}

// Retrieve runs the full pipeline for a query. topK values outside [1,10]
// are clamped; topK <= 0 means the default. filter narrows results to one
// source type, domain.SourceNone means no filter.
func (p *Pipeline) Retrieve(ctx context.Context, query string, filter domain.SourceType, topK int) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	topK = clampTopK(topK)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	vector, err := p.embed.Embed(ctx, query)
	if err != nil {
		return nil, coreerrors.RetrievalUnavailable("embedding", err)
	}

	matches, err := p.store.Search(ctx, vector, topK, filter)
	if err != nil {
		if coreerrors.KindOf(err) == coreerrors.KindRetrievalUnavailable {
			return nil, err
		}
		return nil, coreerrors.RetrievalUnavailable("vector search", err)
	}

	passages := p.rank(matches)
	result := p.assemble(passages)

	p.logger.Debug("retrieval completed",
		"query_len", len(query),
		"raw_matches", len(matches),
		"passages", result.TotalResults,
		"grounded", result.Grounded,
	)
	return result, nil
}

// rank applies the threshold, sorts by score descending keeping the backend
// order for ties, and deduplicates identical (sourceTitle, content) pairs
// keeping the highest-scoring occurrence.
func (p *Pipeline) rank(matches []knowledge.Match) []Passage {
	passages := make([]Passage, 0, len(matches))
	for _, m := range matches {
		if m.Score < p.threshold {
			continue
		}
		passages = append(passages, Passage{
			Content:      m.Content,
			SourceTitle:  m.SourceTitle,
			SourceType:   m.SourceType,
			LawReference: m.LawReference,
			Article:      m.Article,
			Score:        m.Score,
		})
	}

	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})

	type dedupKey struct {
		title   string
		content string
	}
	seen := make(map[dedupKey]bool, len(passages))
	unique := passages[:0]
	for _, passage := range passages {
		key := dedupKey{passage.SourceTitle, passage.Content}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, passage)
	}
	return unique
}

// assemble builds the bounded context string and the sources list. Lowest
// ranked passages are dropped first when the character budget would be
// exceeded.
func (p *Pipeline) assemble(passages []Passage) *Result {
	result := &Result{
		Passages:     passages,
		TotalResults: len(passages),
		Grounded:     len(passages) > 0,
	}
	if len(passages) == 0 {
		return result
	}

	var ctx strings.Builder
	for _, passage := range passages {
		block := formatPassage(passage)
		if ctx.Len() > 0 && ctx.Len()+len("\n\n")+len(block) > p.budget {
			break
		}
		if ctx.Len() == 0 && len(block) > p.budget {
			block = truncateRunes(block, p.budget)
		}
		if ctx.Len() > 0 {
			ctx.WriteString("\n\n")
		}
		ctx.WriteString(block)
	}
	result.Context = ctx.String()

	result.Sources = make([]Source, 0, len(passages))
	for _, passage := range passages {
		result.Sources = append(result.Sources, Source{
			Title:     passage.SourceTitle,
			Type:      passage.SourceType,
			Relevance: roundPercent(passage.Score),
		})
	}
	return result
}

func formatPassage(p Passage) string {
	header := p.SourceTitle
	if p.LawReference != "" {
		header = fmt.Sprintf("%s (%s", header, p.LawReference)
		if p.Article != "" {
			header += ", " + p.Article
		}
		header += ")"
	}
	return fmt.Sprintf("[%s]\n%s", header, p.Content)
}

// truncateRunes cuts s to at most maxBytes without splitting a multibyte
// rune mid-sequence.
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// roundPercent converts a 0..1 score to a percentage with one decimal.
func roundPercent(score float64) float64 {
	return float64(int(score*1000+0.5)) / 10
}

// clampTopK bounds topK to [MinTopK, MaxTopK]. Zero means the caller did not
// choose and gets the default; explicit negatives clamp to the minimum.
func clampTopK(topK int) int {
	if topK == 0 {
		return DefaultTopK
	}
	if topK < MinTopK {
		return MinTopK
	}
	if topK > MaxTopK {
		return MaxTopK
	}
	return topK
}
