// Package router implements deterministic keyword classification of inbound
// messages into the closed category set. Classification is a pure function of
// the static keyword table and the message text; no I/O, no suspension.
package router

import (
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
)

// Result is the per-request classification outcome. Scores always carries an
// entry for every registered category, zeros included, for observability.
type Result struct {
	Category domain.Category
	Score    int
	Scores   map[domain.Category]int

	// Fallback is true when the default category was applied because no
	// keyword matched or two or more categories tied at the maximum.
	Fallback bool
}

type Router struct {
	keywords map[domain.Category][]domain.KeywordRule
	fallback domain.Category
	cache    *lru.Cache[string, *Result]
	logger   *slog.Logger
}

// New validates the keyword tables and builds a router. Table violations are
// configuration errors and must abort startup.
func New(cfg *domain.RouterConfig, logger *slog.Logger) (*Router, error) {
	if cfg == nil {
		cfg = domain.DefaultRouterConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindConfiguration, "invalid router config", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg = cfg.Clone()

	r := &Router{
		keywords: cfg.Keywords,
		fallback: cfg.DefaultCategory,
		logger:   logger,
	}

	if cfg.ClassifyCacheSize > 0 {
		cache, err := lru.New[string, *Result](cfg.ClassifyCacheSize)
		if err != nil {
			return nil, coreerrors.Wrap(coreerrors.KindConfiguration, "classification cache", err)
		}
		r.cache = cache
	}

	return r, nil
}

// Classify scores the message against every category and picks the strict
// maximum. Matching is substring containment on the lowercased message, so a
// term inside a longer word still counts; this mirrors the legacy behavior
// and is locked in by tests rather than silently tightened.
func (r *Router) Classify(message string) *Result {
	if r.cache != nil {
		if cached, ok := r.cache.Get(message); ok {
			return cached
		}
	}

	normalized := strings.ToLower(message)

	scores := make(map[domain.Category]int, len(r.keywords))
	for _, cat := range domain.ValidCategories() {
		scores[cat] = scoreCategory(normalized, r.keywords[cat])
	}

	result := r.pickWinner(scores)

	r.logger.Debug("classified message",
		"category", result.Category.String(),
		"score", result.Score,
		"fallback", result.Fallback,
	)

	if r.cache != nil {
		r.cache.Add(message, result)
	}
	return result
}

// scoreCategory sums rule weights for terms present in the message. A rule
// contributes at most once regardless of how many times its term appears.
func scoreCategory(normalized string, rules []domain.KeywordRule) int {
	score := 0
	for _, rule := range rules {
		if strings.Contains(normalized, rule.Term) {
			score += rule.Weight
		}
	}
	return score
}

func (r *Router) pickWinner(scores map[domain.Category]int) *Result {
	best := r.fallback
	bestScore := 0
	tied := false

	for _, cat := range domain.ValidCategories() {
		s := scores[cat]
		switch {
		case s > bestScore:
			best = cat
			bestScore = s
			tied = false
		case s == bestScore && s > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return &Result{
			Category: r.fallback,
			Score:    scores[r.fallback],
			Scores:   scores,
			Fallback: true,
		}
	}

	return &Result{
		Category: best,
		Score:    bestScore,
		Scores:   scores,
	}
}

// DefaultCategory returns the configured fallback category.
func (r *Router) DefaultCategory() domain.Category {
	return r.fallback
}
