package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRouterConfigValid(t *testing.T) {
	cfg := DefaultRouterConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CategoryFiscal, cfg.DefaultCategory)
	assert.InDelta(t, 0.35, cfg.ScoreThreshold, 1e-9)
}

func TestDefaultKeywordsCoverEveryCategory(t *testing.T) {
	kw := DefaultKeywords()
	for _, c := range ValidCategories() {
		rules, ok := kw[c]
		require.True(t, ok, "category %s has no keyword table", c)
		require.NotEmpty(t, rules)
		for _, rule := range rules {
			assert.Equal(t, strings.ToLower(rule.Term), rule.Term, "term %q must be lowercase", rule.Term)
			assert.GreaterOrEqual(t, rule.Weight, 1, "term %q", rule.Term)
		}
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RouterConfig)
	}{
		{"empty table", func(c *RouterConfig) { c.Keywords = nil }},
		{"empty category", func(c *RouterConfig) { c.Keywords[CategoryCRM] = nil }},
		{"zero weight", func(c *RouterConfig) {
			c.Keywords[CategoryTMS] = []KeywordRule{{Term: "frete", Weight: 0}}
		}},
		{"negative weight", func(c *RouterConfig) {
			c.Keywords[CategoryTMS] = []KeywordRule{{Term: "frete", Weight: -2}}
		}},
		{"empty term", func(c *RouterConfig) {
			c.Keywords[CategoryQA] = []KeywordRule{{Term: "  ", Weight: 1}}
		}},
		{"uppercase term", func(c *RouterConfig) {
			c.Keywords[CategoryQA] = []KeywordRule{{Term: "ICMS", Weight: 1}}
		}},
		{"bad default category", func(c *RouterConfig) { c.DefaultCategory = Category(42) }},
		{"threshold above one", func(c *RouterConfig) { c.ScoreThreshold = 1.5 }},
		{"zero context budget", func(c *RouterConfig) { c.ContextBudget = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRouterConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := DefaultRouterConfig()
	clone := cfg.Clone()

	clone.Keywords[CategoryFiscal][0].Term = "changed"
	clone.DefaultCategory = CategoryQA

	assert.NotEqual(t, "changed", cfg.Keywords[CategoryFiscal][0].Term)
	assert.Equal(t, CategoryFiscal, cfg.DefaultCategory)
}
