package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range ValidCategories() {
		parsed, ok := ParseCategory(c.String())
		require.True(t, ok, "category %s should parse", c)
		assert.Equal(t, c, parsed)
	}
}

func TestCategoryInvalid(t *testing.T) {
	_, ok := ParseCategory("not_a_real_category")
	assert.False(t, ok)

	assert.False(t, Category(99).IsValid())
	assert.Equal(t, "category(99)", Category(99).String())
}

func TestValidCategoriesClosedSet(t *testing.T) {
	cats := ValidCategories()
	assert.Len(t, cats, 8)

	seen := make(map[Category]bool)
	for _, c := range cats {
		assert.True(t, c.IsValid())
		assert.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true
	}
}

func TestParseSourceTypeTolerant(t *testing.T) {
	tests := []struct {
		in   string
		want SourceType
	}{
		{"law", SourceLaw},
		{"manual", SourceManual},
		{"regulation", SourceRegulation},
		{"article", SourceArticle},
		{"other", SourceOther},
		{"", SourceNone},
		{"bogus", SourceNone},
		{"LAW", SourceNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSourceType(tt.in), "input %q", tt.in)
	}
}
