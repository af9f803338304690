package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/knowledge"
	"github.com/transvia/copiloto/core/retrieval"
)

type stubRetriever struct {
	result  *retrieval.Result
	err     error
	gotType domain.SourceType
	gotTopK int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, filter domain.SourceType, topK int) (*retrieval.Result, error) {
	s.gotType = filter
	s.gotTopK = topK
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func groundedResult() *retrieval.Result {
	return &retrieval.Result{
		Passages: []retrieval.Passage{
			{
				Content:     "O imposto não incide sobre exportação.",
				SourceTitle: "LC 87/1996",
				SourceType:  domain.SourceLaw,
				Score:       0.92,
			},
		},
		TotalResults: 1,
		Context:      "[LC 87/1996]\nO imposto não incide sobre exportação.",
		Sources: []retrieval.Source{
			{Title: "LC 87/1996", Type: domain.SourceLaw, Relevance: 92.0},
		},
		Grounded: true,
	}
}

func TestLegislationSearchGroundedOutput(t *testing.T) {
	r := &stubRetriever{result: groundedResult()}
	tool, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r})
	require.NoError(t, err)

	inv, err := tool.Invoke(context.Background(), map[string]any{
		"query":       "exportação de mercadorias",
		"source_type": "law",
		"top_k":       float64(3),
	})
	require.NoError(t, err)

	assert.False(t, inv.Degraded)
	assert.Contains(t, inv.Output, "LC 87/1996")
	assert.Contains(t, inv.Output, "92.0%")
	assert.Equal(t, domain.SourceLaw, r.gotType)
	assert.Equal(t, 3, r.gotTopK)
	assert.Equal(t, true, inv.Metadata["grounded"])
}

func TestLegislationSearchMissingQuery(t *testing.T) {
	tool, err := NewLegislationSearch(LegislationSearchConfig{Retriever: &stubRetriever{}})
	require.NoError(t, err)

	_, err = tool.Invoke(context.Background(), map[string]any{})
	require.Error(t, err)
}

func TestLegislationSearchDegradesOnRetrievalUnavailable(t *testing.T) {
	r := &stubRetriever{err: coreerrors.RetrievalUnavailable("vector search", assert.AnError)}
	tool, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r})
	require.NoError(t, err)

	inv, err := tool.Invoke(context.Background(), map[string]any{"query": "frete"})
	require.NoError(t, err)

	assert.True(t, inv.Degraded)
	assert.Contains(t, inv.Output, "indisponível")
	// A degraded invocation must never carry fabricated sources.
	assert.NotContains(t, inv.Output, "Fontes:")
}

func TestLegislationSearchUngroundedTellsCaller(t *testing.T) {
	r := &stubRetriever{result: &retrieval.Result{Grounded: false}}
	tool, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r})
	require.NoError(t, err)

	inv, err := tool.Invoke(context.Background(), map[string]any{"query": "assunto inexistente"})
	require.NoError(t, err)

	assert.False(t, inv.Degraded)
	assert.Contains(t, inv.Output, "sem citar fontes")
}

func TestLegislationSearchCitationLookup(t *testing.T) {
	catalog, err := knowledge.OpenCatalog(":memory:", nil)
	require.NoError(t, err)
	defer catalog.Close()

	require.NoError(t, catalog.Add(context.Background(), knowledge.Document{
		ID:           "lc-87-3",
		Content:      "Não incide sobre operações de exportação.",
		SourceTitle:  "Lei Complementar 87/1996",
		SourceType:   domain.SourceLaw,
		LawReference: "LC 87/1996",
		Article:      "Art. 3",
	}))

	r := &stubRetriever{result: groundedResult()}
	tool, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r, Catalog: catalog})
	require.NoError(t, err)

	inv, err := tool.Invoke(context.Background(), map[string]any{
		"query":         "exportação",
		"law_reference": "LC 87/1996",
		"article":       "Art. 3",
	})
	require.NoError(t, err)

	assert.Contains(t, inv.Output, "Citação exata:")
	assert.Contains(t, inv.Output, "Art. 3")
}

func TestToolSetDuplicateName(t *testing.T) {
	r := &stubRetriever{result: groundedResult()}
	a, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r})
	require.NoError(t, err)
	b, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r})
	require.NoError(t, err)

	_, err = NewSet(a, b)
	require.Error(t, err)
	assert.Equal(t, coreerrors.KindConfiguration, coreerrors.KindOf(err))
}

func TestToolSetLookup(t *testing.T) {
	r := &stubRetriever{result: groundedResult()}
	tool, err := NewLegislationSearch(LegislationSearchConfig{Retriever: r})
	require.NoError(t, err)

	set, err := NewSet(tool)
	require.NoError(t, err)

	got, ok := set.Get(LegislationSearchName)
	assert.True(t, ok)
	assert.Equal(t, tool, got)
	assert.Equal(t, []string{LegislationSearchName}, set.Names())

	_, ok = set.Get("unknown_tool")
	assert.False(t, ok)
}
