package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transvia/copiloto/core/domain"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := OpenCatalog(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func TestCatalogCitationLookup(t *testing.T) {
	catalog := openTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.Add(ctx, Document{
		ID:           "lc-87-1",
		Content:      "O imposto não incide sobre operações de exportação de mercadorias.",
		SourceTitle:  "Lei Complementar 87/1996",
		SourceType:   domain.SourceLaw,
		LawReference: "LC 87/1996",
		Article:      "Art. 3",
	}))
	require.NoError(t, catalog.Add(ctx, Document{
		ID:           "lc-87-2",
		Content:      "Contribuinte é qualquer pessoa que realize operações de circulação de mercadorias.",
		SourceTitle:  "Lei Complementar 87/1996",
		SourceType:   domain.SourceLaw,
		LawReference: "LC 87/1996",
		Article:      "Art. 4",
	}))

	matches, err := catalog.LookupCitation(ctx, "LC 87/1996", "Art. 4")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "lc-87-2", matches[0].ID)
	assert.Equal(t, domain.SourceLaw, matches[0].SourceType)

	matches, err = catalog.LookupCitation(ctx, "LC 87/1996", "")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = catalog.LookupCitation(ctx, "LC 999/2099", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCatalogFullTextSearch(t *testing.T) {
	catalog := openTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.Add(ctx, Document{
		ID:          "doc-frete",
		Content:     "O conhecimento de transporte eletrônico acompanha o frete rodoviário.",
		SourceTitle: "Manual CT-e",
		SourceType:  domain.SourceManual,
	}))
	require.NoError(t, catalog.Add(ctx, Document{
		ID:          "doc-icms",
		Content:     "A alíquota interestadual do imposto varia conforme o estado de destino.",
		SourceTitle: "Regulamento ICMS",
		SourceType:  domain.SourceRegulation,
	}))

	matches, err := catalog.SearchText(ctx, "frete rodoviário", 10, domain.SourceNone)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-frete", matches[0].ID)

	// Filter excludes the only matching document.
	matches, err = catalog.SearchText(ctx, "frete rodoviário", 10, domain.SourceRegulation)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCatalogSearchIgnoresPunctuation(t *testing.T) {
	catalog := openTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.Add(ctx, Document{
		ID:          "doc-1",
		Content:     "Base de cálculo do imposto sobre serviços de transporte.",
		SourceTitle: "Regulamento",
		SourceType:  domain.SourceRegulation,
	}))

	// Quotes and punctuation in the user query must not break FTS5 syntax.
	matches, err := catalog.SearchText(ctx, `"base de cálculo"?`, 10, domain.SourceNone)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCatalogList(t *testing.T) {
	catalog := openTestCatalog(t)
	ctx := context.Background()

	docs, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, catalog.Add(ctx, Document{
		ID:          "doc-1",
		Content:     "Primeiro documento.",
		SourceTitle: "Manual",
		SourceType:  domain.SourceManual,
	}))
	require.NoError(t, catalog.Add(ctx, Document{
		ID:          "doc-2",
		Content:     "Segundo documento.",
		SourceTitle: "Lei",
		SourceType:  domain.SourceLaw,
	}))

	docs, err = catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, domain.SourceLaw, docs[1].SourceType)
}

func TestBuildFTSQuery(t *testing.T) {
	assert.Equal(t, `"frete" "carga"`, buildFTSQuery("frete carga"))
	assert.Equal(t, `"icms"`, buildFTSQuery(`"icms"`))
	assert.Equal(t, "", buildFTSQuery("   "))
}
