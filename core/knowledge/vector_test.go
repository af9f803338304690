package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transvia/copiloto/core/domain"
)

func testDoc(id, title string, sourceType domain.SourceType) Document {
	return Document{
		ID:          id,
		Content:     "conteúdo " + id,
		SourceTitle: title,
		SourceType:  sourceType,
	}
}

func TestVectorStoreSearchOrdersBySimilarity(t *testing.T) {
	store, err := NewVectorStore(3, nil)
	require.NoError(t, err)

	require.NoError(t, store.Add(testDoc("a", "Lei A", domain.SourceLaw), []float32{1, 0, 0}))
	require.NoError(t, store.Add(testDoc("b", "Lei B", domain.SourceLaw), []float32{0.7, 0.7, 0}))
	require.NoError(t, store.Add(testDoc("c", "Manual C", domain.SourceManual), []float32{0, 0, 1}))

	matches, err := store.Search(context.Background(), []float32{1, 0, 0}, 10, domain.SourceNone)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.Equal(t, "c", matches[2].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
	assert.InDelta(t, 0.0, matches[2].Score, 1e-5)
}

func TestVectorStoreFilterBySourceType(t *testing.T) {
	store, err := NewVectorStore(2, nil)
	require.NoError(t, err)

	require.NoError(t, store.Add(testDoc("law", "Lei", domain.SourceLaw), []float32{1, 0}))
	require.NoError(t, store.Add(testDoc("manual", "Manual", domain.SourceManual), []float32{1, 0}))

	matches, err := store.Search(context.Background(), []float32{1, 0}, 10, domain.SourceManual)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "manual", matches[0].ID)
}

func TestVectorStoreTopKTruncation(t *testing.T) {
	store, err := NewVectorStore(2, nil)
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Add(testDoc(id, "Lei "+id, domain.SourceLaw), []float32{1, 0}))
	}

	matches, err := store.Search(context.Background(), []float32{1, 0}, 2, domain.SourceNone)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestVectorStoreRejectsDimensionMismatch(t *testing.T) {
	store, err := NewVectorStore(3, nil)
	require.NoError(t, err)

	err = store.Add(testDoc("a", "Lei", domain.SourceLaw), []float32{1, 0})
	require.Error(t, err)

	require.NoError(t, store.Add(testDoc("a", "Lei", domain.SourceLaw), []float32{1, 0, 0}))
	_, err = store.Search(context.Background(), []float32{1, 0}, 5, domain.SourceNone)
	require.Error(t, err)
}

func TestVectorStoreZeroQueryVector(t *testing.T) {
	store, err := NewVectorStore(2, nil)
	require.NoError(t, err)
	require.NoError(t, store.Add(testDoc("a", "Lei", domain.SourceLaw), []float32{1, 0}))

	matches, err := store.Search(context.Background(), []float32{0, 0}, 5, domain.SourceNone)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorStoreCancelledContext(t *testing.T) {
	store, err := NewVectorStore(2, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Search(ctx, []float32{1, 0}, 5, domain.SourceNone)
	require.ErrorIs(t, err, context.Canceled)
}
