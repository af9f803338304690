// Package knowledge provides the legislation knowledge base consumed by the
// retrieval pipeline: a vector index for semantic search plus a sqlite FTS
// catalog for keyword and citation lookup.
package knowledge

import (
	"context"

	"github.com/transvia/copiloto/core/domain"
)

// Document is an ingested legislation chunk.
type Document struct {
	ID           string            `json:"id"`
	Content      string            `json:"content"`
	SourceTitle  string            `json:"source_title"`
	SourceType   domain.SourceType `json:"source_type"`
	LawReference string            `json:"law_reference,omitempty"`
	Article      string            `json:"article,omitempty"`
}

// Match is a search hit. Score is normalized relevance in [0,1].
type Match struct {
	Document
	Score float64 `json:"score"`
}

// Store is the vector search capability the retrieval pipeline depends on.
// Implementations must honor ctx cancellation and return matches ordered by
// backend relevance; the pipeline applies its own threshold and ordering.
type Store interface {
	Search(ctx context.Context, vector []float32, topK int, filter domain.SourceType) ([]Match, error)
}

// KeywordSearcher is the full-text capability used for citation lookup and
// hybrid display ordering. Separate from Store so the pipeline's contract
// stays vector-only.
type KeywordSearcher interface {
	SearchText(ctx context.Context, query string, topK int, filter domain.SourceType) ([]Match, error)
}
