package knowledge

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
)

// VectorStore is an in-memory vector index over legislation chunks.
// Embeddings are L2-normalized at insertion so similarity reduces to a
// dot product.
type VectorStore struct {
	mu      sync.RWMutex
	docs    []Document
	vectors [][]float32
	dim     int
	logger  *slog.Logger
}

// NewVectorStore creates an empty store for embeddings of the given dimension.
func NewVectorStore(dim int, logger *slog.Logger) (*VectorStore, error) {
	if dim <= 0 {
		return nil, coreerrors.Configuration("vector dimension must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStore{dim: dim, logger: logger}, nil
}

// Add indexes a document with its embedding. The vector is normalized in
// place; zero vectors are rejected.
func (s *VectorStore) Add(doc Document, vector []float32) error {
	if len(vector) != s.dim {
		return coreerrors.Configuration("embedding dimension mismatch")
	}
	norm := float32(math.Sqrt(float64(vek32.Dot(vector, vector))))
	if norm == 0 {
		return coreerrors.Configuration("zero embedding vector")
	}
	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = v / norm
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	s.vectors = append(s.vectors, normalized)
	return nil
}

// Len returns the number of indexed documents.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search scans the index and returns the topK most similar documents,
// optionally restricted to a single source type. Scores are cosine
// similarities clamped to [0,1].
func (s *VectorStore) Search(ctx context.Context, vector []float32, topK int, filter domain.SourceType) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) != s.dim {
		return nil, coreerrors.RetrievalUnavailable("vector search", coreerrors.Configuration("query dimension mismatch"))
	}
	if topK <= 0 {
		return nil, nil
	}

	norm := float32(math.Sqrt(float64(vek32.Dot(vector, vector))))
	if norm == 0 {
		return nil, nil
	}
	query := make([]float32, len(vector))
	for i, v := range vector {
		query[i] = v / norm
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, topK)
	for i, doc := range s.docs {
		if filter != domain.SourceNone && doc.SourceType != filter {
			continue
		}
		score := float64(vek32.Dot(query, s.vectors[i]))
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		matches = append(matches, Match{Document: doc, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
