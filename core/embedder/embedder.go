// Package embedder turns text into dense vectors for the legislation
// knowledge base. The default path runs a local ONNX model; a deterministic
// hash-feature embedder serves as fallback when no model is available.
package embedder

import "context"

// DefaultDimension is the embedding width shared by the local embedder and
// the bundled ONNX model.
const DefaultDimension = 384

// Embedder produces embeddings for queries and documents.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
