package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/viterin/vek/vek32"
)

// LocalEmbedder is a deterministic hash-feature embedder. It projects
// character n-grams and term frequencies into a fixed-width vector, which
// preserves lexical similarity well enough for Portuguese legislation text
// when no ONNX model is present. The same text always yields the same
// vector.
type LocalEmbedder struct {
	dimension int
}

// NewLocalEmbedder creates an embedder with the default dimension.
func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{dimension: DefaultDimension}
}

func (l *LocalEmbedder) Dimension() int {
	return l.dimension
}

func (l *LocalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return l.embed(text), nil
}

func (l *LocalEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = l.embed(text)
	}
	return vectors, nil
}

func (l *LocalEmbedder) embed(text string) []float32 {
	vec := make([]float32, l.dimension)

	lowered := strings.ToLower(text)
	l.addNgrams(vec, charNgrams(lowered, 3), 0.45)
	l.addNgrams(vec, charNgrams(lowered, 2), 0.20)
	l.addTerms(vec, splitTerms(lowered), 0.35)

	normalize(vec)
	return vec
}

// addNgrams scatters each n-gram into a handful of buckets with alternating
// signs, scaled down by the n-gram count so long texts do not dominate.
func (l *LocalEmbedder) addNgrams(vec []float32, ngrams []string, weight float64) {
	if len(ngrams) == 0 {
		return
	}
	w := float32(weight / math.Sqrt(float64(len(ngrams))))
	for _, ng := range ngrams {
		l.scatter(vec, hash64(ng), 4, w)
	}
}

func (l *LocalEmbedder) addTerms(vec []float32, terms []string, weight float64) {
	if len(terms) == 0 {
		return
	}

	tf := make(map[string]int)
	for _, term := range terms {
		tf[term]++
	}

	var norm float64
	for _, count := range tf {
		norm += float64(count) * float64(count)
	}
	norm = math.Sqrt(norm)

	for term, count := range tf {
		w := float32(weight * float64(count) / norm)
		l.scatter(vec, hash64(term), 8, w)
	}
}

// scatter adds w to count pseudo-random buckets derived from the seed,
// flipping the sign per bucket from the seed's low bits.
func (l *LocalEmbedder) scatter(vec []float32, seed uint64, count int, w float32) {
	state := seed
	for i := range count {
		state = state*6364136223846793005 + 1442695040888963407
		idx := int(state % uint64(l.dimension))
		if (seed>>i)&1 == 1 {
			vec[idx] += w
		} else {
			vec[idx] -= w
		}
	}
}

func charNgrams(text string, n int) []string {
	if len(text) < n {
		return nil
	}
	ngrams := make([]string, 0, len(text)-n+1)
	for i := 0; i <= len(text)-n; i++ {
		ngrams = append(ngrams, text[i:i+n])
	}
	return ngrams
}

func splitTerms(text string) []string {
	var terms []string
	var current strings.Builder
	flush := func() {
		if current.Len() >= 2 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return terms
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func normalize(vec []float32) {
	mag := math.Sqrt(float64(vek32.Dot(vec, vec)))
	if mag == 0 {
		return
	}
	inv := float32(1.0 / mag)
	for i := range vec {
		vec[i] *= inv
	}
}
