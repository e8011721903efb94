package local

import (
	"context"
	"math"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
)

// DefaultDimension is the width of vectors produced by the hashing embedder.
const DefaultDimension = 256

// Embedder maps texts onto a fixed-width vector by feature hashing of their
// content words. Texts sharing vocabulary land close together; no model or
// corpus preparation is required.
type Embedder struct {
	dimension int
}

var _ ai.Embedder = (*Embedder)(nil)

func newEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dimension: dimension}
}

// Dimension returns the width of the produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// EmbedText returns the unit-length hashed term-frequency vector of text.
// Texts without content words embed to the zero vector.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := make([]float64, e.dimension)
	for _, tok := range contentTokens(text) {
		h := uint64(core.IDFromContent(tok))
		bucket := h % uint64(e.dimension)
		// High bit picks the sign so collisions tend to cancel.
		if h>>63 == 1 {
			acc[bucket]--
		} else {
			acc[bucket]++
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, e.dimension)
	if norm == 0 {
		return vec, nil
	}
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

// EmbedTexts embeds each text in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}
