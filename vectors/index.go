package vectors

import (
	"fmt"

	"github.com/poiesic/semanalyzer/core"
)

// Index is an immutable token → vector mapping with precomputed norms.
// It is safe for concurrent reads.
type Index struct {
	path      string
	dim       int
	tokens    []string
	vectors   [][]float32
	norms     []float64
	positions map[string]int
}

// NewIndex builds an index from in-memory entries.
// Duplicate tokens keep their first vector.
// Returns ErrVectorFormat if the entries disagree on dimensionality.
func NewIndex(entries []core.WordVector) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no vectors", core.ErrVectorFormat)
	}
	ix := newIndex("", len(entries[0].Vector), len(entries))
	for _, e := range entries {
		if err := ix.add(e.Token, e.Vector); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

func newIndex(path string, dim, capacity int) *Index {
	return &Index{
		path:      path,
		dim:       dim,
		tokens:    make([]string, 0, capacity),
		vectors:   make([][]float32, 0, capacity),
		norms:     make([]float64, 0, capacity),
		positions: make(map[string]int, capacity),
	}
}

func (ix *Index) add(token string, vector []float32) error {
	if ix.dim == 0 {
		return fmt.Errorf("%w: zero-dimensional vectors", core.ErrVectorFormat)
	}
	if len(vector) != ix.dim {
		return fmt.Errorf("%w: token %q has %d dimensions, want %d",
			core.ErrVectorFormat, token, len(vector), ix.dim)
	}
	if _, exists := ix.positions[token]; exists {
		return nil
	}
	ix.positions[token] = len(ix.tokens)
	ix.tokens = append(ix.tokens, token)
	ix.vectors = append(ix.vectors, vector)
	ix.norms = append(ix.norms, Norm(vector))
	return nil
}

// Lookup returns the vector for token.
func (ix *Index) Lookup(token string) (core.WordVector, bool) {
	i, ok := ix.positions[token]
	if !ok {
		return core.WordVector{}, false
	}
	return core.WordVector{Token: ix.tokens[i], Vector: ix.vectors[i]}, true
}

// Entry returns the i-th entry in load order along with its norm.
func (ix *Index) Entry(i int) (core.WordVector, float64) {
	return core.WordVector{Token: ix.tokens[i], Vector: ix.vectors[i]}, ix.norms[i]
}

// Len returns the number of tokens in the index.
func (ix *Index) Len() int {
	return len(ix.tokens)
}

// Dim returns the shared dimensionality of the vectors.
func (ix *Index) Dim() int {
	return ix.dim
}

// Path returns the resource the index was loaded from, if any.
func (ix *Index) Path() string {
	return ix.path
}
