package analogy

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/vectors"
)

// Axes: royalty, male, female.
func royaltyIndex(t *testing.T) *vectors.Index {
	t.Helper()
	ix, err := vectors.NewIndex([]core.WordVector{
		{Token: "king", Vector: []float32{1, 1, 0}},
		{Token: "queen", Vector: []float32{1, 0, 1}},
		{Token: "man", Vector: []float32{0, 1, 0}},
		{Token: "woman", Vector: []float32{0, 0, 1}},
		{Token: "prince", Vector: []float32{2, 2, 0}},
		{Token: "apple", Vector: []float32{0, 0, 0}},
		{Token: "car", Vector: []float32{0.1, 0.5, 0.5}},
	})
	require.NoError(t, err)
	return ix
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func tokens(matches []core.RankedMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Token
	}
	return out
}

func TestSearch_Analogy(t *testing.T) {
	e := newEngine(t)
	set := core.ExemplarSet{Positive: []string{"king", "woman"}, Negative: []string{"man"}}

	result, err := e.Search(context.Background(), royaltyIndex(t), set, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"queen", "car", "apple", "prince"}, tokens(result.Matches))
	assert.InDelta(t, 0.8165, result.Matches[0].Score, 1e-3)
	assert.Equal(t, 0.0, result.Matches[2].Score)
	assert.Equal(t, 0.0, result.Matches[3].Score)
	assert.Equal(t, []string{"king", "woman"}, result.Positive)
	assert.Equal(t, []string{"man"}, result.Negative)
	assert.Empty(t, result.Warnings)
}

func TestSearch_Plane(t *testing.T) {
	ix, err := vectors.NewIndex([]core.WordVector{
		{Token: "A", Vector: []float32{1, 0}},
		{Token: "B", Vector: []float32{0, 1}},
		{Token: "C", Vector: []float32{0.9, 0.1}},
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		set       core.ExemplarSet
		topK      int
		wantToken string
		wantScore float64
	}{
		{name: "near A", set: core.ExemplarSet{Positive: []string{"A"}}, topK: 1, wantToken: "C", wantScore: 0.9939},
		{name: "near A far from B", set: core.ExemplarSet{Positive: []string{"A"}, Negative: []string{"B"}}, topK: 5, wantToken: "C", wantScore: 0.6247},
		{name: "far from B", set: core.ExemplarSet{Negative: []string{"B"}}, topK: 1, wantToken: "C", wantScore: -0.1104},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newEngine(t).Search(context.Background(), ix, tt.set, tt.topK)
			require.NoError(t, err)
			require.Len(t, result.Matches, 1)
			assert.Equal(t, tt.wantToken, result.Matches[0].Token)
			assert.InDelta(t, tt.wantScore, result.Matches[0].Score, 1e-3)
		})
	}
}

func TestSearch_ExcludesExemplars(t *testing.T) {
	e := newEngine(t)
	set := core.ExemplarSet{Positive: []string{"king", "woman"}, Negative: []string{"man"}}

	result, err := e.Search(context.Background(), royaltyIndex(t), set, 100)
	require.NoError(t, err)

	assert.Len(t, result.Matches, 4, "topK beyond the candidate count returns every candidate")
	for _, m := range result.Matches {
		assert.False(t, set.Contains(m.Token), "exemplar %q returned", m.Token)
		assert.GreaterOrEqual(t, m.Score, -1.0)
		assert.LessOrEqual(t, m.Score, 1.0)
	}
}

func TestSearch_NegativeOnly(t *testing.T) {
	e := newEngine(t)
	result, err := e.Search(context.Background(), royaltyIndex(t), core.ExemplarSet{Negative: []string{"man"}}, 3)
	require.NoError(t, err)

	// Everything orthogonal to "man" ties at zero and is ordered by token.
	assert.Equal(t, []string{"apple", "queen", "woman"}, tokens(result.Matches))
}

func TestSearch_UnknownTokens(t *testing.T) {
	e := newEngine(t)
	ix := royaltyIndex(t)

	t.Run("dropped with warning", func(t *testing.T) {
		set := core.ExemplarSet{Positive: []string{"king", "qwzx", "woman"}, Negative: []string{"man", "zzyzx"}}
		result, err := e.Search(context.Background(), ix, set, 1)
		require.NoError(t, err)

		assert.Equal(t, []string{"queen"}, tokens(result.Matches))
		require.Len(t, result.Warnings, 2)
		for _, w := range result.Warnings {
			assert.ErrorIs(t, w, core.ErrUnknownToken)
		}
		var unknown *core.UnknownTokenError
		require.ErrorAs(t, result.Warnings[1], &unknown)
		assert.Equal(t, "zzyzx", unknown.Token)
		assert.Equal(t, "negative", unknown.Side)
	})

	t.Run("all unknown", func(t *testing.T) {
		set := core.ExemplarSet{Positive: []string{"qwzx"}, Negative: []string{"zzyzx"}}
		_, err := e.Search(context.Background(), ix, set, 5)
		assert.ErrorIs(t, err, core.ErrEmptyExemplarSet)
	})
}

func TestSearch_InvalidQuery(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name  string
		space VectorSpace
		set   core.ExemplarSet
		topK  int
		want  error
	}{
		{name: "empty exemplars", space: royaltyIndex(t), set: core.ExemplarSet{}, topK: 5, want: core.ErrEmptyExemplarSet},
		{name: "zero topK", space: royaltyIndex(t), set: core.ExemplarSet{Positive: []string{"king"}}, topK: 0, want: core.ErrEmptyExemplarSet},
		{name: "empty exemplars checked before space", space: nil, set: core.ExemplarSet{}, topK: 5, want: core.ErrEmptyExemplarSet},
		{name: "missing space", space: nil, set: core.ExemplarSet{Positive: []string{"king"}}, topK: 5, want: ErrVectorSpaceRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Search(context.Background(), tt.space, tt.set, tt.topK)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSearch_Canceled(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, royaltyIndex(t), core.ExemplarSet{Positive: []string{"king"}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entries := make([]core.WordVector, 500)
	for i := range entries {
		v := make([]float32, 8)
		for j := range v {
			v[j] = float32(rng.NormFloat64())
		}
		entries[i] = core.WordVector{Token: fmt.Sprintf("w%03d", i), Vector: v}
	}
	ix, err := vectors.NewIndex(entries)
	require.NoError(t, err)

	set := core.ExemplarSet{Positive: []string{"w001", "w002"}, Negative: []string{"w003"}}
	e := newEngine(t)
	result, err := e.Search(context.Background(), ix, set, 25)
	require.NoError(t, err)

	// Brute force: score everything and sort.
	target := vectors.Subtract(
		vectors.Mean([][]float32{entries[1].Vector, entries[2].Vector}, 8),
		vectors.Mean([][]float32{entries[3].Vector}, 8),
	)
	var all []core.RankedMatch
	for _, entry := range entries {
		if set.Contains(entry.Token) {
			continue
		}
		all = append(all, core.RankedMatch{Token: entry.Token, Score: vectors.Cosine(target, entry.Vector)})
	}
	slices.SortFunc(all, compareMatches)

	require.Len(t, result.Matches, 25)
	assert.Equal(t, tokens(all[:25]), tokens(result.Matches))

	again, err := e.Search(context.Background(), ix, set, 25)
	require.NoError(t, err)
	assert.Equal(t, result.Matches, again.Matches, "search must be deterministic")
}
