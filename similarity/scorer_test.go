package similarity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semanalyzer/ai/mock"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/metrics"
)

// fixedEmbedder maps each text to a hand-picked vector.
func fixedEmbedder(table map[string][]float32) *mock.MockEmbedder {
	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = table[text]
		}
		return out, nil
	}
	return m
}

func TestNewScorer_Validation(t *testing.T) {
	_, err := NewScorer(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestCompute(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{
		"cat":    {1, 0},
		"kitten": {1, 1},
		"truck":  {0, 1},
	})
	s, err := NewScorer(embedder)
	require.NoError(t, err)
	defer s.Release()

	matrix, err := s.Compute(context.Background(), []string{"cat", "kitten", "truck"})
	require.NoError(t, err)

	require.Len(t, matrix.Scores, 3)
	assert.Equal(t, 3, matrix.Size())
	assert.Equal(t, core.GranularitySentence, matrix.Units[0].Granularity)

	pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	for i, pair := range pairs {
		assert.Equal(t, pair[0], matrix.Scores[i].A)
		assert.Equal(t, pair[1], matrix.Scores[i].B)
	}
	assert.InDelta(t, 0.7071, matrix.Scores[0].Score, 1e-4)
	assert.InDelta(t, 0.0, matrix.Scores[1].Score, 1e-9)
	assert.InDelta(t, 0.7071, matrix.Scores[2].Score, 1e-4)

	ab, err := matrix.Score(0, 2)
	require.NoError(t, err)
	ba, err := matrix.Score(2, 0)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	assert.Equal(t, 1, embedder.CallCount(), "texts must be embedded in a single batch")
}

func TestCompute_TooFewTexts(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	s, err := NewScorer(embedder)
	require.NoError(t, err)

	for _, texts := range [][]string{nil, {"only one"}} {
		_, err := s.Compute(context.Background(), texts)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	}
	assert.Zero(t, embedder.CallCount())
}

func TestCompute_Duplicates(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	s, err := NewScorer(embedder)
	require.NoError(t, err)

	matrix, err := s.Compute(context.Background(), []string{"same", "same", "other"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"same", "same", "other"}}, embedder.Batches())
	assert.InDelta(t, 1.0, matrix.Scores[0].Score, 1e-6)
	assert.Equal(t, matrix.Units[0].ID, matrix.Units[1].ID)
	assert.NotEqual(t, matrix.Units[0].Index, matrix.Units[1].Index)
}

func TestCompute_EmbeddingMismatch(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, []string) ([][]float32, error)
	}{
		{"too few vectors", func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		}},
		{"ragged vectors", func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1, 0}, {1, 0, 0}}, nil
		}},
		{"empty vectors", func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{}, {}}, nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := mock.NewMockEmbedder()
			embedder.EmbedTextsFunc = tt.fn
			s, err := NewScorer(embedder)
			require.NoError(t, err)

			_, err = s.Compute(context.Background(), []string{"a", "b"})
			assert.ErrorIs(t, err, core.ErrEmbeddingMismatch)
		})
	}
}

func TestCompute_EmbedderError(t *testing.T) {
	boom := errors.New("service down")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) { return nil, boom }
	s, err := NewScorer(embedder)
	require.NoError(t, err)

	_, err = s.Compute(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, boom)
}

func TestCompute_ZeroVector(t *testing.T) {
	embedder := fixedEmbedder(map[string][]float32{"a": {0, 0}, "b": {1, 0}})
	s, err := NewScorer(embedder)
	require.NoError(t, err)

	matrix, err := s.Compute(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Zero(t, matrix.Scores[0].Score)
}

func TestCompute_WorkersMatchSequential(t *testing.T) {
	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("text number %d", i)
	}

	sequential, err := NewScorer(mock.NewMockEmbedder())
	require.NoError(t, err)
	want, err := sequential.Compute(context.Background(), texts)
	require.NoError(t, err)

	m := metrics.New(nil)
	parallel, err := NewScorer(mock.NewMockEmbedder(), WithWorkers(4), WithMetrics(m), WithLogger(nil))
	require.NoError(t, err)
	defer parallel.Release()

	got, err := parallel.Compute(context.Background(), texts)
	require.NoError(t, err)

	assert.Len(t, got.Scores, core.PairCount(len(texts)))
	assert.Equal(t, want.Scores, got.Scores)
}
