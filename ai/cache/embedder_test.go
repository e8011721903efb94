package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semanalyzer/ai/mock"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/metrics"
	"github.com/poiesic/semanalyzer/storage"
	"github.com/poiesic/semanalyzer/storage/badger"
)

func cacheCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "semanalyzer_embedding_cache_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func setupRepo(t *testing.T) storage.EmbeddingRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryEmbeddingRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

// failingRepo fails every operation.
type failingRepo struct{}

var errRepo = errors.New("disk on fire")

func (failingRepo) GetEmbeddings(context.Context, string, ...core.ID) (map[core.ID][]float32, error) {
	return nil, errRepo
}
func (failingRepo) PutEmbeddings(context.Context, string, map[core.ID][]float32) error { return errRepo }
func (failingRepo) CountEmbeddings(context.Context, string) (int, error)               { return 0, errRepo }
func (failingRepo) DeleteEmbeddings(context.Context, string) (int, error)              { return 0, errRepo }
func (failingRepo) Close() error                                                       { return nil }

func TestNewCachedEmbedder_Validation(t *testing.T) {
	repo := setupRepo(t)

	_, err := NewCachedEmbedder(nil, repo)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewCachedEmbedder(mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewCachedEmbedder(mock.NewMockEmbedder(), repo, WithNamespace(""))
	assert.Error(t, err)
}

func TestCachedEmbedder_HitsSkipInner(t *testing.T) {
	ctx := context.Background()
	inner := mock.NewMockEmbedder()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	c, err := NewCachedEmbedder(inner, setupRepo(t), WithMetrics(m), WithLogger(nil))
	require.NoError(t, err)

	first, err := c.EmbedTexts(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.CallCount())
	assert.Equal(t, mock.DeterministicVector("alpha", mock.DefaultDimension), first[0])

	second, err := c.EmbedTexts(ctx, []string{"beta", "gamma", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.CallCount())
	assert.Equal(t, []string{"gamma"}, inner.Batches()[1])

	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])

	assert.Equal(t, 2.0, cacheCount(t, reg, metrics.CacheHit))
	assert.Equal(t, 3.0, cacheCount(t, reg, metrics.CacheMiss))
}

func TestCachedEmbedder_DuplicatesEmbeddedOnce(t *testing.T) {
	inner := mock.NewMockEmbedder()
	c, err := NewCachedEmbedder(inner, setupRepo(t))
	require.NoError(t, err)

	vectors, err := c.EmbedTexts(context.Background(), []string{"same", "other", "same"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Equal(t, [][]string{{"same", "other"}}, inner.Batches())
	assert.Equal(t, vectors[0], vectors[2])

	require.NotEmpty(t, vectors[0])
	want := vectors[2][0]
	vectors[0][0] = want + 1
	assert.Equal(t, want, vectors[2][0], "positions must not share backing arrays")
}

func TestCachedEmbedder_NamespacesIsolated(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	innerA := mock.NewMockEmbedder()
	innerB := mock.NewMockEmbedder()

	a, err := NewCachedEmbedder(innerA, repo, WithNamespace("a"))
	require.NoError(t, err)
	b, err := NewCachedEmbedder(innerB, repo, WithNamespace("b"))
	require.NoError(t, err)

	_, err = a.EmbedText(ctx, "text")
	require.NoError(t, err)
	_, err = b.EmbedText(ctx, "text")
	require.NoError(t, err)

	assert.Equal(t, 1, innerA.CallCount())
	assert.Equal(t, 1, innerB.CallCount())
}

func TestCachedEmbedder_InnerErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("service unavailable")

	inner := mock.NewMockEmbedder()
	inner.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) { return nil, boom }
	c, err := NewCachedEmbedder(inner, setupRepo(t))
	require.NoError(t, err)

	_, err = c.EmbedTexts(ctx, []string{"x"})
	assert.ErrorIs(t, err, boom)

	inner.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) { return [][]float32{}, nil }
	_, err = c.EmbedTexts(ctx, []string{"x"})
	assert.ErrorIs(t, err, core.ErrEmbeddingMismatch)
}

func TestCachedEmbedder_RepositoryFailureDegradesToMiss(t *testing.T) {
	inner := mock.NewMockEmbedder()
	c, err := NewCachedEmbedder(inner, failingRepo{})
	require.NoError(t, err)

	vectors, err := c.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, 1, inner.CallCount())
}

func TestCachedEmbedder_Empty(t *testing.T) {
	inner := mock.NewMockEmbedder()
	c, err := NewCachedEmbedder(inner, setupRepo(t))
	require.NoError(t, err)

	vectors, err := c.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Zero(t, inner.CallCount())
}
