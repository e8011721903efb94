package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/storage"
)

func setupEmbeddingRepo(t *testing.T) storage.EmbeddingRepository {
	t.Helper()
	repo, backend, err := NewMemoryEmbeddingRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestNewEmbeddingRepository_NilBackend(t *testing.T) {
	_, err := NewEmbeddingRepository(nil)
	assert.Error(t, err)
}

func TestEmbeddingRepository_PutGet(t *testing.T) {
	repo := setupEmbeddingRepo(t)
	ctx := context.Background()

	a := core.IDFromContent("alpha")
	b := core.IDFromContent("beta")
	missing := core.IDFromContent("gamma")

	err := repo.PutEmbeddings(ctx, "model-a", map[core.ID][]float32{
		a: {1, 2, 3},
		b: {4, 5, 6},
	})
	require.NoError(t, err)

	found, err := repo.GetEmbeddings(ctx, "model-a", a, b, missing)
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []float32{1, 2, 3}, found[a])
	assert.Equal(t, []float32{4, 5, 6}, found[b])
	assert.NotContains(t, found, missing)

	t.Run("namespaces are isolated", func(t *testing.T) {
		found, err := repo.GetEmbeddings(ctx, "model-b", a, b)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, repo.PutEmbeddings(ctx, "model-a", map[core.ID][]float32{a: {9}}))
		found, err := repo.GetEmbeddings(ctx, "model-a", a)
		require.NoError(t, err)
		assert.Equal(t, []float32{9}, found[a])
	})
}

func TestEmbeddingRepository_EmptyNamespace(t *testing.T) {
	repo := setupEmbeddingRepo(t)
	ctx := context.Background()

	_, err := repo.GetEmbeddings(ctx, "", 1)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	err = repo.PutEmbeddings(ctx, "", map[core.ID][]float32{1: {1}})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = repo.CountEmbeddings(ctx, "")
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestEmbeddingRepository_CountDelete(t *testing.T) {
	repo := setupEmbeddingRepo(t)
	ctx := context.Background()

	vectors := map[core.ID][]float32{}
	for _, text := range []string{"one", "two", "three"} {
		vectors[core.IDFromContent(text)] = []float32{1}
	}
	require.NoError(t, repo.PutEmbeddings(ctx, "keep", map[core.ID][]float32{1: {1}}))
	require.NoError(t, repo.PutEmbeddings(ctx, "drop", vectors))

	count, err := repo.CountEmbeddings(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	deleted, err := repo.DeleteEmbeddings(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	count, err = repo.CountEmbeddings(ctx, "drop")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountEmbeddings(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	deleted, err = repo.DeleteEmbeddings(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
