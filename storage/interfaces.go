package storage

import (
	"context"

	"github.com/poiesic/semanalyzer/core"
)

// EmbeddingRepository persists text embeddings keyed by content ID.
// Embeddings are partitioned by namespace so vectors produced by different
// models never mix. Implementations must be thread-safe and support
// concurrent access.
type EmbeddingRepository interface {
	// GetEmbeddings returns the stored vectors for the given IDs.
	// IDs without a stored vector are absent from the result (no error).
	GetEmbeddings(ctx context.Context, namespace string, ids ...core.ID) (map[core.ID][]float32, error)

	// PutEmbeddings stores vectors, replacing any previous value per ID.
	PutEmbeddings(ctx context.Context, namespace string, vectors map[core.ID][]float32) error

	// CountEmbeddings returns how many vectors are stored in namespace.
	CountEmbeddings(ctx context.Context, namespace string) (int, error)

	// DeleteEmbeddings removes every vector in namespace and returns the
	// number removed.
	DeleteEmbeddings(ctx context.Context, namespace string) (int, error)

	// Close releases resources held by the repository. It does not close
	// a backend shared with other repositories.
	Close() error
}
