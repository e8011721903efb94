package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// newEmbeddingRepository is an internal constructor that returns the concrete type.
func newEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	if backend == nil {
		return nil, errors.New("badger backend is required")
	}
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// NewEmbeddingRepository creates a new embedding repository on backend.
// The caller keeps ownership of backend and closes it after the repository.
func NewEmbeddingRepository(backend *Backend) (storage.EmbeddingRepository, error) {
	return newEmbeddingRepository(backend)
}

// Close releases resources. EmbeddingRepository has no resources to release.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// GetEmbeddings retrieves the vectors stored for ids in namespace.
func (r *EmbeddingRepository) GetEmbeddings(ctx context.Context, namespace string, ids ...core.ID) (map[core.ID][]float32, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: empty namespace", storage.ErrInvalidQuery)
	}

	found := make(map[core.ID][]float32, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeEmbeddingKey(namespace, id))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			err = item.Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				found[id] = vector
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// PutEmbeddings stores vectors in namespace in a single transaction.
func (r *EmbeddingRepository) PutEmbeddings(ctx context.Context, namespace string, vectors map[core.ID][]float32) error {
	if namespace == "" {
		return fmt.Errorf("%w: empty namespace", storage.ErrInvalidQuery)
	}
	if len(vectors) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for id, vector := range vectors {
			if err := tx.Set(makeEmbeddingKey(namespace, id), storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountEmbeddings counts the keys under the namespace prefix without
// reading values.
func (r *EmbeddingRepository) CountEmbeddings(ctx context.Context, namespace string) (int, error) {
	if namespace == "" {
		return 0, fmt.Errorf("%w: empty namespace", storage.ErrInvalidQuery)
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeEmbeddingNamespacePrefix(namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return ctx.Err()
	}, false)
	return count, err
}

// DeleteEmbeddings drops every vector stored in namespace.
func (r *EmbeddingRepository) DeleteEmbeddings(ctx context.Context, namespace string) (int, error) {
	count, err := r.CountEmbeddings(ctx, namespace)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	if err := r.backend.DropPrefix(makeEmbeddingNamespacePrefix(namespace)); err != nil {
		return 0, err
	}
	r.backend.logger.Info("deleted cached embeddings", "namespace", namespace, "count", count)
	return count, nil
}
