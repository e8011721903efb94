// Package cache provides an ai.Embedder decorator that persists embeddings
// in a storage.EmbeddingRepository, so repeated analyses of the same texts
// skip the embedding service.
//
//	backend, err := badger.OpenBackend(dir, false)
//	repo, err := badger.NewEmbeddingRepository(backend)
//	embedder, err := cache.NewCachedEmbedder(provider.Embedder(), repo,
//	    cache.WithNamespace("openai/embeddinggemma"))
package cache
