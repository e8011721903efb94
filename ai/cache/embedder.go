package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/metrics"
	"github.com/poiesic/semanalyzer/storage"
)

// DefaultNamespace partitions cached vectors when no namespace is given.
const DefaultNamespace = "default"

var (
	// ErrEmbedderRequired is returned when no inner embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRepositoryRequired is returned when no embedding repository is supplied.
	ErrRepositoryRequired = errors.New("embedding repository is required")
)

// CachedEmbedder decorates an ai.Embedder with a persistent cache keyed by
// the content ID of each text. Only cache misses reach the inner embedder,
// in one batched call per request. Repository failures degrade to misses.
type CachedEmbedder struct {
	inner     ai.Embedder
	repo      storage.EmbeddingRepository
	namespace string
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

var _ ai.Embedder = (*CachedEmbedder)(nil)

// Option configures a CachedEmbedder.
type Option func(*CachedEmbedder) error

// WithNamespace isolates cached vectors, typically per provider and model.
func WithNamespace(namespace string) Option {
	return func(c *CachedEmbedder) error {
		if namespace == "" {
			return errors.New("cache namespace must not be empty")
		}
		c.namespace = namespace
		return nil
	}
}

// WithMetrics records hit and miss counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *CachedEmbedder) error {
		c.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// If logger is nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "embedding-cache")
		return nil
	}
}

// NewCachedEmbedder wraps inner with a cache stored in repo.
func NewCachedEmbedder(inner ai.Embedder, repo storage.EmbeddingRepository, opts ...Option) (*CachedEmbedder, error) {
	if inner == nil {
		return nil, ErrEmbedderRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	c := &CachedEmbedder{
		inner:     inner,
		repo:      repo,
		namespace: DefaultNamespace,
		logger:    slog.Default().With("component", "embedding-cache"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EmbedText returns the cached vector for text or embeds and stores it.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts returns one vector per input position. Repeated texts are
// embedded once; every position receives its own copy of the vector.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	ids := make([]core.ID, len(texts))
	unique := make([]core.ID, 0, len(texts))
	seen := make(map[core.ID]struct{}, len(texts))
	for i, text := range texts {
		ids[i] = core.IDFromContent(text)
		if _, ok := seen[ids[i]]; !ok {
			seen[ids[i]] = struct{}{}
			unique = append(unique, ids[i])
		}
	}

	cached, err := c.repo.GetEmbeddings(ctx, c.namespace, unique...)
	if err != nil {
		c.logger.Warn("failed to read cached embeddings", "count", len(unique), "err", err)
		cached = map[core.ID][]float32{}
	}

	var missTexts []string
	var missIDs []core.ID
	for i, id := range ids {
		if _, ok := cached[id]; ok {
			continue
		}
		if _, queued := seen[id]; !queued {
			continue
		}
		delete(seen, id)
		missTexts = append(missTexts, texts[i])
		missIDs = append(missIDs, id)
	}

	c.metrics.CacheLookup(metrics.CacheHit, len(unique)-len(missIDs))
	c.metrics.CacheLookup(metrics.CacheMiss, len(missIDs))
	c.logger.Debug("embedding cache lookup", "unique", len(unique), "misses", len(missIDs))

	if len(missTexts) > 0 {
		computed, err := c.inner.EmbedTexts(ctx, missTexts)
		if err != nil {
			return nil, fmt.Errorf("embed texts: %w", err)
		}
		if len(computed) != len(missTexts) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts",
				core.ErrEmbeddingMismatch, len(computed), len(missTexts))
		}

		fresh := make(map[core.ID][]float32, len(missIDs))
		for i, id := range missIDs {
			fresh[id] = computed[i]
			cached[id] = computed[i]
		}
		if err := c.repo.PutEmbeddings(ctx, c.namespace, fresh); err != nil {
			c.logger.Warn("failed to cache embeddings", "count", len(fresh), "err", err)
		}
	}

	out := make([][]float32, len(texts))
	for i, id := range ids {
		out[i] = slices.Clone(cached[id])
	}
	return out, nil
}
