package vectors

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/poiesic/semanalyzer/metrics"
)

// Cache memoizes loaded indexes for the life of the process, keyed by the
// resolved absolute path of the resource.
// Concurrent first requests for the same resource share a single load.
// Failed loads are not cached.
type Cache struct {
	mu      sync.RWMutex
	indexes map[string]*Index
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheMetrics records index loads.
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithCacheLogger sets a custom logger.
// Default is slog.Default().
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewCache creates an empty index cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		indexes: make(map[string]*Index),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the cached index for path, loading it on first use.
func (c *Cache) Load(path string, opts ...LoadOption) (*Index, error) {
	abs, key, err := cacheKey(path, opts)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	ix, ok := c.indexes[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.IndexLoad(metrics.IndexCached)
		return ix, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// Re-check: a load may have completed between RUnlock and Do.
		c.mu.RLock()
		ix, ok := c.indexes[key]
		c.mu.RUnlock()
		if ok {
			return ix, nil
		}

		ix, err := Load(abs, append(slices.Clip(opts), WithLogger(c.logger))...)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.indexes[key] = ix
		c.mu.Unlock()
		return ix, nil
	})
	if err != nil {
		c.metrics.IndexLoad(metrics.IndexFailed)
		return nil, err
	}

	if shared {
		c.metrics.IndexLoad(metrics.IndexShared)
	} else {
		c.metrics.IndexLoad(metrics.IndexLoaded)
	}
	return v.(*Index), nil
}

// Len returns the number of cached indexes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.indexes)
}

// Evict drops every cached index loaded from path.
func (c *Cache) Evict(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, ix := range c.indexes {
		if ix.Path() == abs {
			delete(c.indexes, key)
		}
	}
}

// cacheKey resolves path and folds in the options that change what is loaded.
func cacheKey(path string, opts []LoadOption) (abs, key string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve vector path: %w", err)
	}
	o := newLoadOptions(opts)
	if o.limit > 0 {
		return abs, fmt.Sprintf("%s#limit=%d", abs, o.limit), nil
	}
	return abs, abs, nil
}
