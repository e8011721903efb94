// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package semanalyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/ai/cache"
	"github.com/poiesic/semanalyzer/ai/local"
	"github.com/poiesic/semanalyzer/ai/openai"
	"github.com/poiesic/semanalyzer/analogy"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/metrics"
	"github.com/poiesic/semanalyzer/profile"
	"github.com/poiesic/semanalyzer/report"
	"github.com/poiesic/semanalyzer/similarity"
	"github.com/poiesic/semanalyzer/storage"
	"github.com/poiesic/semanalyzer/storage/badger"
	"github.com/poiesic/semanalyzer/vectors"
)

// ErrSessionClosed is returned by operations on a closed Session.
var ErrSessionClosed = errors.New("session is closed")

// ProviderFactory builds the model provider for a session.
type ProviderFactory func(cfg *ai.Config) (ai.AIProvider, error)

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderLocal:
		return local.NewProvider(cfg)
	default:
		return openai.NewProvider(cfg)
	}
}

// WordQuery describes an exemplar word search.
type WordQuery struct {
	Near []string
	Far  []string
	TopN int
	// VectorPath overrides the session's vector resource when set.
	VectorPath string
}

// models holds everything a session constructs on first use.
type models struct {
	provider     ai.AIProvider
	ownsProvider bool
	backend      *badger.Backend
	repo         storage.EmbeddingRepository
	scorer       *similarity.Scorer
	profiler     *profile.Profiler
}

// Session owns the models and vector indexes used by the analyses.
// Models are constructed once, on the first operation that needs them,
// and shared read-only by every later call. A Session is safe for
// concurrent use.
type Session struct {
	aiConfig        *ai.Config
	providerFactory ProviderFactory
	provider        ai.AIProvider

	vectorCache *vectors.Cache
	vectorPath  string
	vectorLimit int
	engine      *analogy.Engine

	cacheDir       string
	cacheNamespace string
	repo           storage.EmbeddingRepository

	workers       int
	policy        profile.FailurePolicy
	retryAttempts int
	retryDelay    time.Duration
	progress      io.Writer

	metrics    *metrics.Metrics
	baseLogger *slog.Logger
	logger     *slog.Logger

	mu     sync.Mutex
	models atomic.Pointer[models]
	closed atomic.Bool
}

// Option configures a Session.
type Option func(*Session) error

// WithAIConfig sets the provider configuration. Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) Option {
	return func(s *Session) error {
		if cfg == nil {
			return errors.New("ai config must not be nil")
		}
		s.aiConfig = cfg
		return nil
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The caller keeps ownership: Close does not close it.
func WithProvider(provider ai.AIProvider) Option {
	return func(s *Session) error {
		s.provider = provider
		return nil
	}
}

// WithProviderFactory replaces NewProvider as the way the session builds
// its provider.
func WithProviderFactory(factory ProviderFactory) Option {
	return func(s *Session) error {
		if factory == nil {
			return errors.New("provider factory must not be nil")
		}
		s.providerFactory = factory
		return nil
	}
}

// WithVectorCache shares an index cache between sessions.
func WithVectorCache(c *vectors.Cache) Option {
	return func(s *Session) error {
		s.vectorCache = c
		return nil
	}
}

// WithVectorPath sets the default word vector resource.
func WithVectorPath(path string) Option {
	return func(s *Session) error {
		s.vectorPath = path
		return nil
	}
}

// WithVectorLimit reads at most n vocabulary entries. Zero means all.
func WithVectorLimit(n int) Option {
	return func(s *Session) error {
		if n < 0 {
			return fmt.Errorf("vector limit must not be negative, got %d", n)
		}
		s.vectorLimit = n
		return nil
	}
}

// WithEmbeddingCacheDir persists text embeddings in a Badger database
// under dir so repeated comparisons skip the embedding service.
func WithEmbeddingCacheDir(dir string) Option {
	return func(s *Session) error {
		s.cacheDir = dir
		return nil
	}
}

// WithEmbeddingRepository caches text embeddings in repo. The caller keeps
// ownership of repo.
func WithEmbeddingRepository(repo storage.EmbeddingRepository) Option {
	return func(s *Session) error {
		s.repo = repo
		return nil
	}
}

// WithEmbeddingNamespace partitions the embedding cache.
// Default is derived from the provider and embedding model.
func WithEmbeddingNamespace(namespace string) Option {
	return func(s *Session) error {
		s.cacheNamespace = namespace
		return nil
	}
}

// WithWorkers bounds how many units a batch processes concurrently.
func WithWorkers(n int) Option {
	return func(s *Session) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		s.workers = n
		return nil
	}
}

// WithFailurePolicy sets how profiling stage failures affect a unit.
func WithFailurePolicy(policy profile.FailurePolicy) Option {
	return func(s *Session) error {
		s.policy = policy
		return nil
	}
}

// WithRetry retries failing profiling stages.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(s *Session) error {
		if attempts < 1 {
			return profile.ErrInvalidMaxAttempts
		}
		s.retryAttempts = attempts
		s.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports profiling progress to w.
func WithProgress(w io.Writer) Option {
	return func(s *Session) error {
		s.progress = w
		return nil
	}
}

// WithMetrics records metrics for every component of the session.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) error {
		s.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// If logger is nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.baseLogger = logger
		return nil
	}
}

// NewSession creates a session. No model is constructed until an
// operation needs it.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		aiConfig:        ai.DefaultConfig(),
		providerFactory: NewProvider,
		workers:         1,
		policy:          profile.PartialResults,
		retryAttempts:   1,
		baseLogger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.aiConfig.Normalize()

	if s.vectorCache == nil {
		s.vectorCache = vectors.NewCache(
			vectors.WithCacheMetrics(s.metrics),
			vectors.WithCacheLogger(s.baseLogger),
		)
	}

	engine, err := analogy.NewEngine(analogy.WithLogger(s.baseLogger))
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.logger = s.baseLogger.With("component", "session")
	return s, nil
}

// AnalyzeWords ranks the vocabulary against the query's near and far
// words. The vector resource is loaded once per path and reused.
func (s *Session) AnalyzeWords(ctx context.Context, q WordQuery) (*report.WordReport, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	set := core.ExemplarSet{Positive: q.Near, Negative: q.Far}
	if err := core.ValidateWordQuery(set, q.TopN); err != nil {
		return nil, err
	}

	path := q.VectorPath
	if path == "" {
		path = s.vectorPath
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no vector path configured", core.ErrVectorResourceNotFound)
	}

	ix, err := s.vectorCache.Load(path, vectors.WithLimit(s.vectorLimit))
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Search(ctx, ix, set, q.TopN)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		s.logger.Warn("exemplar ignored", "err", w)
	}
	return report.NewWordReport(set, result), nil
}

// CompareTexts scores every pair of the near and far texts, taken together
// in that order, at the given granularity. At least two texts are required.
func (s *Session) CompareTexts(ctx context.Context, granularity core.Granularity, near, far []string) (*report.SimilarityReport, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if granularity == core.GranularityWord {
		return nil, fmt.Errorf("%w: use AnalyzeWords for words", core.ErrInvalidGranularity)
	}
	texts := make([]string, 0, len(near)+len(far))
	texts = append(texts, near...)
	texts = append(texts, far...)
	if err := core.ValidateTexts(texts, 2); err != nil {
		return nil, err
	}

	m, err := s.acquire()
	if err != nil {
		return nil, err
	}

	matrix, err := m.scorer.ComputeUnits(ctx, core.NewTextUnits(texts, granularity))
	if err != nil {
		return nil, err
	}
	return report.NewSimilarityReport(granularity, near, far, matrix), nil
}

// ProfileTexts profiles each text independently. Stage failures are
// reported per text in the result and never fail the call.
func (s *Session) ProfileTexts(ctx context.Context, texts []string) (*report.ProfileReport, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if err := core.ValidateTexts(texts, 1); err != nil {
		return nil, err
	}

	m, err := s.acquire()
	if err != nil {
		return nil, err
	}

	outcomes, err := m.profiler.ProfileMany(ctx, texts)
	if err != nil {
		return nil, err
	}
	return report.NewProfileReport(texts, outcomes), nil
}

// Close releases the models and caches built by the session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}
	m := s.models.Swap(nil)
	if m == nil {
		return nil
	}
	return m.close(s.logger)
}

// acquire returns the session's models, constructing them on first use.
// Concurrent first callers construct them once; a failed construction is
// not remembered and is retried by the next call.
func (s *Session) acquire() (*models, error) {
	if m := s.models.Load(); m != nil {
		return m, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if m := s.models.Load(); m != nil {
		return m, nil
	}

	start := time.Now()
	m, err := s.build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelInitialization, err)
	}
	s.models.Store(m)
	s.logger.Info("models initialized", "provider", s.providerName(), "elapsed", time.Since(start))
	return m, nil
}

// providerName labels the provider in logs; injected providers are not
// described by aiConfig.
func (s *Session) providerName() string {
	if s.provider != nil {
		return "injected"
	}
	return s.aiConfig.Provider
}

func (s *Session) build() (*models, error) {
	m := &models{provider: s.provider}
	if m.provider == nil {
		provider, err := s.providerFactory(s.aiConfig)
		if err != nil {
			return nil, err
		}
		m.provider = provider
		m.ownsProvider = true
	}

	embedder, err := s.buildEmbedder(m)
	if err != nil {
		m.close(s.logger)
		return nil, err
	}

	m.scorer, err = similarity.NewScorer(embedder,
		similarity.WithWorkers(s.workers),
		similarity.WithMetrics(s.metrics),
		similarity.WithLogger(s.baseLogger),
	)
	if err != nil {
		m.close(s.logger)
		return nil, err
	}

	profilerOpts := []profile.Option{
		profile.WithWorkers(s.workers),
		profile.WithFailurePolicy(s.policy),
		profile.WithRetry(s.retryAttempts, s.retryDelay),
		profile.WithMetrics(s.metrics),
		profile.WithLogger(s.baseLogger),
	}
	if s.progress != nil {
		profilerOpts = append(profilerOpts, profile.WithProgress(s.progress))
	}
	m.profiler, err = profile.NewProfiler(m.provider, profilerOpts...)
	if err != nil {
		m.close(s.logger)
		return nil, err
	}
	return m, nil
}

// buildEmbedder wraps the provider's embedder in the persistent cache when
// one is configured.
func (s *Session) buildEmbedder(m *models) (ai.Embedder, error) {
	repo := s.repo
	if repo == nil && s.cacheDir != "" {
		backend, err := badger.OpenBackend(s.cacheDir, false)
		if err != nil {
			return nil, err
		}
		m.backend = backend
		repo, err = badger.NewEmbeddingRepository(backend)
		if err != nil {
			return nil, err
		}
		m.repo = repo
	}
	if repo == nil {
		return m.provider.Embedder(), nil
	}

	namespace := s.cacheNamespace
	if namespace == "" {
		namespace = s.aiConfig.Provider + "/" + s.aiConfig.EmbeddingModel
	}
	return cache.NewCachedEmbedder(m.provider.Embedder(), repo,
		cache.WithNamespace(namespace),
		cache.WithMetrics(s.metrics),
		cache.WithLogger(s.baseLogger),
	)
}

func (m *models) close(logger *slog.Logger) error {
	if m.profiler != nil {
		m.profiler.Release()
	}
	if m.scorer != nil {
		m.scorer.Release()
	}

	var errs []error
	if m.ownsProvider && m.provider != nil {
		if err := m.provider.Close(); err != nil {
			logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if m.repo != nil {
		if err := m.repo.Close(); err != nil {
			logger.Error("error closing embedding repository", "err", err)
			errs = append(errs, err)
		}
	}
	if m.backend != nil {
		if err := m.backend.Close(); err != nil {
			logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
