package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/metrics"
	"github.com/poiesic/semanalyzer/vectors"
)

// Scorer computes the cosine similarity of every unordered pair in a set of
// texts. Texts are embedded in one batched call; rows of the upper triangle
// are scored on a worker pool when one is configured.
type Scorer struct {
	embedder ai.Embedder
	pool     *ants.Pool
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithWorkers scores up to n matrix rows concurrently.
// A value of 1 or less scores sequentially.
func WithWorkers(n int) Option {
	return func(s *Scorer) error {
		if s.pool != nil {
			s.pool.Release()
			s.pool = nil
		}
		if n <= 1 {
			return nil
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithMetrics records the number of pairs scored.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scorer) error {
		s.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// If logger is nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "similarity")
		return nil
	}
}

// NewScorer creates a scorer that embeds texts with embedder.
func NewScorer(embedder ai.Embedder, opts ...Option) (*Scorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Scorer{
		embedder: embedder,
		logger:   slog.Default().With("component", "similarity"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}
	return s, nil
}

// Release releases the worker pool, if any.
// The scorer should not be used after calling Release.
func (s *Scorer) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Compute scores texts as sentence units.
func (s *Scorer) Compute(ctx context.Context, texts []string) (*core.SimilarityMatrix, error) {
	return s.ComputeUnits(ctx, core.NewTextUnits(texts, core.GranularitySentence))
}

// ComputeUnits returns the similarity of every pair (a, b), a < b, ordered
// (0,1), (0,2) ... (n-2,n-1). At least two units are required. Duplicate
// contents are embedded at each position.
func (s *Scorer) ComputeUnits(ctx context.Context, units []core.TextUnit) (*core.SimilarityMatrix, error) {
	if len(units) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 texts, got %d", core.ErrEmptyInput, len(units))
	}

	texts := make([]string, len(units))
	for i, unit := range units {
		texts[i] = unit.Content
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		s.logger.Error("failed to embed texts", "count", len(texts), "err", err)
		return nil, fmt.Errorf("embed texts: %w", err)
	}
	if err := checkEmbeddings(embeddings, len(texts)); err != nil {
		return nil, err
	}

	n := len(units)
	norms := make([]float64, n)
	for i, v := range embeddings {
		norms[i] = vectors.Norm(v)
	}

	scores := make([]core.PairwiseScore, core.PairCount(n))
	scoreRow := func(a int) {
		offset := core.PairOffset(n, a, a+1)
		for b := a + 1; b < n; b++ {
			scores[offset+b-a-1] = core.PairwiseScore{
				A:     a,
				B:     b,
				Score: vectors.CosineWithNorms(embeddings[a], embeddings[b], norms[a], norms[b]),
			}
		}
	}

	if s.pool == nil {
		for a := 0; a < n-1; a++ {
			scoreRow(a)
		}
	} else {
		var wg sync.WaitGroup
		for a := 0; a < n-1; a++ {
			wg.Add(1)
			row := a
			if err := s.pool.Submit(func() {
				defer wg.Done()
				scoreRow(row)
			}); err != nil {
				// Pool closed or overloaded: score inline.
				s.logger.Warn("worker pool rejected row", "row", row, "err", err)
				scoreRow(row)
				wg.Done()
			}
		}
		wg.Wait()
	}

	s.metrics.PairsScored(len(scores))
	s.logger.Debug("scored pairs", "units", n, "pairs", len(scores))

	return &core.SimilarityMatrix{Units: units, Scores: scores}, nil
}

// checkEmbeddings verifies one vector per text, all of the same non-zero width.
func checkEmbeddings(embeddings [][]float32, want int) error {
	if len(embeddings) != want {
		return fmt.Errorf("%w: got %d embeddings for %d texts", core.ErrEmbeddingMismatch, len(embeddings), want)
	}
	dim := len(embeddings[0])
	if dim == 0 {
		return fmt.Errorf("%w: empty embedding", core.ErrEmbeddingMismatch)
	}
	for i, v := range embeddings {
		if len(v) != dim {
			return fmt.Errorf("%w: embedding %d has dimension %d, expected %d", core.ErrEmbeddingMismatch, i, len(v), dim)
		}
	}
	return nil
}
