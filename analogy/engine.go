package analogy

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/vectors"
)

const cancelCheckInterval = 8192

// VectorSpace is the read-only view of a vector index the engine searches.
// *vectors.Index satisfies it.
type VectorSpace interface {
	Lookup(token string) (core.WordVector, bool)
	Entry(i int) (core.WordVector, float64)
	Len() int
	Dim() int
}

// Result holds the ranked matches of a search along with the exemplars that
// were actually used and a warning for each one that was dropped.
type Result struct {
	Matches  []core.RankedMatch
	Positive []string
	Negative []string
	Warnings []error
}

// Engine performs exemplar arithmetic searches over a vector space.
// It holds no per-search state and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "analogy-engine")
	return e, nil
}

// Search ranks vocabulary entries by cosine similarity to
// mean(positive) − mean(negative) and returns the best topK of them.
//
// Exemplar tokens never appear in the results. Unknown exemplars are dropped
// and reported in Result.Warnings. Matches are ordered by descending score,
// ties broken by ascending token.
func (e *Engine) Search(ctx context.Context, space VectorSpace, set core.ExemplarSet, topK int) (*Result, error) {
	if err := core.ValidateWordQuery(set, topK); err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrVectorSpaceRequired
	}

	result := &Result{}
	positive := e.resolve(space, set.Positive, "positive", result)
	negative := e.resolve(space, set.Negative, "negative", result)
	if len(positive) == 0 && len(negative) == 0 {
		return nil, fmt.Errorf("%w: none of the exemplars are in the vocabulary", core.ErrEmptyExemplarSet)
	}

	dim := space.Dim()
	target := vectors.Subtract(vectors.Mean(positive, dim), vectors.Mean(negative, dim))
	targetNorm := vectors.Norm(target)

	e.logger.Debug("searching vector space",
		"positive", result.Positive,
		"negative", result.Negative,
		"topK", topK,
		"vocabulary", space.Len())

	top := make(matchHeap, 0, min(topK, space.Len()))
	for i := 0; i < space.Len(); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		entry, norm := space.Entry(i)
		if set.Contains(entry.Token) {
			continue
		}
		candidate := core.RankedMatch{
			Token: entry.Token,
			Score: vectors.CosineWithNorms(target, entry.Vector, targetNorm, norm),
		}

		if len(top) < topK {
			heap.Push(&top, candidate)
			continue
		}
		if better(candidate, top[0]) {
			top[0] = candidate
			heap.Fix(&top, 0)
		}
	}

	matches := []core.RankedMatch(top)
	slices.SortFunc(matches, compareMatches)
	result.Matches = matches

	e.logger.Debug("search complete", "matches", len(matches), "dropped", len(result.Warnings))
	return result, nil
}

// resolve looks up each token, recording the ones that were found on result
// and a warning for each one that was not.
func (e *Engine) resolve(space VectorSpace, tokens []string, side string, result *Result) [][]float32 {
	found := make([][]float32, 0, len(tokens))
	for _, token := range tokens {
		wv, ok := space.Lookup(token)
		if !ok {
			e.logger.Warn("exemplar not in vocabulary, ignoring", "token", token, "side", side)
			result.Warnings = append(result.Warnings, &core.UnknownTokenError{Token: token, Side: side})
			continue
		}
		found = append(found, wv.Vector)
		if side == "positive" {
			result.Positive = append(result.Positive, token)
		} else {
			result.Negative = append(result.Negative, token)
		}
	}
	return found
}

// better reports whether a ranks ahead of b.
func better(a, b core.RankedMatch) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Token < b.Token
}

func compareMatches(a, b core.RankedMatch) int {
	switch {
	case better(a, b):
		return -1
	case better(b, a):
		return 1
	default:
		return 0
	}
}

// matchHeap keeps the current top-k with the weakest match at the root.
type matchHeap []core.RankedMatch

func (h matchHeap) Len() int           { return len(h) }
func (h matchHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h matchHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *matchHeap) Push(x any) {
	*h = append(*h, x.(core.RankedMatch))
}

func (h *matchHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
