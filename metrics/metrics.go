// Package metrics holds the Prometheus collectors for analysis operations.
//
// All recording methods are safe to call on a nil *Metrics, so components
// can carry an optional metrics handle without guarding every call site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/poiesic/semanalyzer/core"
)

const namespace = "semanalyzer"

// Index load results.
const (
	IndexLoaded = "loaded"
	IndexCached = "cached"
	IndexShared = "shared"
	IndexFailed = "error"
)

// Embedding cache results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Unit outcomes.
const (
	UnitComplete = "complete"
	UnitPartial  = "partial"
	UnitFailed   = "failed"
)

// Metrics is the set of collectors registered for one process or session.
type Metrics struct {
	stageDuration  *prometheus.HistogramVec
	stageFailures  *prometheus.CounterVec
	indexLoads     *prometheus.CounterVec
	embeddingCache *prometheus.CounterVec
	unitsProfiled  *prometheus.CounterVec
	pairsScored    prometheus.Counter
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of qualitative profiling stages",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Profiling stages that failed after retries",
		}, []string{"stage"}),

		indexLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_loads_total",
			Help:      "Vector index requests by result",
		}, []string{"result"}),

		embeddingCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by result",
		}, []string{"result"}),

		unitsProfiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_profiled_total",
			Help:      "Text units profiled by outcome",
		}, []string{"outcome"}),

		pairsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_scored_total",
			Help:      "Unordered text pairs scored for similarity",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.stageDuration, m.stageFailures,
			m.indexLoads, m.embeddingCache,
			m.unitsProfiled, m.pairsScored,
		)
	}

	return m
}

// ObserveStage records a stage's latency and, when err is non-nil, its failure.
func (m *Metrics) ObserveStage(stage core.Stage, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
	if err != nil {
		m.stageFailures.WithLabelValues(string(stage)).Inc()
	}
}

// IndexLoad counts a vector index request.
func (m *Metrics) IndexLoad(result string) {
	if m == nil {
		return
	}
	m.indexLoads.WithLabelValues(result).Inc()
}

// CacheLookup counts embedding cache lookups.
func (m *Metrics) CacheLookup(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.embeddingCache.WithLabelValues(result).Add(float64(n))
}

// UnitProfiled counts a profiled unit by outcome.
func (m *Metrics) UnitProfiled(outcome string) {
	if m == nil {
		return
	}
	m.unitsProfiled.WithLabelValues(outcome).Inc()
}

// PairsScored counts scored similarity pairs.
func (m *Metrics) PairsScored(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.pairsScored.Add(float64(n))
}
