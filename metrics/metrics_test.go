package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semanalyzer/core"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.IndexLoad(IndexLoaded)
	m.PairsScored(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { New(reg) }, "registering twice should panic")
}

func TestObserveStage(t *testing.T) {
	m := New(nil)

	m.ObserveStage(core.StageSentiment, 10*time.Millisecond, nil)
	m.ObserveStage(core.StageSentiment, 20*time.Millisecond, errors.New("boom"))
	m.ObserveStage(core.StageTheme, time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageFailures.WithLabelValues("sentiment")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.stageFailures.WithLabelValues("theme")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
}

func TestCounters(t *testing.T) {
	m := New(nil)

	m.CacheLookup(CacheHit, 2)
	m.CacheLookup(CacheMiss, 1)
	m.CacheLookup(CacheMiss, 0)
	m.UnitProfiled(UnitPartial)
	m.IndexLoad(IndexShared)
	m.PairsScored(6)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.embeddingCache.WithLabelValues(CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.embeddingCache.WithLabelValues(CacheMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unitsProfiled.WithLabelValues(UnitPartial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexLoads.WithLabelValues(IndexShared)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.pairsScored))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage(core.StageTopic, time.Second, errors.New("x"))
		m.IndexLoad(IndexFailed)
		m.CacheLookup(CacheHit, 1)
		m.UnitProfiled(UnitFailed)
		m.PairsScored(1)
	})
}
