package profile

import (
	"time"

	"github.com/poiesic/semanalyzer/core"
)

// Monitor provides hooks to observe profiling.
// Implementations must be safe for concurrent use when the profiler runs
// with more than one worker.
type Monitor interface {
	StartUnit(unit core.TextUnit)
	StageFinished(unit core.TextUnit, stage core.Stage, elapsed time.Duration, err error)
	FinishUnit(unit core.TextUnit, profile *core.QualitativeProfile, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) StartUnit(_ core.TextUnit)                                          {}
func (n *noopMonitor) StageFinished(_ core.TextUnit, _ core.Stage, _ time.Duration, _ error) {}
func (n *noopMonitor) FinishUnit(_ core.TextUnit, _ *core.QualitativeProfile, _ error)      {}
