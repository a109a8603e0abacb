// Package pipeline is the controller core: it sequences translation,
// per-unit verification, result aggregation, and code-gen dispatch, and
// maps the combined result to an exit status. Multi-file separate mode and
// snapshot groups recurse through the same entry point.
package pipeline

import (
	"time"

	"github.com/cadenza-lang/cadenza/pkg/models"
)

// UnitResult is the single combined result of verifying one unit: outcome,
// statistics, and timing together, never partially-initialized out-state.
type UnitResult struct {
	// Name is the unit's module name.
	Name string
	// Stats are the unit's solver counters.
	Stats models.PipelineStatistics
	// Outcome is the stage the unit reached.
	Outcome models.PipelineOutcome
	// Elapsed is the wall time the unit took, for per-module reporting.
	Elapsed time.Duration
	// Cached reports whether the result was replayed from the
	// incremental cache.
	Cached bool
}

// Verified is the unit-level success predicate: a completed outcome and no
// nonzero failure counter of any kind.
func (r UnitResult) Verified() bool {
	return r.Outcome.Completed() && r.Stats.Clean()
}
