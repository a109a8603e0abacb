package pipeline

import "github.com/cadenza-lang/cadenza/pkg/models"

// Aggregate combines per-unit results into a per-file verdict.
type Aggregate struct {
	// Verified is the AND over all units' verified predicates.
	Verified bool
	// WorstOutcome is the first encountered outcome that is not a
	// completed stage; VerificationCompleted when every unit completed.
	// Note the direction: unit outcomes merge first-distinct-wins while
	// file statuses merge last-distinct-wins (see Controller.Run).
	WorstOutcome models.PipelineOutcome
	// PerUnit maps unit names to their statistics.
	PerUnit map[string]models.PipelineStatistics
	// Total is the field-wise sum over all units.
	Total models.PipelineStatistics
}

// aggregate folds unit results. Every unit is always present: the caller
// runs all units with no early abort so statistics and diagnostics stay
// complete even after a failure.
func aggregate(results []UnitResult) Aggregate {
	agg := Aggregate{
		Verified:     true,
		WorstOutcome: models.OutcomeVerificationCompleted,
		PerUnit:      make(map[string]models.PipelineStatistics, len(results)),
	}

	for _, r := range results {
		agg.Verified = agg.Verified && r.Verified()
		if !r.Outcome.Completed() && agg.WorstOutcome == models.OutcomeVerificationCompleted {
			agg.WorstOutcome = r.Outcome
		}
		agg.PerUnit[r.Name] = r.Stats
		agg.Total = agg.Total.Add(r.Stats)
	}
	return agg
}
