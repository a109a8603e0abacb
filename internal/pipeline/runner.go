package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cadenza-lang/cadenza/internal/cache"
	"github.com/cadenza-lang/cadenza/internal/config"
	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/vc"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// Runner drives one verification-condition unit through resolution, the
// optimization pre-passes, and solving.
type Runner struct {
	cfg    *config.Config
	engine vc.Engine
	// reporter receives engine diagnostics after realignment.
	reporter diagnostics.Reporter
	sink     Sink
	cache    *cache.DB
	log      *diagnostics.DebugLogger
}

// Sink is the runner's handle on the console sink, for the recovery banner.
type Sink interface {
	diagnostics.Reporter
	Banner(format string, args ...interface{})
	ErrorCount() int
}

// NewRunner creates a verification runner. The cache may be nil when
// incremental verification is off.
func NewRunner(cfg *config.Config, engine vc.Engine, sink Sink, db *cache.DB, log *diagnostics.DebugLogger) *Runner {
	return &Runner{
		cfg:      cfg,
		engine:   engine,
		reporter: diagnostics.NewRealignAdapter(sink),
		sink:     sink,
		cache:    db,
		log:      log,
	}
}

// RunUnit verifies one unit. The artifact name derived from (baseName,
// unit name) keys the incremental cache and names any on-disk dump; the
// runID keys the engine's per-run bookkeeping.
func (r *Runner) RunUnit(ctx context.Context, unit *vc.Unit, baseName string, runID uuid.UUID) UnitResult {
	start := time.Now()
	artifactKey := vc.ArtifactName(baseName, unit.Name)
	// The cache key is the hash of the unit as translated; the pre-passes
	// rewrite the text, so the hash is taken before anything runs.
	vcHash := unit.Hash()

	if r.cache != nil {
		if stats, hit, err := r.cache.Lookup(artifactKey, vcHash); err != nil {
			r.log.Log("cache lookup for %s failed: %v", artifactKey, err)
		} else if hit {
			r.log.Log("cache hit for %s", artifactKey)
			return UnitResult{
				Name:    unit.Name,
				Stats:   stats.AsCached(),
				Outcome: models.OutcomeVerificationCompleted,
				Elapsed: time.Since(start),
				Cached:  true,
			}
		}
	}

	outcome, diags, err := r.engine.ResolveAndTypecheck(ctx, unit)
	r.forward(diags)
	if err != nil {
		r.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return UnitResult{Name: unit.Name, Outcome: outcome, Elapsed: time.Since(start)}
	}

	switch outcome {
	case models.OutcomeDone:
		// Nothing to verify; success with empty statistics.
		return UnitResult{Name: unit.Name, Outcome: outcome, Elapsed: time.Since(start)}

	case models.OutcomeResolutionError, models.OutcomeTypeCheckingError:
		// The translator produced an internally malformed verification
		// condition; this is not a source program error. Re-run the
		// diagnostics from a byte-identical on-disk re-parse so the
		// messages carry correct positions. The outcome is unchanged.
		r.refreshDiagnostics(ctx, unit, baseName)
		return UnitResult{Name: unit.Name, Outcome: outcome, Elapsed: time.Since(start)}

	case models.OutcomeResolvedAndTypeChecked:
		// Fall through to the pre-passes and the solver.
	}

	if err := r.prePasses(ctx, unit); err != nil {
		r.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return UnitResult{Name: unit.Name, Outcome: outcome, Elapsed: time.Since(start)}
	}

	stats, outcome, diags, err := r.engine.InferAndVerify(ctx, unit, runID.String())
	r.forward(diags)
	if err != nil {
		r.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return UnitResult{Name: unit.Name, Outcome: models.OutcomeResolvedAndTypeChecked, Elapsed: time.Since(start)}
	}

	if r.cache != nil {
		if err := r.cache.Store(artifactKey, vcHash, stats); err != nil {
			r.log.Log("cache store for %s failed: %v", artifactKey, err)
		}
	}

	return UnitResult{Name: unit.Name, Stats: stats, Outcome: outcome, Elapsed: time.Since(start)}
}

// prePasses runs the optimization passes in their fixed order.
func (r *Runner) prePasses(ctx context.Context, unit *vc.Unit) error {
	if err := r.engine.EliminateDeadVariables(ctx, unit); err != nil {
		return err
	}
	if err := r.engine.CollectModSets(ctx, unit); err != nil {
		return err
	}
	if err := r.engine.CoalesceBlocks(ctx, unit); err != nil {
		return err
	}
	return r.engine.Inline(ctx, unit)
}

// refreshDiagnostics is the lowering-defect recovery procedure: dump the
// unit, announce it, re-parse the dump from disk, and resolve once more
// purely to surface line- and column-correct diagnostics.
func (r *Runner) refreshDiagnostics(ctx context.Context, unit *vc.Unit, baseName string) {
	path := vc.ArtifactPath(r.cfg.Output.DumpDir, baseName, unit.Name)
	if err := unit.Dump(path); err != nil {
		r.log.Log("recovery dump failed: %v", err)
		return
	}
	r.sink.Banner("internal translation defect in module %s; re-checking dumped conditions at %s", unit.Name, path)

	reparsed, err := r.engine.Parse(ctx, path)
	if err != nil {
		r.log.Log("recovery re-parse failed: %v", err)
		return
	}
	_, diags, err := r.engine.ResolveAndTypecheck(ctx, reparsed)
	if err != nil {
		r.log.Log("recovery re-resolve failed: %v", err)
		return
	}
	r.forward(diags)
}

func (r *Runner) forward(diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		r.reporter.Report(d)
	}
}
