package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/cadenza-lang/cadenza/internal/backend"
	"github.com/cadenza-lang/cadenza/internal/config"
	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/frontend"
	"github.com/cadenza-lang/cadenza/internal/snapshots"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// Controller is the top-level pipeline entry point. One controller handles
// one invocation; recursion for separate mode and snapshot groups happens
// through derived controllers sharing the same collaborators.
type Controller struct {
	cfg        *config.Config
	front      frontend.Frontend
	translator frontend.Translator
	runner     *Runner
	dispatcher *backend.Dispatcher
	sink       Sink
	log        *diagnostics.DebugLogger

	// fileReports collects per-file aggregates for the YAML report.
	fileReports []FileReport
}

// NewController wires a controller from its collaborators.
func NewController(cfg *config.Config, front frontend.Frontend, translator frontend.Translator, runner *Runner, dispatcher *backend.Dispatcher, sink Sink, log *diagnostics.DebugLogger) *Controller {
	return &Controller{
		cfg:        cfg,
		front:      front,
		translator: translator,
		runner:     runner,
		dispatcher: dispatcher,
		sink:       sink,
		log:        log,
	}
}

// Run verifies (and optionally compiles) the given files and returns the
// final status. Exactly one status is produced per invocation.
func (c *Controller) Run(ctx context.Context, files []models.SourceDescriptor, programName string) models.ExitStatus {
	sources := models.SourceFiles(files)

	if c.cfg.Verification.Separate && len(sources) > 1 {
		return c.runSeparate(ctx, files)
	}
	if c.cfg.Verification.Snapshots {
		return c.runSnapshotGroups(ctx, files)
	}
	return c.runOne(ctx, files, programName)
}

// runSeparate recurses once per source file. The merged status keeps the
// last distinct non-Verified status; callers needing per-file detail must
// inspect per-file results, since the merge discards all but the most
// recent distinct failure.
func (c *Controller) runSeparate(ctx context.Context, files []models.SourceDescriptor) models.ExitStatus {
	aux := nonSourceFiles(files)

	status := models.ExitVerified
	for _, f := range models.SourceFiles(files) {
		single := append([]models.SourceDescriptor{f}, aux...)
		status = status.Merge(c.Run(ctx, single, f.BaseName()))
	}
	return status
}

// runSnapshotGroups discovers snapshot lineages among the files and runs
// each group as an independent invocation with snapshot lookup disabled,
// to avoid re-grouping. The merge rule matches runSeparate.
func (c *Controller) runSnapshotGroups(ctx context.Context, files []models.SourceDescriptor) models.ExitStatus {
	groups := snapshots.Discover(files)
	aux := nonSourceFiles(files)

	// The recursive calls share every collaborator but have snapshot
	// lookup switched off.
	sub := *c.cfg
	sub.Verification.Snapshots = false
	derived := *c
	derived.cfg = &sub
	derived.fileReports = nil

	status := models.ExitVerified
	for _, g := range groups {
		groupFiles := append(g.Files(), aux...)
		groupStatus := derived.Run(ctx, groupFiles, g.Members[0].Desc.BaseName())
		c.fileReports = append(c.fileReports, derived.fileReports...)
		derived.fileReports = nil
		status = status.Merge(groupStatus)
	}
	return status
}

// runOne is the base case: translate, verify every unit, aggregate, and
// dispatch code generation gated on the verdict.
func (c *Controller) runOne(ctx context.Context, files []models.SourceDescriptor, programName string) models.ExitStatus {
	prog, errString := c.front.ParseCheck(ctx, files, programName, c.sink)
	if errString != "" {
		// A failed lowering short-circuits verification and code-gen.
		c.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: errString})
		return models.ExitCompileError
	}

	units, err := c.translator.Translate(ctx, prog)
	if err != nil {
		c.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return models.ExitCompileError
	}

	runID := uuid.New()
	results := make([]UnitResult, 0, len(units))
	for i := range units {
		// Every unit runs: no early abort, so statistics and
		// diagnostics stay complete for the whole file.
		res := c.runner.RunUnit(ctx, &units[i], programName, runID)
		if c.cfg.Verification.TraceTimes {
			c.sink.Banner("module %s: %s", res.Name, res.Elapsed)
		}
		results = append(results, res)
	}

	agg := aggregate(results)
	c.fileReports = append(c.fileReports, FileReport{
		Program:  programName,
		Verified: agg.Verified,
		Units:    agg.PerUnit,
		Total:    agg.Total,
	})
	c.log.Log("program %s: verified=%v outcome=%v", programName, agg.Verified, agg.WorstOutcome)

	if !agg.WorstOutcome.Completed() {
		// A unit stopped before solving; the defect was already
		// reported and code generation is skipped entirely.
		return models.ExitNotVerified
	}

	disp := c.dispatcher.Dispatch(ctx, agg.WorstOutcome, agg.Total, prog, agg.Verified)
	return mapStatus(agg.Verified, disp)
}

// mapStatus combines the verification verdict with the dispatch result.
func mapStatus(verified bool, disp backend.Result) models.ExitStatus {
	if disp.WriteErr != nil {
		return models.ExitCompileOutputError
	}
	if disp.BuildAttempted && !disp.BuildSucceeded {
		// A native build failure is a compile error even after a
		// successful verification.
		return models.ExitCompileError
	}
	if !verified {
		return models.ExitNotVerified
	}
	return models.ExitVerified
}

// Reports returns the per-file aggregates collected by this controller.
func (c *Controller) Reports() []FileReport {
	return c.fileReports
}

// nonSourceFiles returns the auxiliary native inputs, which accompany
// every recursive invocation.
func nonSourceFiles(files []models.SourceDescriptor) []models.SourceDescriptor {
	var out []models.SourceDescriptor
	for _, f := range files {
		if f.Kind != models.KindSource {
			out = append(out, f)
		}
	}
	return out
}
