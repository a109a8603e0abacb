package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadenza-lang/cadenza/internal/config"
	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/exec"
	"github.com/cadenza-lang/cadenza/internal/frontend"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// Sink is the dispatcher's view of the diagnostic sink: reporting plus the
// error counter used to detect new errors during generation.
type Sink interface {
	diagnostics.Reporter
	ErrorCount() int
	Banner(format string, args ...interface{})
}

// Result is the tagged outcome of one dispatch: it distinguishes output
// persistence failure, build failure, and a runtime fault of the executed
// artifact, instead of folding them into one boolean.
type Result struct {
	// Generated reports whether target source was produced.
	Generated bool
	// Complete reports whether generation finished without new errors.
	// Partial output is best-effort and never built.
	Complete bool
	// OutputPath is where generated source was persisted, when it was.
	OutputPath string
	// WriteErr is set when persisting generated source failed.
	WriteErr error
	// BuildAttempted and BuildSucceeded describe the native build step.
	BuildAttempted bool
	BuildSucceeded bool
	// ArtifactPath is the built artifact, when a build succeeded.
	ArtifactPath string
	// Ran and RunFault describe the run-after-build step. A runtime
	// fault does not change the build verdict.
	Ran      bool
	RunFault error

	generatedSource []byte
}

// Dispatcher decides whether to generate code, persists it, and drives the
// native build and optional execution.
type Dispatcher struct {
	cfg       *config.Config
	gen       frontend.CodeGenerator
	toolchain Toolchain
	runner    exec.Runner
	sink      Sink
	log       *diagnostics.DebugLogger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg *config.Config, gen frontend.CodeGenerator, runner exec.Runner, sink Sink, log *diagnostics.DebugLogger) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		gen:       gen,
		toolchain: Toolchain{CC: cfg.Tools.CC, Runner: runner},
		runner:    runner,
		sink:      sink,
		log:       log,
	}
}

// Dispatch runs code generation and the native build for a program whose
// verification reached outcome with the given verdict. It is only
// reachable when the outcome is a completed stage; any other outcome
// already reported an error and skips code generation entirely.
func (d *Dispatcher) Dispatch(ctx context.Context, outcome models.PipelineOutcome, stats models.PipelineStatistics, prog *frontend.Program, verified bool) Result {
	if !outcome.Completed() {
		return Result{}
	}

	compileIt := (d.cfg.Compilation.Compile && verified && d.cfg.Verification.Procs == "") ||
		d.cfg.Compilation.ForceCompile
	spill := d.cfg.Compilation.SpillLevel
	spillIt := spill >= 2 || (spill >= 1 && verified)

	if !compileIt && !spillIt {
		return Result{}
	}

	b, err := Select(d.cfg.Compilation.Backend)
	if err != nil {
		d.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return Result{}
	}

	res := d.generate(ctx, prog, b)
	if !res.Generated {
		return res
	}

	// Partial output is a best-effort dump: persisted only at the highest
	// spill level, and the native build is unconditionally skipped.
	persist := res.Complete && (compileIt || spillIt) || !res.Complete && spill >= 3
	if persist {
		d.persist(prog, b, &res)
	}

	if compileIt && res.Complete && b.NeedsBuild && res.WriteErr == nil {
		d.build(ctx, prog, &res)
	}

	if d.cfg.Compilation.RunAfterBuild && res.BuildSucceeded && prog.HasMain {
		d.runArtifact(ctx, &res)
	}

	return res
}

// generate invokes the code generator and classifies the output as
// complete or partial by whether the error count changed.
func (d *Dispatcher) generate(ctx context.Context, prog *frontend.Program, b Backend) Result {
	errorsBefore := d.sink.ErrorCount()

	source, diags, err := d.gen.Generate(ctx, prog, b.Name)
	for _, diag := range diags {
		d.sink.Report(diag)
	}
	if err != nil {
		d.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return Result{}
	}

	complete := d.sink.ErrorCount() == errorsBefore
	if !complete {
		d.log.Log("code generation for %s produced new errors; output is partial", prog.Name)
	}
	return Result{Generated: true, Complete: complete, generatedSource: source}
}

// persist writes generated source next to the input file, with the input's
// extension replaced by the backend's canonical extension.
func (d *Dispatcher) persist(prog *frontend.Program, b Backend, res *Result) {
	sources := models.SourceFiles(prog.Files)
	if len(sources) == 0 {
		res.WriteErr = fmt.Errorf("no source file to derive output path from")
		return
	}
	in := sources[0].Path
	out := strings.TrimSuffix(in, filepath.Ext(in)) + b.Extension

	if err := os.WriteFile(out, res.generatedSource, 0644); err != nil {
		res.WriteErr = fmt.Errorf("write generated source: %w", err)
		d.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: res.WriteErr.Error()})
		return
	}
	res.OutputPath = out
	d.log.Log("wrote %s target to %s (complete=%v)", b.Name, out, res.Complete)
}

// build runs the native toolchain over the persisted source plus any
// auxiliary native inputs from the command line.
func (d *Dispatcher) build(ctx context.Context, prog *frontend.Program, res *Result) {
	res.BuildAttempted = true

	var natives, libs []string
	for _, f := range models.NativeSources(prog.Files) {
		natives = append(natives, f.Path)
	}
	for _, f := range models.NativeLibraries(prog.Files) {
		libs = append(libs, f.Path)
	}

	shared := !prog.HasMain
	spec := BuildSpec{
		GeneratedSource: res.OutputPath,
		NativeSources:   natives,
		Libraries:       libs,
		Output:          ArtifactPath(res.OutputPath, shared),
		Shared:          shared,
		DebugSymbols:    d.cfg.Compilation.DebugSymbols,
		Optimize:        d.cfg.Compilation.Optimize,
		RuntimeDir:      d.cfg.Compilation.RuntimeDir,
	}

	if err := d.toolchain.Build(ctx, spec); err != nil {
		d.sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		return
	}
	res.BuildSucceeded = true
	res.ArtifactPath = spec.Output
	d.log.Log("built %s", spec.Output)
}

// runArtifact executes the built artifact. A runtime fault is reported
// distinctly and leaves the build verdict untouched.
func (d *Dispatcher) runArtifact(ctx context.Context, res *Result) {
	res.Ran = true
	if _, err := d.runner.Run(ctx, exec.Command{Name: res.ArtifactPath}); err != nil {
		res.RunFault = err
		d.sink.Report(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Message:  fmt.Sprintf("program exited with a fault: %v", err),
		})
	}
}
