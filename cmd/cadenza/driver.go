package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadenza-lang/cadenza/internal/backend"
	"github.com/cadenza-lang/cadenza/internal/cache"
	"github.com/cadenza-lang/cadenza/internal/config"
	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/exec"
	"github.com/cadenza-lang/cadenza/internal/frontend"
	"github.com/cadenza-lang/cadenza/internal/pipeline"
	"github.com/cadenza-lang/cadenza/internal/vc"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// verificationFlags are the verification sequencing flags shared by the
// verify, build, and run commands.
type verificationFlags struct {
	separate    bool
	snapshots   bool
	incremental bool
	procs       string
	traceTimes  bool
	stackBudget int
}

func (f *verificationFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.separate, "separate", false, "Verify each source file in its own pipeline invocation")
	cmd.Flags().BoolVar(&f.snapshots, "snapshots", false, "Group Name.vX.Y.Z.cdz files into snapshot lineages")
	cmd.Flags().BoolVar(&f.incremental, "incremental", false, "Reuse stored results for unchanged verification conditions")
	cmd.Flags().StringVar(&f.procs, "procs", "", "Only verify procedures matching this filter (disables compilation)")
	cmd.Flags().BoolVar(&f.traceTimes, "trace-times", false, "Print per-module verification time")
	cmd.Flags().IntVar(&f.stackBudget, "stack-budget", 0, "Call-stack byte budget for the pipeline worker (0: runtime default)")
}

func (f *verificationFlags) apply(cfg *config.Config, cmd *cobra.Command) {
	fs := cmd.Flags()
	if fs.Changed("separate") {
		cfg.Verification.Separate = f.separate
	}
	if fs.Changed("snapshots") {
		cfg.Verification.Snapshots = f.snapshots
	}
	if fs.Changed("incremental") {
		cfg.Verification.Incremental = f.incremental
	}
	if fs.Changed("procs") {
		cfg.Verification.Procs = f.procs
	}
	if fs.Changed("trace-times") {
		cfg.Verification.TraceTimes = f.traceTimes
	}
	if fs.Changed("stack-budget") {
		cfg.Verification.StackBudget = f.stackBudget
	}
}

// compilationFlags are the code generation and native build flags shared
// by the build and run commands.
type compilationFlags struct {
	backend      string
	force        bool
	spillLevel   int
	debugSymbols bool
	optimize     bool
	runtimeDir   string
}

func (f *compilationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", "c", "Code generation target: c or py")
	cmd.Flags().BoolVar(&f.force, "force", false, "Generate and build even when verification failed")
	cmd.Flags().IntVar(&f.spillLevel, "spill-level", 0, "Write generated source without building: 1 when verified, 2 always, 3 including partial output")
	cmd.Flags().BoolVar(&f.debugSymbols, "debug-symbols", false, "Build with native debug symbols")
	cmd.Flags().BoolVar(&f.optimize, "optimize", false, "Build optimized and link the immutable-collections runtime")
	cmd.Flags().StringVar(&f.runtimeDir, "runtime-dir", "", "Directory holding the immutable-collections runtime library")
}

func (f *compilationFlags) apply(cfg *config.Config, cmd *cobra.Command) {
	fs := cmd.Flags()
	if fs.Changed("backend") {
		cfg.Compilation.Backend = f.backend
	}
	if fs.Changed("force") {
		cfg.Compilation.ForceCompile = f.force
	}
	if fs.Changed("spill-level") {
		cfg.Compilation.SpillLevel = f.spillLevel
	}
	if fs.Changed("debug-symbols") {
		cfg.Compilation.DebugSymbols = f.debugSymbols
	}
	if fs.Changed("optimize") {
		cfg.Compilation.Optimize = f.optimize
	}
	if fs.Changed("runtime-dir") {
		cfg.Compilation.RuntimeDir = f.runtimeDir
	}
}

// loadConfig loads the layered configuration and applies the root-level
// output flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("report") {
		cfg.Output.ReportPath = rootReport
	}
	if fs.Changed("dump-dir") {
		cfg.Output.DumpDir = rootDumpDir
	}
	if fs.Changed("debug") {
		cfg.Output.Debug = rootDebug
	}
	if fs.Changed("no-color") {
		cfg.Output.NoColor = rootNoColor
	}
	if fs.Changed("count-verification-errors") {
		cfg.Output.CountVerificationErrors = rootCountVerif
	}
	return cfg, nil
}

// classifyInputs resolves command-line paths into source descriptors. Any
// unsupported extension is a preprocessing error.
func classifyInputs(args []string) ([]models.SourceDescriptor, error) {
	files := make([]models.SourceDescriptor, 0, len(args))
	for _, arg := range args {
		desc, err := models.Classify(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, desc)
	}
	if len(models.SourceFiles(files)) == 0 {
		return nil, fmt.Errorf("no %s source file among the inputs", models.SourceExtension)
	}
	return files, nil
}

// programName derives the program name from the first source file.
func programName(files []models.SourceDescriptor) string {
	return models.SourceFiles(files)[0].BaseName()
}

// preprocessingError reports err and exits with the preprocessing status.
// That status is never subject to --count-verification-errors.
func preprocessingError(err error) {
	fmt.Fprintf(os.Stderr, "cadenza: %v\n", err)
	os.Exit(models.ExitPreprocessingError.Code(true))
}

// executePipeline wires the collaborators from the configuration and runs
// one full pipeline invocation, returning the process exit code.
func executePipeline(ctx context.Context, cfg *config.Config, files []models.SourceDescriptor) int {
	sink := diagnostics.NewConsoleSink(os.Stderr, cfg.Output.NoColor)

	log := &diagnostics.DebugLogger{}
	if cfg.Output.Debug {
		wd, err := os.Getwd()
		if err == nil {
			log = diagnostics.NewDebugLoggerForDir(wd)
		}
	}
	defer log.Close()

	runner := exec.NewRunner()
	front := frontend.NewTool(cfg.Tools.Frontend, runner)
	engine := vc.NewToolEngine(cfg.Tools.Prover, runner)

	var db *cache.DB
	if cfg.Verification.Incremental || cfg.Verification.Snapshots {
		var err error
		db, err = cache.Open(cache.DefaultPath())
		if err != nil {
			// The cache is an optimization; verification proceeds without it.
			log.Log("opening cache: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	verRunner := pipeline.NewRunner(cfg, engine, sink, db, log)
	dispatcher := backend.NewDispatcher(cfg, front, runner, sink, log)
	controller := pipeline.NewController(cfg, front, front, verRunner, dispatcher, sink, log)

	status := pipeline.RunWithStackBudget(cfg.Verification.StackBudget, func() models.ExitStatus {
		return controller.Run(ctx, files, programName(files))
	})

	if cfg.Output.ReportPath != "" {
		if err := pipeline.WriteReport(cfg.Output.ReportPath, status, controller.Reports()); err != nil {
			sink.Report(diagnostics.Diagnostic{Severity: diagnostics.SeverityError, Message: err.Error()})
		}
	}

	return status.Code(cfg.Output.CountVerificationErrors)
}
