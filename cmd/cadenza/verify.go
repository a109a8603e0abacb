package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cadenza-lang/cadenza/internal/config"
	"github.com/cadenza-lang/cadenza/internal/watch"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

var (
	verifyFlags verificationFlags
	verifyWatch bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>...",
	Short: "Verify source programs without compiling",
	Long: `Verify the given source programs.

Each program lowers to named verification-condition modules; every module
is checked, with no early abort, and the per-module statistics are
aggregated into the final verdict.

With --separate, each source file runs through its own pipeline and the
per-file statuses are merged. With --snapshots, files following the
Name.vMAJOR.MINOR.PATCH.cdz convention form version lineages that verify
together, reusing stored results for unchanged conditions.

With --watch, the pipeline re-runs whenever an input file changes.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runVerify,
}

func init() {
	verifyFlags.register(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyWatch, "watch", false, "Re-run verification when an input file changes")
}

func runVerify(cmd *cobra.Command, args []string) {
	files, err := classifyInputs(args)
	if err != nil {
		preprocessingError(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		preprocessingError(err)
	}
	verifyFlags.apply(cfg, cmd)
	cfg.Compilation.Compile = false

	if verifyWatch {
		os.Exit(watchLoop(cfg, files, args))
	}
	os.Exit(executePipeline(context.Background(), cfg, files))
}

// watchLoop runs the pipeline once, then re-runs it on every debounced
// change batch until interrupted. The exit code is the most recent run's.
func watchLoop(cfg *config.Config, files []models.SourceDescriptor, paths []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := executePipeline(ctx, cfg, files)

	w, err := watch.New(paths, watch.DefaultDebounce)
	if err != nil {
		preprocessingError(err)
	}
	defer w.Close()

	w.Run(ctx, func() {
		code = executePipeline(ctx, cfg, files)
	})
	return code
}
