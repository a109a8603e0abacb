package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	runVerifFlags verificationFlags
	runCompFlags  compilationFlags
)

var runCmd = &cobra.Command{
	Use:   "run <file>...",
	Short: "Verify, compile, and execute a program",
	Long: `Verify and compile the given program, then execute the built
artifact if the program has an entry point.

A fault while the program runs is reported on its own; it does not turn
a successful build into a compile error.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRun,
}

func init() {
	runVerifFlags.register(runCmd)
	runCompFlags.register(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	files, err := classifyInputs(args)
	if err != nil {
		preprocessingError(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		preprocessingError(err)
	}
	runVerifFlags.apply(cfg, cmd)
	runCompFlags.apply(cfg, cmd)
	cfg.Compilation.Compile = true
	cfg.Compilation.RunAfterBuild = true

	os.Exit(executePipeline(context.Background(), cfg, files))
}
