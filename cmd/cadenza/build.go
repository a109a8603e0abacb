package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVerifFlags verificationFlags
	buildCompFlags  compilationFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <file>...",
	Short: "Verify and compile source programs",
	Long: `Verify the given source programs and compile the verified result.

Generated target source is written next to the input file. The "c"
backend then runs the native toolchain: programs with an entry point
build to an executable, libraries to a shared object. Auxiliary .c
inputs are compiled alongside the generated source and .a/.so inputs are
added as link references. The "py" backend emits a self-contained script
with no build step.

Compilation is skipped when verification fails, unless --force is given.
A procedure filter (--procs) also disables compilation, since the
program as a whole was not verified.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBuild,
}

func init() {
	buildVerifFlags.register(buildCmd)
	buildCompFlags.register(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	files, err := classifyInputs(args)
	if err != nil {
		preprocessingError(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		preprocessingError(err)
	}
	buildVerifFlags.apply(cfg, cmd)
	buildCompFlags.apply(cfg, cmd)
	cfg.Compilation.Compile = true

	os.Exit(executePipeline(context.Background(), cfg, files))
}
