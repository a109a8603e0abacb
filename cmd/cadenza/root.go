package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cadenza-lang/cadenza/pkg/models"
)

var (
	rootReport     string
	rootDumpDir    string
	rootDebug      bool
	rootNoColor    bool
	rootCountVerif bool
)

var rootCmd = &cobra.Command{
	Use:   "cadenza",
	Short: "Verification-aware Cadenza compiler",
	Long: `Cadenza verifies programs before it compiles them.

Each source file lowers to named verification-condition modules that are
checked by an external proof engine. Compilation to native code only
happens for programs whose every module verified, unless forced.

Inputs are classified by extension: .cdz source programs, .c native
sources compiled alongside generated code, and .a/.so link references.

Exit codes: 0 verified, 1 preprocessing error, 2 compile error,
3 not verified, 4 output error.`,
	SilenceUsage: true,
}

// Execute runs the root command. Flag and argument errors are
// preprocessing errors: they happen before any file is touched.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(models.ExitPreprocessingError.Code(true))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootReport, "report", "", "Write a YAML statistics report to this path")
	rootCmd.PersistentFlags().StringVar(&rootDumpDir, "dump-dir", "", "Directory for verification-condition dumps (default: system temp)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable the file-based debug log")
	rootCmd.PersistentFlags().BoolVar(&rootNoColor, "no-color", false, "Disable colored diagnostics")
	rootCmd.PersistentFlags().BoolVar(&rootCountVerif, "count-verification-errors", true, "Report verification failures through the exit code")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
