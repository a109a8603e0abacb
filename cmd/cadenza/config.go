package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cadenza-lang/cadenza/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show effective configuration",
	Long: `Display the effective configuration after layering defaults, the
user config file, the project-level .cadenza/config.yaml, and CADENZA_*
environment variables.

Without arguments, displays every value. With one argument, displays the
value for that key.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if len(args) == 1 {
			displayConfigKey(cfg, args[0])
			return
		}
		displayAllConfig(cfg)
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("verification.separate: %t\n", cfg.Verification.Separate)
	fmt.Printf("verification.snapshots: %t\n", cfg.Verification.Snapshots)
	fmt.Printf("verification.incremental: %t\n", cfg.Verification.Incremental)
	fmt.Printf("verification.procs: %s\n", orUnset(cfg.Verification.Procs))
	fmt.Printf("verification.trace_times: %t\n", cfg.Verification.TraceTimes)
	fmt.Printf("verification.stack_budget: %d\n", cfg.Verification.StackBudget)
	fmt.Printf("compilation.backend: %s\n", cfg.Compilation.Backend)
	fmt.Printf("compilation.compile: %t\n", cfg.Compilation.Compile)
	fmt.Printf("compilation.force_compile: %t\n", cfg.Compilation.ForceCompile)
	fmt.Printf("compilation.spill_level: %d\n", cfg.Compilation.SpillLevel)
	fmt.Printf("compilation.run_after_build: %t\n", cfg.Compilation.RunAfterBuild)
	fmt.Printf("compilation.debug_symbols: %t\n", cfg.Compilation.DebugSymbols)
	fmt.Printf("compilation.optimize: %t\n", cfg.Compilation.Optimize)
	fmt.Printf("compilation.runtime_dir: %s\n", orUnset(cfg.Compilation.RuntimeDir))
	fmt.Printf("tools.frontend: %s\n", cfg.Tools.Frontend)
	fmt.Printf("tools.prover: %s\n", cfg.Tools.Prover)
	fmt.Printf("tools.cc: %s\n", cfg.Tools.CC)
	fmt.Printf("output.dump_dir: %s\n", orUnset(cfg.Output.DumpDir))
	fmt.Printf("output.report_path: %s\n", orUnset(cfg.Output.ReportPath))
	fmt.Printf("output.count_verification_errors: %t\n", cfg.Output.CountVerificationErrors)
	fmt.Printf("output.debug: %t\n", cfg.Output.Debug)
	fmt.Printf("output.no_color: %t\n", cfg.Output.NoColor)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "verification.separate":
		return strconv.FormatBool(cfg.Verification.Separate), nil
	case "verification.snapshots":
		return strconv.FormatBool(cfg.Verification.Snapshots), nil
	case "verification.incremental":
		return strconv.FormatBool(cfg.Verification.Incremental), nil
	case "verification.procs":
		return orUnset(cfg.Verification.Procs), nil
	case "verification.trace_times":
		return strconv.FormatBool(cfg.Verification.TraceTimes), nil
	case "verification.stack_budget":
		return strconv.Itoa(cfg.Verification.StackBudget), nil
	case "compilation.backend":
		return cfg.Compilation.Backend, nil
	case "compilation.compile":
		return strconv.FormatBool(cfg.Compilation.Compile), nil
	case "compilation.force_compile":
		return strconv.FormatBool(cfg.Compilation.ForceCompile), nil
	case "compilation.spill_level":
		return strconv.Itoa(cfg.Compilation.SpillLevel), nil
	case "compilation.run_after_build":
		return strconv.FormatBool(cfg.Compilation.RunAfterBuild), nil
	case "compilation.debug_symbols":
		return strconv.FormatBool(cfg.Compilation.DebugSymbols), nil
	case "compilation.optimize":
		return strconv.FormatBool(cfg.Compilation.Optimize), nil
	case "compilation.runtime_dir":
		return orUnset(cfg.Compilation.RuntimeDir), nil
	case "tools.frontend":
		return cfg.Tools.Frontend, nil
	case "tools.prover":
		return cfg.Tools.Prover, nil
	case "tools.cc":
		return cfg.Tools.CC, nil
	case "output.dump_dir":
		return orUnset(cfg.Output.DumpDir), nil
	case "output.report_path":
		return orUnset(cfg.Output.ReportPath), nil
	case "output.count_verification_errors":
		return strconv.FormatBool(cfg.Output.CountVerificationErrors), nil
	case "output.debug":
		return strconv.FormatBool(cfg.Output.Debug), nil
	case "output.no_color":
		return strconv.FormatBool(cfg.Output.NoColor), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
