// Package config handles configuration loading for the Cadenza driver.
// It supports XDG config paths, project-level overrides, and CADENZA_*
// environment variables. The loaded Config is a plain value threaded
// explicitly through the pipeline; nothing in the core reads ambient
// global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds every knob the pipeline consults. One immutable value is
// built per invocation and passed down through the controller, the
// verification runner, and the code-gen dispatcher.
type Config struct {
	Verification VerificationConfig `mapstructure:"verification"`
	Compilation  CompilationConfig  `mapstructure:"compilation"`
	Tools        ToolsConfig        `mapstructure:"tools"`
	Output       OutputConfig       `mapstructure:"output"`
}

// VerificationConfig holds verification sequencing settings.
type VerificationConfig struct {
	// Separate verifies each source file in its own pipeline invocation.
	Separate bool `mapstructure:"separate"`
	// Snapshots enables snapshot-group discovery over the input files.
	Snapshots bool `mapstructure:"snapshots"`
	// Incremental enables the sqlite-backed unit result cache.
	Incremental bool `mapstructure:"incremental"`
	// Procs restricts solving to procedures matching this filter. A
	// non-empty filter disables the build step.
	Procs string `mapstructure:"procs"`
	// TraceTimes prints per-module elapsed time after each unit.
	TraceTimes bool `mapstructure:"trace_times"`
	// StackBudget is the call-stack byte budget for the pipeline worker.
	// Zero keeps the runtime default.
	StackBudget int `mapstructure:"stack_budget"`
}

// CompilationConfig holds code generation and native build settings.
type CompilationConfig struct {
	// Backend selects the code generation target: "c" or "py".
	Backend string `mapstructure:"backend"`
	// Compile requests code generation and a native build after a
	// successful verification.
	Compile bool `mapstructure:"compile"`
	// ForceCompile generates and builds even when verification failed.
	ForceCompile bool `mapstructure:"force_compile"`
	// SpillLevel controls writing generated source without building:
	// 0 never, 1 when verified, 2 regardless of the verdict, 3
	// unconditionally including partial output.
	SpillLevel int `mapstructure:"spill_level"`
	// RunAfterBuild executes the built artifact when it has an entry point.
	RunAfterBuild bool `mapstructure:"run_after_build"`
	// DebugSymbols passes -g to the native toolchain.
	DebugSymbols bool `mapstructure:"debug_symbols"`
	// Optimize enables -O2 and links the immutable-collections runtime.
	Optimize bool `mapstructure:"optimize"`
	// RuntimeDir is where the immutable-collections runtime library lives.
	RuntimeDir string `mapstructure:"runtime_dir"`
}

// ToolsConfig names the external collaborators.
type ToolsConfig struct {
	// Frontend is the parse/translate/codegen tool binary.
	Frontend string `mapstructure:"frontend"`
	// Prover is the proof engine binary.
	Prover string `mapstructure:"prover"`
	// CC is the native C compiler. Defaults to "cc".
	CC string `mapstructure:"cc"`
}

// OutputConfig holds reporting and artifact placement settings.
type OutputConfig struct {
	// DumpDir receives intermediate verification-condition dumps. Empty
	// means the system temporary directory.
	DumpDir string `mapstructure:"dump_dir"`
	// ReportPath, when set, receives a YAML statistics report.
	ReportPath string `mapstructure:"report_path"`
	// CountVerificationErrors controls exit code mapping: when false,
	// every status except a preprocessing error exits 0.
	CountVerificationErrors bool `mapstructure:"count_verification_errors"`
	// Debug enables the file-based debug log.
	Debug bool `mapstructure:"debug"`
	// NoColor disables colored diagnostics.
	NoColor bool `mapstructure:"no_color"`
}

// Load reads configuration from the user config dir, then a project-level
// .cadenza/config.yaml, then CADENZA_* environment variables, in
// increasing precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CADENZA")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("verification.separate", false)
	v.SetDefault("verification.snapshots", false)
	v.SetDefault("verification.incremental", false)
	v.SetDefault("verification.procs", "")
	v.SetDefault("verification.trace_times", false)
	v.SetDefault("verification.stack_budget", 0)

	v.SetDefault("compilation.backend", "c")
	v.SetDefault("compilation.compile", false)
	v.SetDefault("compilation.force_compile", false)
	v.SetDefault("compilation.spill_level", 0)
	v.SetDefault("compilation.run_after_build", false)
	v.SetDefault("compilation.debug_symbols", false)
	v.SetDefault("compilation.optimize", false)
	v.SetDefault("compilation.runtime_dir", "")

	v.SetDefault("tools.frontend", "cadenza-front")
	v.SetDefault("tools.prover", "cadenza-prove")
	v.SetDefault("tools.cc", "cc")

	v.SetDefault("output.dump_dir", "")
	v.SetDefault("output.report_path", "")
	v.SetDefault("output.count_verification_errors", true)
	v.SetDefault("output.debug", false)
	v.SetDefault("output.no_color", false)
}

// userConfigDir returns the XDG config directory for cadenza.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cadenza")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cadenza"
	}
	return filepath.Join(home, ".config", "cadenza")
}

// findProjectConfig walks up from the working directory looking for a
// .cadenza/config.yaml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".cadenza", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
