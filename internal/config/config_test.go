package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Compilation.Backend != "c" {
		t.Errorf("default backend = %q, want c", cfg.Compilation.Backend)
	}
	if !cfg.Output.CountVerificationErrors {
		t.Error("count_verification_errors should default to true")
	}
	if cfg.Tools.CC != "cc" {
		t.Errorf("default cc = %q, want cc", cfg.Tools.CC)
	}
	if cfg.Verification.Separate || cfg.Verification.Snapshots {
		t.Error("verification modes should default to off")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `verification:
  separate: true
  stack_budget: 268435456
compilation:
  backend: py
  spill_level: 2
output:
  count_verification_errors: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if !cfg.Verification.Separate {
		t.Error("separate should be true")
	}
	if cfg.Verification.StackBudget != 268435456 {
		t.Errorf("stack_budget = %d, want 268435456", cfg.Verification.StackBudget)
	}
	if cfg.Compilation.Backend != "py" {
		t.Errorf("backend = %q, want py", cfg.Compilation.Backend)
	}
	if cfg.Compilation.SpillLevel != 2 {
		t.Errorf("spill_level = %d, want 2", cfg.Compilation.SpillLevel)
	}
	if cfg.Output.CountVerificationErrors {
		t.Error("count_verification_errors should be false")
	}
	// Unset values keep their defaults.
	if cfg.Tools.Prover != "cadenza-prove" {
		t.Errorf("prover = %q, want default", cfg.Tools.Prover)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
