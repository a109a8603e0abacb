package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/cadenza-lang/cadenza/internal/config"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

func TestClassifyInputs(t *testing.T) {
	files, err := classifyInputs([]string{"Ledger.cdz", "ffi.c", "libm.a", "libz.so"})
	if err != nil {
		t.Fatalf("classifyInputs: %v", err)
	}

	kinds := []models.SourceKind{
		models.KindSource,
		models.KindNativeSource,
		models.KindNativeLibrary,
		models.KindNativeLibrary,
	}
	for i, want := range kinds {
		if files[i].Kind != want {
			t.Errorf("files[%d].Kind = %v, want %v", i, files[i].Kind, want)
		}
	}
}

func TestClassifyInputs_UnsupportedExtension(t *testing.T) {
	if _, err := classifyInputs([]string{"Ledger.cdz", "notes.txt"}); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestClassifyInputs_RequiresASourceFile(t *testing.T) {
	if _, err := classifyInputs([]string{"ffi.c", "libm.a"}); err == nil {
		t.Error("expected an error when no source program is given")
	}
}

func TestProgramName(t *testing.T) {
	files, err := classifyInputs([]string{"ffi.c", "pkg/Ledger.cdz"})
	if err != nil {
		t.Fatalf("classifyInputs: %v", err)
	}
	if got := programName(files); got != "Ledger" {
		t.Errorf("programName = %q, want %q", got, "Ledger")
	}
}

func TestVerificationFlagsApplyOnlyWhenSet(t *testing.T) {
	var f verificationFlags
	cmd := &cobra.Command{}
	f.register(cmd)

	if err := cmd.Flags().Set("separate", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("stack-budget", "1048576"); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Verification.Incremental = true
	f.apply(cfg, cmd)

	if !cfg.Verification.Separate {
		t.Error("separate flag not applied")
	}
	if cfg.Verification.StackBudget != 1048576 {
		t.Errorf("StackBudget = %d", cfg.Verification.StackBudget)
	}
	// Untouched flags must not clobber configuration-file values.
	if !cfg.Verification.Incremental {
		t.Error("unset flag overwrote a configured value")
	}
}

func TestCompilationFlagsApplyOnlyWhenSet(t *testing.T) {
	var f compilationFlags
	cmd := &cobra.Command{}
	f.register(cmd)

	if err := cmd.Flags().Set("backend", "py"); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Compilation.Optimize = true
	f.apply(cfg, cmd)

	if cfg.Compilation.Backend != "py" {
		t.Errorf("Backend = %q, want py", cfg.Compilation.Backend)
	}
	if !cfg.Compilation.Optimize {
		t.Error("unset flag overwrote a configured value")
	}
}
