package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadenza-lang/cadenza/internal/exec"
)

// RuntimeLibrary is the immutable-collections runtime linked when the
// optimize flag is set and copied alongside the built artifact.
const RuntimeLibrary = "libcdzimm.so"

// suppressedWarnings are the known-benign warning categories generated C
// code triggers; they are silenced on every native build.
var suppressedWarnings = []string{
	"-Wno-unused-variable",
	"-Wno-unused-but-set-variable",
	"-Wno-unused-parameter",
}

// BuildSpec describes one native build.
type BuildSpec struct {
	// GeneratedSource is the persisted target source file.
	GeneratedSource string
	// NativeSources are auxiliary .c files compiled together with the
	// generated source.
	NativeSources []string
	// Libraries are prebuilt link references.
	Libraries []string
	// Output is the artifact path.
	Output string
	// Shared builds a shared library instead of an executable. Chosen
	// when the program has no entry point.
	Shared bool
	// DebugSymbols enables -g.
	DebugSymbols bool
	// Optimize enables -O2 and links the immutable-collections runtime.
	Optimize bool
	// RuntimeDir is searched for the runtime library when Optimize is set.
	RuntimeDir string
}

// CommandSpec is a fully assembled toolchain invocation.
type CommandSpec struct {
	Cmd  string
	Args []string
}

// Toolchain assembles and runs native C compiler invocations.
type Toolchain struct {
	// CC is the compiler binary, "cc" by default.
	CC     string
	Runner exec.Runner
}

// Compile assembles the compiler invocation for the given spec.
func (tc Toolchain) Compile(spec BuildSpec) CommandSpec {
	args := []string{"-o", spec.Output}
	args = append(args, suppressedWarnings...)

	if spec.DebugSymbols {
		args = append(args, "-g")
	}
	if spec.Shared {
		args = append(args, "-shared", "-fPIC")
	}
	if spec.Optimize {
		args = append(args, "-O2")
		if spec.RuntimeDir != "" {
			args = append(args, "-L"+spec.RuntimeDir)
		}
	}

	args = append(args, spec.GeneratedSource)
	args = append(args, spec.NativeSources...)
	args = append(args, spec.Libraries...)

	if spec.Optimize {
		args = append(args, "-lcdzimm")
	}

	cc := tc.CC
	if cc == "" {
		cc = "cc"
	}
	return CommandSpec{Cmd: cc, Args: args}
}

// Build runs the assembled invocation and, on success with Optimize set,
// copies the runtime library alongside the artifact.
func (tc Toolchain) Build(ctx context.Context, spec BuildSpec) error {
	cmd := tc.Compile(spec)
	if _, err := tc.Runner.Run(ctx, exec.Command{Name: cmd.Cmd, Args: cmd.Args}); err != nil {
		return fmt.Errorf("native build: %w", err)
	}
	if spec.Optimize {
		if err := copyRuntime(spec.RuntimeDir, filepath.Dir(spec.Output)); err != nil {
			return fmt.Errorf("native build: %w", err)
		}
	}
	return nil
}

// ArtifactPath derives the build artifact path from the generated source:
// the bare base name for an executable, lib<base>.so for a library.
func ArtifactPath(generatedSource string, shared bool) string {
	dir := filepath.Dir(generatedSource)
	base := strings.TrimSuffix(filepath.Base(generatedSource), filepath.Ext(generatedSource))
	if shared {
		return filepath.Join(dir, "lib"+base+".so")
	}
	return filepath.Join(dir, base)
}

// copyRuntime copies the immutable-collections runtime next to the artifact.
func copyRuntime(runtimeDir, destDir string) error {
	src := filepath.Join(runtimeDir, RuntimeLibrary)
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("runtime library %s: %w", RuntimeLibrary, err)
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(destDir, RuntimeLibrary))
	if err != nil {
		return fmt.Errorf("copy runtime library: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy runtime library: %w", err)
	}
	return nil
}
