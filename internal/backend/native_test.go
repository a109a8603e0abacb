package backend

import (
	"slices"
	"testing"
)

func TestCompile_Executable(t *testing.T) {
	tc := Toolchain{CC: "cc"}
	spec := BuildSpec{
		GeneratedSource: "/work/Ledger.c",
		NativeSources:   []string{"/work/shim.c"},
		Libraries:       []string{"/vendor/libcrypto.a"},
		Output:          "/work/Ledger",
	}

	cmd := tc.Compile(spec)
	if cmd.Cmd != "cc" {
		t.Errorf("Cmd = %q, want cc", cmd.Cmd)
	}
	for _, want := range []string{"/work/Ledger.c", "/work/shim.c", "/vendor/libcrypto.a", "-Wno-unused-variable"} {
		if !slices.Contains(cmd.Args, want) {
			t.Errorf("args missing %q: %v", want, cmd.Args)
		}
	}
	for _, banned := range []string{"-g", "-shared", "-O2", "-lcdzimm"} {
		if slices.Contains(cmd.Args, banned) {
			t.Errorf("args should not contain %q: %v", banned, cmd.Args)
		}
	}
}

func TestCompile_DebugAndOptimize(t *testing.T) {
	tc := Toolchain{}
	spec := BuildSpec{
		GeneratedSource: "a.c",
		Output:          "a",
		DebugSymbols:    true,
		Optimize:        true,
		RuntimeDir:      "/opt/cadenza/lib",
	}

	cmd := tc.Compile(spec)
	if cmd.Cmd != "cc" {
		t.Errorf("empty CC should default to cc, got %q", cmd.Cmd)
	}
	for _, want := range []string{"-g", "-O2", "-L/opt/cadenza/lib", "-lcdzimm"} {
		if !slices.Contains(cmd.Args, want) {
			t.Errorf("args missing %q: %v", want, cmd.Args)
		}
	}
	// The runtime link reference must come after the sources.
	if slices.Index(cmd.Args, "-lcdzimm") < slices.Index(cmd.Args, "a.c") {
		t.Error("-lcdzimm should follow the source files")
	}
}

func TestCompile_SharedLibrary(t *testing.T) {
	cmd := Toolchain{}.Compile(BuildSpec{GeneratedSource: "a.c", Output: "liba.so", Shared: true})
	if !slices.Contains(cmd.Args, "-shared") || !slices.Contains(cmd.Args, "-fPIC") {
		t.Errorf("shared build should pass -shared -fPIC, got %v", cmd.Args)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		source string
		shared bool
		want   string
	}{
		{"/work/Ledger.c", false, "/work/Ledger"},
		{"/work/Ledger.c", true, "/work/libLedger.so"},
	}
	for _, tt := range tests {
		if got := ArtifactPath(tt.source, tt.shared); got != tt.want {
			t.Errorf("ArtifactPath(%q, %v) = %q, want %q", tt.source, tt.shared, got, tt.want)
		}
	}
}
