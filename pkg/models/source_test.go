package models

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind SourceKind
	}{
		{"spec/account.cdz", KindSource},
		{"runtime/shim.c", KindNativeSource},
		{"vendor/libcrypto.a", KindNativeLibrary},
		{"vendor/libm.so", KindNativeLibrary},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d, err := Classify(tt.path)
			if err != nil {
				t.Fatalf("Classify(%q) returned error: %v", tt.path, err)
			}
			if d.Kind != tt.kind {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.path, d.Kind, tt.kind)
			}
		})
	}
}

func TestClassify_UnsupportedExtension(t *testing.T) {
	_, err := Classify("notes.txt")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !strings.Contains(err.Error(), ".txt") {
		t.Errorf("error should name the unsupported extension, got %q", err)
	}
}

func TestBaseName(t *testing.T) {
	d := SourceDescriptor{Path: "proofs/v2/Ledger.cdz", Kind: KindSource}
	if got := d.BaseName(); got != "Ledger" {
		t.Errorf("BaseName() = %q, want Ledger", got)
	}
}

func TestSourceFilters(t *testing.T) {
	files := []SourceDescriptor{
		{Path: "a.cdz", Kind: KindSource},
		{Path: "b.c", Kind: KindNativeSource},
		{Path: "c.a", Kind: KindNativeLibrary},
		{Path: "d.cdz", Kind: KindSource},
	}
	if got := len(SourceFiles(files)); got != 2 {
		t.Errorf("SourceFiles returned %d entries, want 2", got)
	}
	if got := len(NativeSources(files)); got != 1 {
		t.Errorf("NativeSources returned %d entries, want 1", got)
	}
	if got := len(NativeLibraries(files)); got != 1 {
		t.Errorf("NativeLibraries returned %d entries, want 1", got)
	}
}
