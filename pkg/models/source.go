package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceKind classifies an input reference by extension.
type SourceKind int

const (
	// KindSource is a Cadenza source program file (.cdz).
	KindSource SourceKind = iota
	// KindNativeSource is an auxiliary native source file (.c), compiled
	// together with the generated target source.
	KindNativeSource
	// KindNativeLibrary is a prebuilt library (.a or .so), added as a link
	// reference.
	KindNativeLibrary
)

// SourceExtension is the canonical extension of Cadenza source programs.
const SourceExtension = ".cdz"

// SourceDescriptor is a resolved input reference. Descriptors are created
// during command-line ingestion and immutable thereafter.
type SourceDescriptor struct {
	Path string
	Kind SourceKind
}

// BaseName returns the file name without directory or extension, used to
// derive artifact names.
func (d SourceDescriptor) BaseName() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Classify resolves a path into a SourceDescriptor, rejecting unsupported
// extensions with an error that names the extension.
func Classify(path string) (SourceDescriptor, error) {
	switch ext := filepath.Ext(path); ext {
	case SourceExtension:
		return SourceDescriptor{Path: path, Kind: KindSource}, nil
	case ".c":
		return SourceDescriptor{Path: path, Kind: KindNativeSource}, nil
	case ".a", ".so":
		return SourceDescriptor{Path: path, Kind: KindNativeLibrary}, nil
	default:
		return SourceDescriptor{}, fmt.Errorf("unsupported input extension %q in %s", ext, path)
	}
}

// SourceFiles filters descriptors down to Cadenza source programs.
func SourceFiles(files []SourceDescriptor) []SourceDescriptor {
	var out []SourceDescriptor
	for _, f := range files {
		if f.Kind == KindSource {
			out = append(out, f)
		}
	}
	return out
}

// NativeSources filters descriptors down to auxiliary native source files.
func NativeSources(files []SourceDescriptor) []SourceDescriptor {
	var out []SourceDescriptor
	for _, f := range files {
		if f.Kind == KindNativeSource {
			out = append(out, f)
		}
	}
	return out
}

// NativeLibraries filters descriptors down to prebuilt library references.
func NativeLibraries(files []SourceDescriptor) []SourceDescriptor {
	var out []SourceDescriptor
	for _, f := range files {
		if f.Kind == KindNativeLibrary {
			out = append(out, f)
		}
	}
	return out
}
