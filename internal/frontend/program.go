// Package frontend holds the narrow interfaces to the language front end:
// parsing and checking source files into a Program, lowering it to
// verification-condition units, and generating target source. The front
// end itself is an external collaborator; this package defines its
// contract and a subprocess-backed implementation.
package frontend

import (
	"context"

	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/vc"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// Program is the already-checked in-memory representation of one or more
// source files. The pipeline owns it for the duration of one run and never
// mutates it beyond forwarding it to the translator and the code
// generator.
type Program struct {
	// Name is the program name, usually derived from the first source file.
	Name string
	// Files are the source descriptors the program was parsed from.
	Files []models.SourceDescriptor
	// HasMain reports whether the program has a designated entry point.
	// It decides the native build's output kind.
	HasMain bool
	// Reporter is the diagnostic sink attached to this program.
	Reporter diagnostics.Reporter

	// units carries the lowered verification conditions produced
	// alongside checking. Only the translator reads it.
	units []vc.Unit
}

// Frontend parses and checks source files. A non-empty error string means
// the source program failed to lower; it short-circuits verification and
// code generation entirely.
type Frontend interface {
	ParseCheck(ctx context.Context, files []models.SourceDescriptor, programName string, reporter diagnostics.Reporter) (*Program, string)
}

// Translator lowers a checked program to named verification-condition
// units, one per verifiable module. Each unit is consumed exactly once.
type Translator interface {
	Translate(ctx context.Context, prog *Program) ([]vc.Unit, error)
}

// CodeGenerator emits target-language source for a checked program. The
// concrete templates live in the external tool; the dispatcher only
// sequences the call and tracks diagnostics.
type CodeGenerator interface {
	Generate(ctx context.Context, prog *Program, backend string) (source []byte, diags []diagnostics.Diagnostic, err error)
}
