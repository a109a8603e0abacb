package vc

import (
	"context"

	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// Engine is the narrow interface to the external proof engine. Every method
// is synchronous; the engine's internal solving may be parallel but that is
// opaque here. Returned errors indicate engine infrastructure failures
// (tool missing, crashed, protocol breakage), never verification verdicts.
type Engine interface {
	// Parse re-parses a dumped verification-condition file from disk.
	// Used by the lowering-defect recovery path to obtain line- and
	// column-correct diagnostics from a byte-identical re-parse.
	Parse(ctx context.Context, path string) (*Unit, error)

	// ResolveAndTypecheck resolves and typechecks the unit. The outcome
	// is Done, ResolutionError, TypeCheckingError, or
	// ResolvedAndTypeChecked. Diagnostics use the engine's coordinate
	// convention and must pass through a realignment adapter.
	ResolveAndTypecheck(ctx context.Context, u *Unit) (models.PipelineOutcome, []diagnostics.Diagnostic, error)

	// EliminateDeadVariables runs the dead-variable elimination pre-pass,
	// rewriting the unit text in place.
	EliminateDeadVariables(ctx context.Context, u *Unit) error

	// CollectModSets runs the modification-set collection pre-pass.
	CollectModSets(ctx context.Context, u *Unit) error

	// CoalesceBlocks runs the block-coalescing pre-pass.
	CoalesceBlocks(ctx context.Context, u *Unit) error

	// Inline runs the inlining pre-pass.
	Inline(ctx context.Context, u *Unit) error

	// InferAndVerify invokes solving. It always returns outcome
	// VerificationCompleted with meaningful statistics unless the engine
	// itself failed. The runID keys the engine's own per-run bookkeeping.
	InferAndVerify(ctx context.Context, u *Unit, runID string) (models.PipelineStatistics, models.PipelineOutcome, []diagnostics.Diagnostic, error)
}
