package models

// PipelineOutcome marks the stage a verification unit reached and its
// verdict. The stages are linear: parse, resolve/typecheck (which may stop
// the unit), pre-passes, solve.
type PipelineOutcome int

const (
	// OutcomeDone means the unit contained nothing to verify.
	OutcomeDone PipelineOutcome = iota
	// OutcomeResolutionError means resolution failed inside the lowered
	// verification condition. This is a translator defect, not a source
	// program error.
	OutcomeResolutionError
	// OutcomeTypeCheckingError means typechecking failed inside the
	// lowered verification condition. Also a translator defect.
	OutcomeTypeCheckingError
	// OutcomeResolvedAndTypeChecked is the intermediate state that
	// advances to the pre-passes and the solver.
	OutcomeResolvedAndTypeChecked
	// OutcomeVerificationCompleted means solving ran to completion and
	// the unit's statistics are meaningful.
	OutcomeVerificationCompleted
)

// String returns a human-readable name for the outcome.
func (o PipelineOutcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeResolutionError:
		return "resolution error"
	case OutcomeTypeCheckingError:
		return "type checking error"
	case OutcomeResolvedAndTypeChecked:
		return "resolved and type checked"
	case OutcomeVerificationCompleted:
		return "verification completed"
	default:
		return "unknown"
	}
}

// Completed reports whether the outcome is a terminal success stage:
// either there was nothing to verify or solving ran to completion.
func (o PipelineOutcome) Completed() bool {
	return o == OutcomeDone || o == OutcomeVerificationCompleted
}
