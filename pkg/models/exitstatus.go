// Package models defines the shared value types of the Cadenza pipeline:
// exit statuses, per-unit outcomes, verification statistics, and source
// descriptors. These types cross package boundaries and carry no behavior
// beyond classification and combination.
package models

// ExitStatus is the final classification of one pipeline invocation.
// Exactly one value is produced per invocation.
type ExitStatus int

const (
	// ExitVerified means every verification unit succeeded.
	ExitVerified ExitStatus = iota
	// ExitPreprocessingError means the invocation failed before any file
	// was touched (bad flags, unsupported input, sink open failure).
	ExitPreprocessingError
	// ExitCompileError means the source program failed to lower, or the
	// native build failed after successful verification.
	ExitCompileError
	// ExitNotVerified means verification ran but produced at least one
	// error, inconclusive, timeout, or out-of-memory result.
	ExitNotVerified
	// ExitCompileOutputError means generated target source could not be
	// persisted.
	ExitCompileOutputError
)

// String returns a human-readable name for the status.
func (s ExitStatus) String() string {
	switch s {
	case ExitVerified:
		return "verified"
	case ExitPreprocessingError:
		return "preprocessing error"
	case ExitCompileError:
		return "compile error"
	case ExitNotVerified:
		return "not verified"
	case ExitCompileOutputError:
		return "compile output error"
	default:
		return "unknown"
	}
}

// Code maps the status to a process exit code. ExitVerified is 0 and every
// other status maps to its ordinal. When countVerificationErrors is false,
// every status except ExitPreprocessingError is normalized back to 0.
func (s ExitStatus) Code(countVerificationErrors bool) int {
	if !countVerificationErrors && s != ExitPreprocessingError {
		return 0
	}
	return int(s)
}

// Merge combines a running status with the status of the next file or
// snapshot group. The merge keeps the last distinct non-Verified status:
// a Verified result never overwrites a prior failure, a repeat of the
// current failure leaves the merge unchanged, and a different failure
// overwrites it.
func (s ExitStatus) Merge(next ExitStatus) ExitStatus {
	if next == ExitVerified || next == s {
		return s
	}
	return next
}
