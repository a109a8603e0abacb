// Package diagnostics provides the diagnostic sink used across the
// pipeline: severity-tagged messages with primary and related locations,
// a colored console sink, and the adapter that realigns proof-engine
// coordinates to the source program's convention.
package diagnostics

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError is a hard error.
	SeverityError Severity = iota
	// SeverityWarning is a warning.
	SeverityWarning
	// SeverityInfo is informational output.
	SeverityInfo
)

// Position is a location in some file. Line and Column follow the source
// program's convention: both are 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s(%d,%d)", p.File, p.Line, p.Column)
}

// Related is a secondary message pointing at a nested origin of the
// primary diagnostic.
type Related struct {
	Pos     Position
	Message string
}

// Diagnostic is one report: a primary message plus any related locations.
type Diagnostic struct {
	Severity Severity
	Pos      Position
	Message  string
	Related  []Related
	// Origin chains back to the location a message was inlined or
	// instantiated from. Adapters expand the chain into Related entries.
	Origin *Origin
}

// Origin is one link of a nested-origin chain.
type Origin struct {
	Pos     Position
	Message string
	Parent  *Origin
}

// Reporter is the sink capability: report a primary diagnostic with its
// related-location messages. Implemented by the console sink and by
// adapters that rewrite diagnostics before forwarding them.
type Reporter interface {
	Report(d Diagnostic)
}

// ConsoleSink writes diagnostics to a writer, colored by severity. It also
// counts errors so callers can detect new errors across a stage. The
// pipeline is never executed concurrently with itself, but the counter is
// still guarded for the watch-mode re-run boundary.
type ConsoleSink struct {
	mu       sync.Mutex
	w        io.Writer
	noColor  bool
	errCount int
}

// NewConsoleSink creates a sink writing to w.
func NewConsoleSink(w io.Writer, noColor bool) *ConsoleSink {
	return &ConsoleSink{w: w, noColor: noColor}
}

// Report writes the diagnostic and its related messages.
func (s *ConsoleSink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Severity == SeverityError {
		s.errCount++
	}

	label := s.label(d.Severity)
	fmt.Fprintf(s.w, "%s: %s: %s\n", d.Pos, label, d.Message)
	for _, r := range d.Related {
		fmt.Fprintf(s.w, "%s: related: %s\n", r.Pos, r.Message)
	}
}

// ErrorCount returns the number of error-severity diagnostics reported.
func (s *ConsoleSink) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errCount
}

// Banner prints a highlighted notice outside the diagnostic format, used
// for the lowering-defect recovery message.
func (s *ConsoleSink) Banner(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if s.noColor {
		fmt.Fprintf(s.w, "*** %s\n", msg)
		return
	}
	bold := color.New(color.FgHiYellow, color.Bold)
	fmt.Fprintf(s.w, "*** %s\n", bold.Sprint(msg))
}

func (s *ConsoleSink) label(sev Severity) string {
	if s.noColor {
		switch sev {
		case SeverityError:
			return "error"
		case SeverityWarning:
			return "warning"
		default:
			return "info"
		}
	}
	switch sev {
	case SeverityError:
		return color.RedString("error")
	case SeverityWarning:
		return color.YellowString("warning")
	default:
		return color.CyanString("info")
	}
}
