package diagnostics

import (
	"bytes"
	"strings"
	"testing"
)

// captureReporter records forwarded diagnostics for inspection.
type captureReporter struct {
	got []Diagnostic
}

func (c *captureReporter) Report(d Diagnostic) {
	c.got = append(c.got, d)
}

func TestRealignAdapter_ColumnConvention(t *testing.T) {
	capture := &captureReporter{}
	adapter := NewRealignAdapter(capture)

	adapter.Report(Diagnostic{
		Severity: SeverityError,
		Pos:      Position{File: "Ledger.cdz", Line: 12, Column: 0},
		Message:  "assertion might not hold",
	})

	if len(capture.got) != 1 {
		t.Fatalf("expected 1 forwarded diagnostic, got %d", len(capture.got))
	}
	if capture.got[0].Pos.Column != 1 {
		t.Errorf("column = %d, want 1 (engine columns are 0-based)", capture.got[0].Pos.Column)
	}
	if capture.got[0].Pos.Line != 12 {
		t.Errorf("line = %d, want 12 (lines are not rewritten)", capture.got[0].Pos.Line)
	}
}

func TestRealignAdapter_RelatedPositionsRealigned(t *testing.T) {
	capture := &captureReporter{}
	adapter := NewRealignAdapter(capture)

	adapter.Report(Diagnostic{
		Severity: SeverityError,
		Pos:      Position{File: "a.cdz", Line: 1, Column: 4},
		Message:  "postcondition might not hold",
		Related: []Related{
			{Pos: Position{File: "a.cdz", Line: 9, Column: 2}, Message: "this postcondition"},
		},
	})

	rel := capture.got[0].Related
	if len(rel) != 1 {
		t.Fatalf("expected 1 related message, got %d", len(rel))
	}
	if rel[0].Pos.Column != 3 {
		t.Errorf("related column = %d, want 3", rel[0].Pos.Column)
	}
}

func TestRealignAdapter_ExpandsOriginChain(t *testing.T) {
	capture := &captureReporter{}
	adapter := NewRealignAdapter(capture)

	adapter.Report(Diagnostic{
		Severity: SeverityError,
		Pos:      Position{File: "inlined.cdz", Line: 3, Column: 0},
		Message:  "assertion might not hold",
		Origin: &Origin{
			Pos:     Position{File: "caller.cdz", Line: 20, Column: 6},
			Message: "inlined from here",
			Parent: &Origin{
				Pos: Position{File: "root.cdz", Line: 40, Column: 1},
			},
		},
	})

	rel := capture.got[0].Related
	if len(rel) != 2 {
		t.Fatalf("origin chain of depth 2 should expand to 2 related messages, got %d", len(rel))
	}
	if rel[0].Message != "inlined from here" {
		t.Errorf("first related message = %q", rel[0].Message)
	}
	if rel[1].Message == "" {
		t.Error("origin without a message should get a default related message")
	}
	if rel[1].Pos.Column != 2 {
		t.Errorf("origin column = %d, want 2", rel[1].Pos.Column)
	}
}

func TestConsoleSink_ErrorCount(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, true)

	sink.Report(Diagnostic{Severity: SeverityError, Message: "boom"})
	sink.Report(Diagnostic{Severity: SeverityWarning, Message: "hm"})
	sink.Report(Diagnostic{Severity: SeverityError, Message: "boom again"})

	if got := sink.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount() = %d, want 2", got)
	}
}

func TestConsoleSink_Output(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, true)

	sink.Report(Diagnostic{
		Severity: SeverityError,
		Pos:      Position{File: "a.cdz", Line: 2, Column: 5},
		Message:  "assertion might not hold",
		Related:  []Related{{Pos: Position{File: "a.cdz", Line: 7, Column: 1}, Message: "this invariant"}},
	})

	out := buf.String()
	if !strings.Contains(out, "a.cdz(2,5): error: assertion might not hold") {
		t.Errorf("primary line missing from output:\n%s", out)
	}
	if !strings.Contains(out, "a.cdz(7,1): related: this invariant") {
		t.Errorf("related line missing from output:\n%s", out)
	}
}
