package vc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/exec"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// ToolEngine talks to the proof engine binary over a JSON-on-stdio
// protocol: the unit text goes to stdin, the operation is selected with
// --op, and verdict-producing operations answer with a JSON document.
// Transform operations answer with the rewritten unit text.
type ToolEngine struct {
	bin    string
	runner exec.Runner
}

// NewToolEngine creates an engine backed by the named binary.
func NewToolEngine(bin string, runner exec.Runner) *ToolEngine {
	return &ToolEngine{bin: bin, runner: runner}
}

// verdict is the engine's JSON answer for resolve and verify operations.
type verdict struct {
	Outcome     string           `json:"outcome"`
	Stats       verdictStats     `json:"stats"`
	Diagnostics []toolDiagnostic `json:"diagnostics"`
}

type verdictStats struct {
	Verified     int `json:"verified"`
	Errors       int `json:"errors"`
	Inconclusive int `json:"inconclusive"`
	Timeouts     int `json:"timeouts"`
	OutOfMemory  int `json:"out_of_memory"`
}

type toolDiagnostic struct {
	Severity string       `json:"severity"`
	File     string       `json:"file"`
	Line     int          `json:"line"`
	Col      int          `json:"col"`
	Message  string       `json:"message"`
	Origins  []toolOrigin `json:"origins,omitempty"`
}

type toolOrigin struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message,omitempty"`
}

// Parse re-parses a dumped unit file through the engine.
func (e *ToolEngine) Parse(ctx context.Context, path string) (*Unit, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dumped unit: %w", err)
	}
	out, err := e.runner.Run(ctx, exec.Command{
		Name:  e.bin,
		Args:  []string{"--op", "parse"},
		Stdin: text,
	})
	if err != nil {
		return nil, fmt.Errorf("engine parse: %w", err)
	}
	return &Unit{Name: unitNameFromPath(path), Text: out}, nil
}

// ResolveAndTypecheck resolves and typechecks the unit.
func (e *ToolEngine) ResolveAndTypecheck(ctx context.Context, u *Unit) (models.PipelineOutcome, []diagnostics.Diagnostic, error) {
	out, err := e.runner.Run(ctx, exec.Command{
		Name:  e.bin,
		Args:  []string{"--op", "resolve"},
		Stdin: u.Text,
	})
	if err != nil {
		return models.OutcomeResolutionError, nil, fmt.Errorf("engine resolve: %w", err)
	}
	var v verdict
	if err := json.Unmarshal(out, &v); err != nil {
		return models.OutcomeResolutionError, nil, fmt.Errorf("engine resolve verdict: %w", err)
	}
	outcome, err := parseOutcome(v.Outcome)
	if err != nil {
		return models.OutcomeResolutionError, nil, err
	}
	return outcome, convertDiagnostics(v.Diagnostics), nil
}

// EliminateDeadVariables runs the dead-variable elimination pre-pass.
func (e *ToolEngine) EliminateDeadVariables(ctx context.Context, u *Unit) error {
	return e.transform(ctx, u, "dead-vars")
}

// CollectModSets runs the modification-set collection pre-pass.
func (e *ToolEngine) CollectModSets(ctx context.Context, u *Unit) error {
	return e.transform(ctx, u, "modsets")
}

// CoalesceBlocks runs the block-coalescing pre-pass.
func (e *ToolEngine) CoalesceBlocks(ctx context.Context, u *Unit) error {
	return e.transform(ctx, u, "coalesce")
}

// Inline runs the inlining pre-pass.
func (e *ToolEngine) Inline(ctx context.Context, u *Unit) error {
	return e.transform(ctx, u, "inline")
}

// InferAndVerify invokes the solver.
func (e *ToolEngine) InferAndVerify(ctx context.Context, u *Unit, runID string) (models.PipelineStatistics, models.PipelineOutcome, []diagnostics.Diagnostic, error) {
	out, err := e.runner.Run(ctx, exec.Command{
		Name:  e.bin,
		Args:  []string{"--op", "verify", "--run-id", runID},
		Stdin: u.Text,
	})
	if err != nil {
		return models.PipelineStatistics{}, models.OutcomeVerificationCompleted, nil, fmt.Errorf("engine verify: %w", err)
	}
	var v verdict
	if err := json.Unmarshal(out, &v); err != nil {
		return models.PipelineStatistics{}, models.OutcomeVerificationCompleted, nil, fmt.Errorf("engine verify verdict: %w", err)
	}
	stats := models.PipelineStatistics{
		VerifiedCount:     v.Stats.Verified,
		ErrorCount:        v.Stats.Errors,
		InconclusiveCount: v.Stats.Inconclusive,
		TimeoutCount:      v.Stats.Timeouts,
		OutOfMemoryCount:  v.Stats.OutOfMemory,
	}
	return stats, models.OutcomeVerificationCompleted, convertDiagnostics(v.Diagnostics), nil
}

// transform runs one rewriting pre-pass over the unit text.
func (e *ToolEngine) transform(ctx context.Context, u *Unit, op string) error {
	out, err := e.runner.Run(ctx, exec.Command{
		Name:  e.bin,
		Args:  []string{"--op", op},
		Stdin: u.Text,
	})
	if err != nil {
		return fmt.Errorf("engine %s: %w", op, err)
	}
	u.Text = out
	return nil
}

// parseOutcome maps the protocol's outcome strings.
func parseOutcome(s string) (models.PipelineOutcome, error) {
	switch s {
	case "done":
		return models.OutcomeDone, nil
	case "resolution-error":
		return models.OutcomeResolutionError, nil
	case "typecheck-error":
		return models.OutcomeTypeCheckingError, nil
	case "resolved":
		return models.OutcomeResolvedAndTypeChecked, nil
	default:
		return models.OutcomeResolutionError, fmt.Errorf("unknown engine outcome %q", s)
	}
}

// convertDiagnostics lifts protocol diagnostics into the sink model. The
// positions keep the engine's coordinate convention; the realignment
// adapter rewrites them before display.
func convertDiagnostics(in []toolDiagnostic) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, d := range in {
		sev := diagnostics.SeverityError
		switch d.Severity {
		case "warning":
			sev = diagnostics.SeverityWarning
		case "info":
			sev = diagnostics.SeverityInfo
		}
		diag := diagnostics.Diagnostic{
			Severity: sev,
			Pos:      diagnostics.Position{File: d.File, Line: d.Line, Column: d.Col},
			Message:  d.Message,
		}
		var chain *diagnostics.Origin
		for i := len(d.Origins) - 1; i >= 0; i-- {
			o := d.Origins[i]
			chain = &diagnostics.Origin{
				Pos:     diagnostics.Position{File: o.File, Line: o.Line, Column: o.Col},
				Message: o.Message,
				Parent:  chain,
			}
		}
		diag.Origin = chain
		out = append(out, diag)
	}
	return out
}

// unitNameFromPath recovers a display name for a re-parsed dump.
func unitNameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), DumpExtension)
}

// Verify ToolEngine implements Engine at compile time.
var _ Engine = (*ToolEngine)(nil)
