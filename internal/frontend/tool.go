package frontend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/exec"
	"github.com/cadenza-lang/cadenza/internal/vc"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// Tool is the subprocess-backed front end. One binary serves parse/check,
// lowering, and code generation; answers are JSON documents on stdout.
type Tool struct {
	bin    string
	runner exec.Runner
}

// NewTool creates a front end backed by the named binary.
func NewTool(bin string, runner exec.Runner) *Tool {
	return &Tool{bin: bin, runner: runner}
}

// checkAnswer is the tool's JSON answer for the check operation.
type checkAnswer struct {
	Error   string        `json:"error"`
	HasMain bool          `json:"has_main"`
	Modules []checkModule `json:"modules"`
}

type checkModule struct {
	Name string `json:"name"`
	VC   string `json:"vc"`
}

// genAnswer is the tool's JSON answer for the codegen operation.
type genAnswer struct {
	Source      string          `json:"source"`
	Diagnostics []genDiagnostic `json:"diagnostics"`
}

type genDiagnostic struct {
	Severity string `json:"severity"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Message  string `json:"message"`
}

// ParseCheck parses and checks the given source files. The returned error
// string is non-empty exactly when lowering failed.
func (t *Tool) ParseCheck(ctx context.Context, files []models.SourceDescriptor, programName string, reporter diagnostics.Reporter) (*Program, string) {
	args := []string{"--op", "check", "--name", programName}
	for _, f := range models.SourceFiles(files) {
		args = append(args, f.Path)
	}

	out, err := t.runner.Run(ctx, exec.Command{Name: t.bin, Args: args})
	if err != nil {
		return nil, fmt.Sprintf("front end failed: %v", err)
	}

	var answer checkAnswer
	if err := json.Unmarshal(out, &answer); err != nil {
		return nil, fmt.Sprintf("front end answer: %v", err)
	}
	if answer.Error != "" {
		return nil, answer.Error
	}

	prog := &Program{
		Name:     programName,
		Files:    files,
		HasMain:  answer.HasMain,
		Reporter: reporter,
	}
	for _, m := range answer.Modules {
		prog.units = append(prog.units, vc.Unit{Name: m.Name, Text: []byte(m.VC)})
	}
	return prog, ""
}

// Translate returns the lowered units produced during checking.
func (t *Tool) Translate(ctx context.Context, prog *Program) ([]vc.Unit, error) {
	if prog == nil {
		return nil, fmt.Errorf("translate: nil program")
	}
	return prog.units, nil
}

// Generate emits target source for the given backend.
func (t *Tool) Generate(ctx context.Context, prog *Program, backend string) ([]byte, []diagnostics.Diagnostic, error) {
	args := []string{"--op", "codegen", "--name", prog.Name, "--backend", backend}
	for _, f := range models.SourceFiles(prog.Files) {
		args = append(args, f.Path)
	}

	out, err := t.runner.Run(ctx, exec.Command{Name: t.bin, Args: args})
	if err != nil {
		return nil, nil, fmt.Errorf("code generation: %w", err)
	}

	var answer genAnswer
	if err := json.Unmarshal(out, &answer); err != nil {
		return nil, nil, fmt.Errorf("code generation answer: %w", err)
	}

	var diags []diagnostics.Diagnostic
	for _, d := range answer.Diagnostics {
		sev := diagnostics.SeverityError
		switch d.Severity {
		case "warning":
			sev = diagnostics.SeverityWarning
		case "info":
			sev = diagnostics.SeverityInfo
		}
		diags = append(diags, diagnostics.Diagnostic{
			Severity: sev,
			Pos:      diagnostics.Position{File: d.File, Line: d.Line, Column: d.Col},
			Message:  d.Message,
		})
	}
	return []byte(answer.Source), diags, nil
}

// NewProgram builds a Program directly from parts. Tests and embedding
// callers use it to avoid the subprocess round trip.
func NewProgram(name string, files []models.SourceDescriptor, hasMain bool, reporter diagnostics.Reporter, units []vc.Unit) *Program {
	return &Program{Name: name, Files: files, HasMain: hasMain, Reporter: reporter, units: units}
}

// Verify Tool implements the collaborator interfaces at compile time.
var (
	_ Frontend      = (*Tool)(nil)
	_ Translator    = (*Tool)(nil)
	_ CodeGenerator = (*Tool)(nil)
)
