package pipeline

import (
	"context"
	"os"

	"github.com/cadenza-lang/cadenza/internal/diagnostics"
	"github.com/cadenza-lang/cadenza/internal/exec"
	"github.com/cadenza-lang/cadenza/internal/frontend"
	"github.com/cadenza-lang/cadenza/internal/vc"
	"github.com/cadenza-lang/cadenza/pkg/models"
)

// unitVerdict scripts the fake engine's answer for one unit.
type unitVerdict struct {
	resolve models.PipelineOutcome
	stats   models.PipelineStatistics
	diags   []diagnostics.Diagnostic
}

// fakeEngine is a scriptable proof engine that records the operations it
// ran, in order.
type fakeEngine struct {
	verdicts map[string]unitVerdict
	ops      []string
	parses   int
	resolves int
	verifies int
}

func (e *fakeEngine) verdictFor(u *vc.Unit) unitVerdict {
	if v, ok := e.verdicts[u.Name]; ok {
		return v
	}
	return unitVerdict{resolve: models.OutcomeResolvedAndTypeChecked}
}

func (e *fakeEngine) Parse(ctx context.Context, path string) (*vc.Unit, error) {
	e.parses++
	e.ops = append(e.ops, "parse")
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &vc.Unit{Name: "reparsed", Text: text}, nil
}

func (e *fakeEngine) ResolveAndTypecheck(ctx context.Context, u *vc.Unit) (models.PipelineOutcome, []diagnostics.Diagnostic, error) {
	e.resolves++
	e.ops = append(e.ops, "resolve:"+u.Name)
	v := e.verdictFor(u)
	return v.resolve, v.diags, nil
}

func (e *fakeEngine) EliminateDeadVariables(ctx context.Context, u *vc.Unit) error {
	e.ops = append(e.ops, "dead-vars")
	return nil
}

func (e *fakeEngine) CollectModSets(ctx context.Context, u *vc.Unit) error {
	e.ops = append(e.ops, "modsets")
	return nil
}

func (e *fakeEngine) CoalesceBlocks(ctx context.Context, u *vc.Unit) error {
	e.ops = append(e.ops, "coalesce")
	return nil
}

func (e *fakeEngine) Inline(ctx context.Context, u *vc.Unit) error {
	e.ops = append(e.ops, "inline")
	return nil
}

func (e *fakeEngine) InferAndVerify(ctx context.Context, u *vc.Unit, runID string) (models.PipelineStatistics, models.PipelineOutcome, []diagnostics.Diagnostic, error) {
	e.verifies++
	e.ops = append(e.ops, "verify:"+u.Name)
	v := e.verdictFor(u)
	return v.stats, models.OutcomeVerificationCompleted, nil, nil
}

var _ vc.Engine = (*fakeEngine)(nil)

// fakeFrontend scripts parse/check results per program name.
type fakeFrontend struct {
	// errs maps program names to lowering error strings.
	errs map[string]string
	// units maps program names to their lowered units.
	units   map[string][]vc.Unit
	hasMain bool
	checked []string
}

func (f *fakeFrontend) ParseCheck(ctx context.Context, files []models.SourceDescriptor, programName string, reporter diagnostics.Reporter) (*frontend.Program, string) {
	f.checked = append(f.checked, programName)
	if msg, ok := f.errs[programName]; ok {
		return nil, msg
	}
	return frontend.NewProgram(programName, files, f.hasMain, reporter, f.units[programName]), ""
}

var _ frontend.Frontend = (*fakeFrontend)(nil)

// passTranslator hands back the units carried by the program.
type passTranslator struct {
	calls int
}

func (t *passTranslator) Translate(ctx context.Context, prog *frontend.Program) ([]vc.Unit, error) {
	t.calls++
	tool := frontend.NewTool("", nil)
	return tool.Translate(ctx, prog)
}

var _ frontend.Translator = (*passTranslator)(nil)

// fakeGen is a canned code generator for dispatcher wiring.
type fakeGen struct {
	source []byte
	calls  int
}

func (g *fakeGen) Generate(ctx context.Context, prog *frontend.Program, backend string) ([]byte, []diagnostics.Diagnostic, error) {
	g.calls++
	return g.source, nil, nil
}

var _ frontend.CodeGenerator = (*fakeGen)(nil)

// fakeRunner records subprocess invocations and fails configured binaries.
type fakeRunner struct {
	commands []exec.Command
	fail     map[string]error
}

func (r *fakeRunner) Run(ctx context.Context, cmd exec.Command) ([]byte, error) {
	r.commands = append(r.commands, cmd)
	if err, ok := r.fail[cmd.Name]; ok {
		return nil, err
	}
	return nil, nil
}

func (r *fakeRunner) LookPath(name string) (string, error) { return name, nil }

var _ exec.Runner = (*fakeRunner)(nil)
