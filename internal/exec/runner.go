package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
)

// OSRunner implements Runner using os/exec.
type OSRunner struct{}

// NewRunner creates a new OSRunner.
func NewRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes the command and returns its stdout. On a nonzero exit the
// captured stderr is included in the returned error.
func (r *OSRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	c := osexec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", cmd.Name, err, stderr.String())
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return stdout.Bytes(), nil
}

// LookPath resolves the named binary through PATH.
func (r *OSRunner) LookPath(name string) (string, error) {
	return osexec.LookPath(name)
}

// Verify OSRunner implements Runner at compile time.
var _ Runner = (*OSRunner)(nil)
