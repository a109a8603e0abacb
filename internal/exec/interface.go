// Package exec provides the subprocess abstraction used to invoke the
// external collaborators: the front end, the proof engine, the native C
// toolchain, and a built artifact. The interface exists so pipeline tests
// can fake every external invocation.
package exec

import "context"

// Command describes one subprocess invocation.
type Command struct {
	// Name is the binary to run, resolved through PATH.
	Name string
	// Args are the command arguments.
	Args []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Stdin is fed to the process when non-nil.
	Stdin []byte
	// Env entries (KEY=VALUE) appended to the inherited environment.
	Env []string
}

// Runner runs external commands.
type Runner interface {
	// Run executes the command and returns its stdout. Stderr is folded
	// into the returned error on failure.
	Run(ctx context.Context, cmd Command) (stdout []byte, err error)

	// LookPath reports whether the named binary is resolvable.
	LookPath(name string) (string, error)
}
