// Package backend dispatches code generation and the native build step
// after a verification verdict. It selects one of the closed set of target
// backends, persists generated source, assembles and runs the native
// toolchain invocation, and optionally executes the built artifact.
package backend

import "fmt"

// Backend describes one code generation target.
type Backend struct {
	// Name selects the backend ("c" or "py").
	Name string
	// Extension is the canonical extension of generated source.
	Extension string
	// NeedsBuild reports whether generated source requires the native
	// build step. Script backends are self-contained.
	NeedsBuild bool
}

// The closed set of target backends.
var backends = map[string]Backend{
	"c":  {Name: "c", Extension: ".c", NeedsBuild: true},
	"py": {Name: "py", Extension: ".py", NeedsBuild: false},
}

// Select resolves a backend by name.
func Select(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("unknown backend %q", name)
	}
	return b, nil
}
