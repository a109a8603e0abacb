package pipeline

import (
	"runtime/debug"

	"github.com/cadenza-lang/cadenza/pkg/models"
)

// RunWithStackBudget executes fn on a dedicated goroutine with the given
// maximum call-stack byte budget. Deep recursive traversal of expression
// trees and nested module hierarchies can exhaust a default stack; the
// budget is an explicit configuration value rather than an implicit
// property of some worker thread. A budget of zero keeps the runtime
// default.
func RunWithStackBudget(budget int, fn func() models.ExitStatus) models.ExitStatus {
	if budget > 0 {
		prev := debug.SetMaxStack(budget)
		defer debug.SetMaxStack(prev)
	}

	done := make(chan models.ExitStatus, 1)
	go func() {
		done <- fn()
	}()
	return <-done
}
