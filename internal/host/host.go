// Package host defines the interface to a Vim command evaluator.
//
// A host is anything that can evaluate Vimscript expressions and execute
// ex commands: a running Vim reached over its clientserver interface, or an
// in-memory emulator used in tests. Everything above this package talks to
// Vim exclusively through the Evaluator interface, in text.
package host

import "fmt"

// Evaluator is the command evaluation interface a Vim host must provide.
//
// All three methods block until the host has finished the operation. There
// are no retries at this layer; failures propagate to the caller unchanged.
type Evaluator interface {
	// Eval evaluates a Vimscript expression and returns its result as text.
	Eval(expr string) (string, error)

	// Execute runs an ex command for its side effects.
	Execute(cmd string) error

	// CaptureOutput runs an ex command and returns the text it printed.
	CaptureOutput(cmd string) (string, error)
}

// CommandError wraps a failure from the host with the command or expression
// text that provoked it.
type CommandError struct {
	// Command is the command or expression text sent to the host.
	Command string

	// Err is the underlying failure.
	Err error
}

// Error returns the error message.
func (e *CommandError) Error() string {
	return fmt.Sprintf("host: command %q failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
