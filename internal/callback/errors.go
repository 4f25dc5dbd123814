package callback

import "fmt"

// StaleHandleError is returned by Dispatch when a handle is not present in
// the registry. It is always surfaced and never recovered silently: the only
// sane response is for the operator to re-run their setup so the bindings
// embedded in Vim reference live handles again.
type StaleHandleError struct {
	// Handle is the handle that failed to resolve.
	Handle Handle

	// HandleGeneration is the generation tag carried by the handle, or 0
	// when the handle is malformed.
	HandleGeneration uint64

	// Generation is the registry's current generation.
	Generation uint64
}

// Error returns the error message. When the handle carries a generation tag
// older than the registry's, the message says so explicitly: the binding was
// issued by a previous process generation and a reload left it behind.
func (e *StaleHandleError) Error() string {
	if e.HandleGeneration > 0 && e.HandleGeneration < e.Generation {
		return fmt.Sprintf(
			"callback: handle %q was registered by generation %d but the registry is at generation %d; re-run your setup",
			e.Handle, e.HandleGeneration, e.Generation)
	}
	return fmt.Sprintf("callback: no callable registered for handle %q", e.Handle)
}
