// Package callback bridges Vim's name-based command invocation to Go
// callables.
//
// Vim can only invoke operations by stable textual reference: a mapping, an
// abbreviation, or an autocommand carries a command string, not a function
// value. The Registry stores Go callables under opaque textual handles so
// that command text issued into Vim can name a callable, and a single
// dispatch entry point can resolve the handle back to the callable when the
// binding fires.
//
// Handles are generation-tagged. Clearing the registry (the reload path)
// bumps the generation; a handle minted before the clear then fails dispatch
// with a StaleHandleError that names both generations. This is the expected
// failure mode when old command strings embedded in still-live Vim mappings
// outlive the process generation that registered them.
package callback

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Func is a registered callable. The returned string is the dispatch result;
// Vim uses it where the binding is an expression (abbreviation expansion) and
// ignores it elsewhere.
type Func func() (string, error)

// Handle is an opaque textual token identifying a registered callable. It is
// safe to embed in Vim command text.
type Handle string

const handlePrefix = "fn-"

// Registry maps handles to callables.
//
// A Registry is an explicit object owned by its bridge client, not package
// state. Handles are minted from a monotonic counter and never reused while
// the callable they name is live.
type Registry struct {
	mu         sync.Mutex
	generation uint64
	seq        uint64
	fns        map[Handle]Func
}

// NewRegistry creates an empty registry at generation 1.
func NewRegistry() *Registry {
	return &Registry{
		generation: 1,
		fns:        make(map[Handle]Func),
	}
}

// Register stores fn under a freshly minted handle and returns the handle.
// Registering the same callable twice yields two distinct handles; the
// registry keys by registration, not by identity.
func (r *Registry) Register(fn Func) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	h := Handle(fmt.Sprintf("%s%d-%d", handlePrefix, r.generation, r.seq))
	r.fns[h] = fn
	return h
}

// Dispatch resolves h and invokes its callable with no arguments, returning
// whatever the callable returns. An absent handle fails with a
// *StaleHandleError and invokes nothing.
func (r *Registry) Dispatch(h Handle) (string, error) {
	r.mu.Lock()
	fn, ok := r.fns[h]
	gen := r.generation
	r.mu.Unlock()

	if !ok {
		return "", &StaleHandleError{
			Handle:           h,
			HandleGeneration: parseGeneration(h),
			Generation:       gen,
		}
	}

	// Invoke outside the lock: the callable may register further handles.
	return fn()
}

// Clear discards every registered callable and bumps the generation. Called
// on reload so stale handles are diagnosed rather than lingering.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.fns = make(map[Handle]Func)
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fns)
}

// Generation returns the current registry generation.
func (r *Registry) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// parseGeneration extracts the generation tag from a handle. Returns 0 when
// the handle does not carry one.
func parseGeneration(h Handle) uint64 {
	s, ok := strings.CutPrefix(string(h), handlePrefix)
	if !ok {
		return 0
	}
	genStr, _, ok := strings.Cut(s, "-")
	if !ok {
		return 0
	}
	gen, err := strconv.ParseUint(genStr, 10, 64)
	if err != nil {
		return 0
	}
	return gen
}
