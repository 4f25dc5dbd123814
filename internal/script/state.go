// Package script runs user Lua scripts against the Vim bridge.
//
// Scripts live in a directory of .lua files. Each file is executed in one
// shared, sandboxed interpreter with the bridge exposed as require("vim").
// The interpreter is not goroutine-safe; State serializes access with a
// mutex so that callbacks arriving from the channel server can re-enter it
// safely.
package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State wraps a sandboxed gopher-lua interpreter behind a mutex.
type State struct {
	L *lua.LState

	mu     sync.Mutex
	closed bool
}

// NewState creates a sandboxed interpreter with only the safe standard
// libraries open.
func NewState() *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	installSandbox(L)
	return &State{L: L}
}

// openSafeLibraries opens the Lua standard libraries that cannot reach
// outside the interpreter. io, os, and debug stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withRecovery(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes Lua source.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withRecovery(func() error {
		return s.L.DoString(code)
	})
}

// CallFunction invokes a Lua function value with the given arguments and
// returns its results. Safe to call from any goroutine.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	stackTop := s.L.GetTop()
	s.L.Push(fn)
	for _, arg := range args {
		s.L.Push(arg)
	}

	var callErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("lua panic: %v", r)
			}
		}()
		callErr = s.L.PCall(len(args), lua.MultRet, nil)
	}()
	if callErr != nil {
		return nil, callErr
	}

	nRet := s.L.GetTop() - stackTop
	if nRet <= 0 {
		return []lua.LValue{}, nil
	}
	results := make([]lua.LValue, nRet)
	for i := 0; i < nRet; i++ {
		results[i] = s.L.Get(stackTop + i + 1)
	}
	s.L.Pop(nRet)
	return results, nil
}

// WithLua runs fn with exclusive access to the interpreter. Used for module
// injection and inspection.
func (s *State) WithLua(fn func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withRecovery(func() error {
		return fn(s.L)
	})
}

func (s *State) withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// baseGlobals are preserved across Reset.
var baseGlobals = map[string]bool{
	"_G": true, "_VERSION": true,
	"assert": true, "error": true, "getmetatable": true,
	"ipairs": true, "next": true, "pairs": true, "pcall": true,
	"print": true, "rawequal": true, "rawget": true, "rawlen": true,
	"rawset": true, "select": true, "setmetatable": true,
	"tonumber": true, "tostring": true, "type": true, "xpcall": true,
	"require": true, "package": true,
	"math": true, "string": true, "table": true,
}

// Reset removes user-defined globals, keeping the base libraries. Module
// globals are re-injected by the caller afterward.
func (s *State) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	globals := s.L.Get(lua.GlobalsIndex).(*lua.LTable)
	var remove []string
	globals.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); ok && !baseGlobals[string(ks)] {
			remove = append(remove, string(ks))
		}
	})
	for _, name := range remove {
		s.L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the interpreter. Further calls fail with ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
