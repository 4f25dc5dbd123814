package api

import (
	lua "github.com/yuin/gopher-lua"
)

// UtilModule implements the vim.util API module: messaging, input, path
// expansion, and scoped state preservation.
type UtilModule struct {
	ctx *Context
}

// NewUtilModule creates a new util module.
func NewUtilModule(ctx *Context) *UtilModule {
	return &UtilModule{ctx: ctx}
}

// Name returns the module name.
func (m *UtilModule) Name() string {
	return "util"
}

// Register registers the module into the Lua state.
func (m *UtilModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "echo", L.NewFunction(m.echo))
	L.SetField(mod, "message", L.NewFunction(m.message))
	L.SetField(mod, "redraw", L.NewFunction(m.redraw))
	L.SetField(mod, "input", L.NewFunction(m.input))
	L.SetField(mod, "expand", L.NewFunction(m.expand))
	L.SetField(mod, "current_file", L.NewFunction(m.currentFile))
	L.SetField(mod, "current_dir", L.NewFunction(m.currentDir))
	L.SetField(mod, "alternate_file", L.NewFunction(m.alternateFile))
	L.SetField(mod, "preserve", L.NewFunction(m.preserve))

	L.SetGlobal("_vim_util", mod)
	return nil
}

// echo(msg) -> nil
// Prints a message in Vim's command area.
func (m *UtilModule) echo(L *lua.LState) int {
	msg := L.CheckString(1)

	if err := m.ctx.Client.Echo(msg); err != nil {
		L.RaiseError("echo: %v", err)
		return 0
	}
	return 0
}

// message(msg) -> nil
// Prints a message kept in the :messages history.
func (m *UtilModule) message(L *lua.LState) int {
	msg := L.CheckString(1)

	if err := m.ctx.Client.EchoMessage(msg); err != nil {
		L.RaiseError("message: %v", err)
		return 0
	}
	return 0
}

// redraw() -> nil
// Forces a full screen redraw.
func (m *UtilModule) redraw(L *lua.LState) int {
	if err := m.ctx.Client.Redraw(); err != nil {
		L.RaiseError("redraw: %v", err)
		return 0
	}
	return 0
}

// input(prompt) -> string
// Prompts the user for a line of input.
func (m *UtilModule) input(L *lua.LState) int {
	prompt := L.CheckString(1)

	out, err := m.ctx.Client.Input(prompt)
	if err != nil {
		L.RaiseError("input: %v", err)
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}

// expand(what) -> string
// Evaluates a Vim expand() expression, e.g. "%:p".
func (m *UtilModule) expand(L *lua.LState) int {
	what := L.CheckString(1)

	out, err := m.ctx.Client.Expand(what)
	if err != nil {
		L.RaiseError("expand: %v", err)
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}

// current_file() -> string
// Returns the full path of the file in the current buffer.
func (m *UtilModule) currentFile(L *lua.LState) int {
	path, err := m.ctx.Client.CurrentFile()
	if err != nil {
		L.RaiseError("current_file: %v", err)
		return 0
	}
	L.Push(lua.LString(path))
	return 1
}

// current_dir() -> string
// Returns the directory of the current file.
func (m *UtilModule) currentDir(L *lua.LState) int {
	dir, err := m.ctx.Client.CurrentDir()
	if err != nil {
		L.RaiseError("current_dir: %v", err)
		return 0
	}
	L.Push(lua.LString(dir))
	return 1
}

// alternate_file() -> string
// Returns the full path of the alternate file.
func (m *UtilModule) alternateFile(L *lua.LState) int {
	path, err := m.ctx.Client.AlternateFile()
	if err != nil {
		L.RaiseError("alternate_file: %v", err)
		return 0
	}
	L.Push(lua.LString(path))
	return 1
}

// preserve(fn) -> nil
// Runs fn with cursor, mode, and registers restored afterward. fn runs
// synchronously on the calling interpreter, not through Invoke: this call is
// already inside script execution.
func (m *UtilModule) preserve(L *lua.LState) int {
	fn := L.CheckFunction(1)

	err := m.ctx.Client.PreserveState(func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		L.RaiseError("preserve: %v", err)
		return 0
	}
	return 0
}
