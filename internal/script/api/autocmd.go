package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/vim"
)

// AutoCmdModule implements the vim.autocmd API module.
//
// Callbacks receive no arguments; when the autocommand fires, the triggering
// buffer is current, so scripts use the buffer-local functions (vars.blet,
// options.set_local, keymap.map with buffer=true) to act on it.
type AutoCmdModule struct {
	ctx *Context
}

// NewAutoCmdModule creates a new autocmd module.
func NewAutoCmdModule(ctx *Context) *AutoCmdModule {
	return &AutoCmdModule{ctx: ctx}
}

// Name returns the module name.
func (m *AutoCmdModule) Name() string {
	return "autocmd"
}

// Register registers the module into the Lua state.
func (m *AutoCmdModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetField(mod, "filetype", L.NewFunction(m.filetype))
	L.SetField(mod, "set_filetype", L.NewFunction(m.setFiletype))

	L.SetGlobal("_vim_autocmd", mod)
	return nil
}

// wrap adapts a Lua function to the autocommand callback shape.
func (m *AutoCmdModule) wrap(fn *lua.LFunction) func(*vim.AutoCmdContext) error {
	return func(*vim.AutoCmdContext) error {
		_, err := m.ctx.Invoke(fn)
		return err
	}
}

// on(group, event, pattern, fn) -> nil
// Runs fn when event fires for pattern. Re-registering the same group
// replaces the previous binding.
func (m *AutoCmdModule) on(L *lua.LState) int {
	group := L.CheckString(1)
	event := L.CheckString(2)
	pattern := L.CheckString(3)
	fn := L.CheckFunction(4)

	if err := m.ctx.Client.OnAutoCmd(group, event, pattern, m.wrap(fn)); err != nil {
		L.RaiseError("on: %v", err)
		return 0
	}
	return 0
}

// filetype(group, ft, fn) -> nil
// Runs fn when a buffer of the given filetype is entered.
func (m *AutoCmdModule) filetype(L *lua.LState) int {
	group := L.CheckString(1)
	ft := L.CheckString(2)
	fn := L.CheckFunction(3)

	if err := m.ctx.Client.WhenFileType(group, ft, m.wrap(fn)); err != nil {
		L.RaiseError("filetype: %v", err)
		return 0
	}
	return 0
}

// set_filetype(pattern, ft) -> nil
// Associates a file pattern with a filetype.
func (m *AutoCmdModule) setFiletype(L *lua.LState) int {
	pattern := L.CheckString(1)
	ft := L.CheckString(2)

	if err := m.ctx.Client.SetFileType(pattern, ft); err != nil {
		L.RaiseError("set_filetype: %v", err)
		return 0
	}
	return 0
}
