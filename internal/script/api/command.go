package api

import (
	lua "github.com/yuin/gopher-lua"
)

// CommandModule implements the vim.command API module.
type CommandModule struct {
	ctx *Context
}

// NewCommandModule creates a new command module.
func NewCommandModule(ctx *Context) *CommandModule {
	return &CommandModule{ctx: ctx}
}

// Name returns the module name.
func (m *CommandModule) Name() string {
	return "command"
}

// Register registers the module into the Lua state.
func (m *CommandModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "run", L.NewFunction(m.run))
	L.SetField(mod, "batch", L.NewFunction(m.batch))
	L.SetField(mod, "capture", L.NewFunction(m.capture))
	L.SetField(mod, "eval", L.NewFunction(m.eval))

	L.SetGlobal("_vim_command", mod)
	return nil
}

// run(cmd) -> nil
// Runs an ex command.
func (m *CommandModule) run(L *lua.LState) int {
	cmd := L.CheckString(1)

	if err := m.ctx.Client.Command(cmd); err != nil {
		L.RaiseError("run: %v", err)
		return 0
	}
	return 0
}

// batch({cmds}) -> nil
// Runs commands in order, stopping at the first failure.
func (m *CommandModule) batch(L *lua.LState) int {
	tbl := L.CheckTable(1)

	var cmds []string
	tbl.ForEach(func(_, v lua.LValue) {
		cmds = append(cmds, v.String())
	})

	if err := m.ctx.Client.Commands(cmds...); err != nil {
		L.RaiseError("batch: %v", err)
		return 0
	}
	return 0
}

// capture(cmd) -> string
// Runs an ex command and returns its printed output.
func (m *CommandModule) capture(L *lua.LState) int {
	cmd := L.CheckString(1)

	out, err := m.ctx.Client.CaptureCommand(cmd)
	if err != nil {
		L.RaiseError("capture: %v", err)
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}

// eval(expr) -> string
// Evaluates a Vimscript expression.
func (m *CommandModule) eval(L *lua.LState) int {
	expr := L.CheckString(1)

	out, err := m.ctx.Client.Eval(expr)
	if err != nil {
		L.RaiseError("eval: %v", err)
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}
