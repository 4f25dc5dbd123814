package api

import (
	lua "github.com/yuin/gopher-lua"
)

// RegistersModule implements the vim.registers API module.
type RegistersModule struct {
	ctx *Context
}

// NewRegistersModule creates a new registers module.
func NewRegistersModule(ctx *Context) *RegistersModule {
	return &RegistersModule{ctx: ctx}
}

// Name returns the module name.
func (m *RegistersModule) Name() string {
	return "registers"
}

// Register registers the module into the Lua state.
func (m *RegistersModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "clear", L.NewFunction(m.clear))

	L.SetGlobal("_vim_registers", mod)
	return nil
}

// get(name) -> string or nil
// Reads a register; nil when empty.
func (m *RegistersModule) get(L *lua.LState) int {
	name := L.CheckString(1)

	val, ok, err := m.ctx.Client.GetRegister(name)
	if err != nil {
		L.RaiseError("get: %v", err)
		return 0
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(val))
	return 1
}

// set(name, value) -> nil
// Writes a register. Note Vim's side effect: writing any named register also
// rewrites the unnamed one.
func (m *RegistersModule) set(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.CheckString(2)

	if err := m.ctx.Client.SetRegister(name, value); err != nil {
		L.RaiseError("set: %v", err)
		return 0
	}
	return 0
}

// clear(name) -> nil
// Empties a register.
func (m *RegistersModule) clear(L *lua.LState) int {
	name := L.CheckString(1)

	if err := m.ctx.Client.ClearRegister(name); err != nil {
		L.RaiseError("clear: %v", err)
		return 0
	}
	return 0
}
