package api

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// OptionsModule implements the vim.options API module.
type OptionsModule struct {
	ctx *Context
}

// NewOptionsModule creates a new options module.
func NewOptionsModule(ctx *Context) *OptionsModule {
	return &OptionsModule{ctx: ctx}
}

// Name returns the module name.
func (m *OptionsModule) Name() string {
	return "options"
}

// Register registers the module into the Lua state.
func (m *OptionsModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "set_local", L.NewFunction(m.setLocal))
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "toggle", L.NewFunction(m.toggle))
	L.SetField(mod, "unset", L.NewFunction(m.unset))
	L.SetField(mod, "set_default", L.NewFunction(m.setDefault))
	L.SetField(mod, "runtimepath", L.NewFunction(m.runtimePath))
	L.SetField(mod, "set_runtimepath", L.NewFunction(m.setRuntimePath))

	L.SetGlobal("_vim_options", mod)
	return nil
}

// set(name, value?) -> nil
// Sets an option; omit value for flag options.
func (m *OptionsModule) set(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.OptString(2, "")

	if err := m.ctx.Client.SetOption(name, value); err != nil {
		L.RaiseError("set: %v", err)
		return 0
	}
	return 0
}

// set_local(name, value?) -> nil
// Sets an option for the current buffer or window only.
func (m *OptionsModule) setLocal(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.OptString(2, "")

	if err := m.ctx.Client.SetLocalOption(name, value); err != nil {
		L.RaiseError("set_local: %v", err)
		return 0
	}
	return 0
}

// get(name) -> string
// Reads an option's current value.
func (m *OptionsModule) get(L *lua.LState) int {
	name := L.CheckString(1)

	val, err := m.ctx.Client.GetOption(name)
	if err != nil {
		L.RaiseError("get: %v", err)
		return 0
	}
	L.Push(lua.LString(val))
	return 1
}

// toggle(name) -> nil
// Flips a flag option.
func (m *OptionsModule) toggle(L *lua.LState) int {
	name := L.CheckString(1)

	if err := m.ctx.Client.ToggleOption(name); err != nil {
		L.RaiseError("toggle: %v", err)
		return 0
	}
	return 0
}

// unset(name) -> nil
// Turns a flag option off.
func (m *OptionsModule) unset(L *lua.LState) int {
	name := L.CheckString(1)

	if err := m.ctx.Client.UnsetOption(name); err != nil {
		L.RaiseError("unset: %v", err)
		return 0
	}
	return 0
}

// set_default(name) -> nil
// Restores an option to its default value.
func (m *OptionsModule) setDefault(L *lua.LState) int {
	name := L.CheckString(1)

	if err := m.ctx.Client.SetOptionDefault(name); err != nil {
		L.RaiseError("set_default: %v", err)
		return 0
	}
	return 0
}

// runtimepath() -> {paths}
// Returns the runtime path entries.
func (m *OptionsModule) runtimePath(L *lua.LState) int {
	parts, err := m.ctx.Client.RuntimePath()
	if err != nil {
		L.RaiseError("runtimepath: %v", err)
		return 0
	}

	tbl := L.NewTable()
	for i, part := range parts {
		tbl.RawSetInt(i+1, lua.LString(part))
	}
	L.Push(tbl)
	return 1
}

// set_runtimepath({paths}) -> nil
// Replaces the runtime path.
func (m *OptionsModule) setRuntimePath(L *lua.LState) int {
	tbl := L.CheckTable(1)

	var parts []string
	tbl.ForEach(func(_, v lua.LValue) {
		parts = append(parts, strings.TrimSpace(v.String()))
	})

	if err := m.ctx.Client.SetRuntimePath(parts); err != nil {
		L.RaiseError("set_runtimepath: %v", err)
		return 0
	}
	return 0
}
