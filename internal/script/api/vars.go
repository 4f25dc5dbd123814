package api

import (
	lua "github.com/yuin/gopher-lua"
)

// VarsModule implements the vim.vars API module.
type VarsModule struct {
	ctx *Context
}

// NewVarsModule creates a new vars module.
func NewVarsModule(ctx *Context) *VarsModule {
	return &VarsModule{ctx: ctx}
}

// Name returns the module name.
func (m *VarsModule) Name() string {
	return "vars"
}

// Register registers the module into the Lua state.
func (m *VarsModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "let", L.NewFunction(m.let))
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "blet", L.NewFunction(m.blet))
	L.SetField(mod, "bget", L.NewFunction(m.bget))
	L.SetField(mod, "multi_let", L.NewFunction(m.multiLet))

	L.SetGlobal("_vim_vars", mod)
	return nil
}

// luaToVarValue converts a Lua argument to the value forms the bridge
// serializes.
func luaToVarValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}

// let(name, value) -> nil
// Sets a global variable.
func (m *VarsModule) let(L *lua.LState) int {
	name := L.CheckString(1)
	value := luaToVarValue(L.Get(2))

	if err := m.ctx.Client.Let(name, value); err != nil {
		L.RaiseError("let: %v", err)
		return 0
	}
	return 0
}

// get(name) -> string or nil
// Reads a global variable; nil when unset.
func (m *VarsModule) get(L *lua.LState) int {
	name := L.CheckString(1)

	val, ok, err := m.ctx.Client.Get(name)
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

// blet(name, value) -> nil
// Sets a buffer-local variable.
func (m *VarsModule) blet(L *lua.LState) int {
	name := L.CheckString(1)
	value := luaToVarValue(L.Get(2))

	if err := m.ctx.Client.LetBufferLocal(name, value); err != nil {
		L.RaiseError("blet: %v", err)
		return 0
	}
	return 0
}

// bget(name) -> string or nil
// Reads a buffer-local variable; nil when unset.
func (m *VarsModule) bget(L *lua.LState) int {
	name := L.CheckString(1)

	val, ok, err := m.ctx.Client.GetBufferLocal(name)
	if err != nil {
		L.RaiseError("bget: %v", err)
		return 0
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(val))
	return 1
}

// multi_let(namespace, {name=value}) -> nil
// Sets several namespaced globals at once.
func (m *VarsModule) multiLet(L *lua.LState) int {
	namespace := L.CheckString(1)
	tbl := L.CheckTable(2)

	vars := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		vars[k.String()] = luaToVarValue(v)
	})

	if err := m.ctx.Client.MultiLet(namespace, vars); err != nil {
		L.RaiseError("multi_let: %v", err)
		return 0
	}
	return 0
}
