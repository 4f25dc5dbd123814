package script

import (
	lua "github.com/yuin/gopher-lua"
)

// safeModules are the built-in modules scripts may require.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// installSandbox removes the load family and replaces require with a
// whitelist version. Scripts can require the safe built-ins and the
// preloaded "vim" module, nothing from disk.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	// Empty the search paths so nothing resolves from the filesystem.
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		if !safeModules[name] && name != "vim" {
			L.RaiseError("module %q is not available in the sandbox", name)
			return 0
		}

		L.Push(originalRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
