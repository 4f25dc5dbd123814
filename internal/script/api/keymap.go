package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/vim"
)

// KeymapModule implements the vim.keymap API module: mappings and
// abbreviations.
type KeymapModule struct {
	ctx *Context
}

// NewKeymapModule creates a new keymap module.
func NewKeymapModule(ctx *Context) *KeymapModule {
	return &KeymapModule{ctx: ctx}
}

// Name returns the module name.
func (m *KeymapModule) Name() string {
	return "keymap"
}

// Register registers the module into the Lua state.
func (m *KeymapModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "map", L.NewFunction(m.mapKeys))
	L.SetField(mod, "map_func", L.NewFunction(m.mapFunc))
	L.SetField(mod, "visual_map", L.NewFunction(m.visualMap))
	L.SetField(mod, "abbrev", L.NewFunction(m.abbrev))
	L.SetField(mod, "abbrev_func", L.NewFunction(m.abbrevFunc))

	L.SetGlobal("_vim_keymap", mod)
	return nil
}

// mapOptionsFrom reads a Lua options table: {recursive=bool, buffer=bool,
// preserve_selection=bool}.
func mapOptionsFrom(tbl *lua.LTable) []vim.MapOption {
	if tbl == nil {
		return nil
	}

	var opts []vim.MapOption
	if lua.LVAsBool(tbl.RawGetString("recursive")) {
		opts = append(opts, vim.Recursive())
	}
	if lua.LVAsBool(tbl.RawGetString("buffer")) {
		opts = append(opts, vim.BufferLocal())
	}
	if lua.LVAsBool(tbl.RawGetString("preserve_selection")) {
		opts = append(opts, vim.PreserveSelection())
	}
	return opts
}

// callable wraps a Lua function as a callback. The callback fires on the
// channel server's goroutine, so it re-enters the interpreter through Invoke.
// The first return value, when a string, becomes the dispatch result.
func (m *KeymapModule) callable(fn *lua.LFunction) func() (string, error) {
	return func() (string, error) {
		results, err := m.ctx.Invoke(fn)
		if err != nil {
			return "", err
		}
		if len(results) > 0 {
			if s, ok := results[0].(lua.LString); ok {
				return string(s), nil
			}
		}
		return "", nil
	}
}

// map(mode, keys, rhs, opts?) -> nil
// Binds keys to raw right-hand-side text.
func (m *KeymapModule) mapKeys(L *lua.LState) int {
	mode := L.CheckString(1)
	keys := L.CheckString(2)
	rhs := L.CheckString(3)
	opts := mapOptionsFrom(L.OptTable(4, nil))

	if err := m.ctx.Client.MapKeys(mode, keys, rhs, opts...); err != nil {
		L.RaiseError("map: %v", err)
		return 0
	}
	return 0
}

// map_func(mode, keys, fn, opts?) -> nil
// Binds keys to a Lua function.
func (m *KeymapModule) mapFunc(L *lua.LState) int {
	mode := L.CheckString(1)
	keys := L.CheckString(2)
	fn := L.CheckFunction(3)
	opts := mapOptionsFrom(L.OptTable(4, nil))

	if err := m.ctx.Client.MapFunc(mode, keys, m.callable(fn), opts...); err != nil {
		L.RaiseError("map_func: %v", err)
		return 0
	}
	return 0
}

// visual_map(keys, fn, opts?) -> nil
// Binds keys in visual mode. fn receives the selection contents; returning a
// string replaces the selection, returning nil leaves it alone.
func (m *KeymapModule) visualMap(L *lua.LState) int {
	keys := L.CheckString(1)
	fn := L.CheckFunction(2)
	opts := mapOptionsFrom(L.OptTable(3, nil))

	wrapped := func(selection string) (string, bool, error) {
		results, err := m.ctx.Invoke(fn, lua.LString(selection))
		if err != nil {
			return "", false, err
		}
		if len(results) > 0 {
			if s, ok := results[0].(lua.LString); ok {
				return string(s), true, nil
			}
		}
		return "", false, nil
	}

	if err := m.ctx.Client.VisualMapFunc(keys, wrapped, opts...); err != nil {
		L.RaiseError("visual_map: %v", err)
		return 0
	}
	return 0
}

// abbrev(word, expansion, local?) -> nil
// Creates an insert-mode abbreviation.
func (m *KeymapModule) abbrev(L *lua.LState) int {
	word := L.CheckString(1)
	expansion := L.CheckString(2)
	local := lua.LVAsBool(L.Get(3))

	if err := m.ctx.Client.Abbrev(word, expansion, local); err != nil {
		L.RaiseError("abbrev: %v", err)
		return 0
	}
	return 0
}

// abbrev_func(word, fn, local?) -> nil
// Creates an abbreviation whose expansion is fn's return value.
func (m *KeymapModule) abbrevFunc(L *lua.LState) int {
	word := L.CheckString(1)
	fn := L.CheckFunction(2)
	local := lua.LVAsBool(L.Get(3))

	if err := m.ctx.Client.AbbrevFunc(word, m.callable(fn), local); err != nil {
		L.RaiseError("abbrev_func: %v", err)
		return 0
	}
	return 0
}
