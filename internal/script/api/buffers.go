package api

import (
	lua "github.com/yuin/gopher-lua"
)

// BuffersModule implements the vim.buffers API module: buffers and windows.
type BuffersModule struct {
	ctx *Context
}

// NewBuffersModule creates a new buffers module.
func NewBuffersModule(ctx *Context) *BuffersModule {
	return &BuffersModule{ctx: ctx}
}

// Name returns the module name.
func (m *BuffersModule) Name() string {
	return "buffers"
}

// Register registers the module into the Lua state.
func (m *BuffersModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "list", L.NewFunction(m.list))
	L.SetField(mod, "current", L.NewFunction(m.current))
	L.SetField(mod, "switch", L.NewFunction(m.switchBuffer))
	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetField(mod, "scratch", L.NewFunction(m.scratch))
	L.SetField(mod, "get_lines", L.NewFunction(m.getLines))
	L.SetField(mod, "set_lines", L.NewFunction(m.setLines))
	L.SetField(mod, "contents", L.NewFunction(m.contents))
	L.SetField(mod, "set_contents", L.NewFunction(m.setContents))
	L.SetField(mod, "current_window", L.NewFunction(m.currentWindow))
	L.SetField(mod, "window_count", L.NewFunction(m.windowCount))
	L.SetField(mod, "split", L.NewFunction(m.split))
	L.SetField(mod, "vsplit", L.NewFunction(m.vsplit))

	L.SetGlobal("_vim_buffers", mod)
	return nil
}

// list() -> {num = {name=string, current=bool, active=bool, hidden=bool, modified=bool}}
// Lists all buffers.
func (m *BuffersModule) list(L *lua.LState) int {
	buffers, err := m.ctx.Client.Buffers()
	if err != nil {
		L.RaiseError("list: %v", err)
		return 0
	}

	tbl := L.NewTable()
	for num, info := range buffers {
		entry := L.NewTable()
		L.SetField(entry, "name", lua.LString(info.Name))
		L.SetField(entry, "current", lua.LBool(info.Flags.Current))
		L.SetField(entry, "active", lua.LBool(info.Flags.Active))
		L.SetField(entry, "hidden", lua.LBool(info.Flags.Hidden))
		L.SetField(entry, "modified", lua.LBool(info.Flags.Modified))
		tbl.RawSetInt(num, entry)
	}
	L.Push(tbl)
	return 1
}

// current() -> number
// Returns the current buffer number.
func (m *BuffersModule) current(L *lua.LState) int {
	num, err := m.ctx.Client.CurrentBuffer()
	if err != nil {
		L.RaiseError("current: %v", err)
		return 0
	}
	L.Push(lua.LNumber(num))
	return 1
}

// switch(num) -> nil
// Switches to the given buffer.
func (m *BuffersModule) switchBuffer(L *lua.LState) int {
	num := L.CheckInt(1)

	if err := m.ctx.Client.SetBuffer(num); err != nil {
		L.RaiseError("switch: %v", err)
		return 0
	}
	return 0
}

// count() -> number
// Returns the number of listed buffers.
func (m *BuffersModule) count(L *lua.LState) int {
	count, err := m.ctx.Client.BufferCount()
	if err != nil {
		L.RaiseError("count: %v", err)
		return 0
	}
	L.Push(lua.LNumber(count))
	return 1
}

// scratch(name) -> number
// Creates a named scratch buffer and returns its number.
func (m *BuffersModule) scratch(L *lua.LState) int {
	name := L.CheckString(1)

	num, err := m.ctx.Client.NewScratchBuffer(name)
	if err != nil {
		L.RaiseError("scratch: %v", err)
		return 0
	}
	L.Push(lua.LNumber(num))
	return 1
}

// get_lines(num) -> {lines}
// Returns a buffer's lines.
func (m *BuffersModule) getLines(L *lua.LState) int {
	num := L.CheckInt(1)

	lines, err := m.ctx.Client.BufferLines(num)
	if err != nil {
		L.RaiseError("get_lines: %v", err)
		return 0
	}

	tbl := L.NewTable()
	for i, line := range lines {
		tbl.RawSetInt(i+1, lua.LString(line))
	}
	L.Push(tbl)
	return 1
}

// set_lines(num, {lines}) -> nil
// Replaces a buffer's lines.
func (m *BuffersModule) setLines(L *lua.LState) int {
	num := L.CheckInt(1)
	tbl := L.CheckTable(2)

	var lines []string
	tbl.ForEach(func(_, v lua.LValue) {
		lines = append(lines, v.String())
	})

	if err := m.ctx.Client.SetBufferLines(num, lines); err != nil {
		L.RaiseError("set_lines: %v", err)
		return 0
	}
	return 0
}

// contents(num) -> string
// Returns a buffer's contents as one string.
func (m *BuffersModule) contents(L *lua.LState) int {
	num := L.CheckInt(1)

	text, err := m.ctx.Client.BufferContents(num)
	if err != nil {
		L.RaiseError("contents: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// set_contents(num, text) -> nil
// Replaces a buffer's contents.
func (m *BuffersModule) setContents(L *lua.LState) int {
	num := L.CheckInt(1)
	text := L.CheckString(2)

	if err := m.ctx.Client.SetBufferContents(num, text); err != nil {
		L.RaiseError("set_contents: %v", err)
		return 0
	}
	return 0
}

// current_window() -> number
// Returns the current window number.
func (m *BuffersModule) currentWindow(L *lua.LState) int {
	win, err := m.ctx.Client.CurrentWindow()
	if err != nil {
		L.RaiseError("current_window: %v", err)
		return 0
	}
	L.Push(lua.LNumber(win))
	return 1
}

// window_count() -> number
// Returns the number of windows.
func (m *BuffersModule) windowCount(L *lua.LState) int {
	count, err := m.ctx.Client.WindowCount()
	if err != nil {
		L.RaiseError("window_count: %v", err)
		return 0
	}
	L.Push(lua.LNumber(count))
	return 1
}

// split(size?) -> number
// Opens a horizontal split, returning the new window number.
func (m *BuffersModule) split(L *lua.LState) int {
	size := L.OptInt(1, 0)

	win, err := m.ctx.Client.Split(size)
	if err != nil {
		L.RaiseError("split: %v", err)
		return 0
	}
	L.Push(lua.LNumber(win))
	return 1
}

// vsplit(size?) -> number
// Opens a vertical split, returning the new window number.
func (m *BuffersModule) vsplit(L *lua.LState) int {
	size := L.OptInt(1, 0)

	win, err := m.ctx.Client.VSplit(size)
	if err != nil {
		L.RaiseError("vsplit: %v", err)
		return 0
	}
	L.Push(lua.LNumber(win))
	return 1
}
