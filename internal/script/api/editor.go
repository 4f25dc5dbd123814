package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/vim"
)

// EditorModule implements the vim.editor API module: cursor and mode.
type EditorModule struct {
	ctx *Context
}

// NewEditorModule creates a new editor module.
func NewEditorModule(ctx *Context) *EditorModule {
	return &EditorModule{ctx: ctx}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "editor"
}

// Register registers the module into the Lua state.
func (m *EditorModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "cursor", L.NewFunction(m.cursor))
	L.SetField(mod, "set_cursor", L.NewFunction(m.setCursor))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "is_last_line", L.NewFunction(m.isLastLine))
	L.SetField(mod, "mode", L.NewFunction(m.mode))
	L.SetField(mod, "is_visual", L.NewFunction(m.isVisual))
	L.SetField(mod, "feed_keys", L.NewFunction(m.feedKeys))
	L.SetField(mod, "feed_keys_raw", L.NewFunction(m.feedKeysRaw))
	L.SetField(mod, "leader", L.NewFunction(m.leader))

	L.SetGlobal("_vim_editor", mod)
	return nil
}

// cursor() -> row, col
// Returns the cursor position, 1-indexed.
func (m *EditorModule) cursor(L *lua.LState) int {
	pos, err := m.ctx.Client.CursorPosition()
	if err != nil {
		L.RaiseError("cursor: %v", err)
		return 0
	}
	L.Push(lua.LNumber(pos.Row))
	L.Push(lua.LNumber(pos.Col))
	return 2
}

// set_cursor(row, col) -> nil
// Moves the cursor.
func (m *EditorModule) setCursor(L *lua.LState) int {
	row := L.CheckInt(1)
	col := L.CheckInt(2)

	if row < 1 {
		L.ArgError(1, "row must be >= 1")
		return 0
	}
	if col < 1 {
		L.ArgError(2, "col must be >= 1")
		return 0
	}

	if err := m.ctx.Client.SetCursorPosition(vim.Position{Row: row, Col: col}); err != nil {
		L.RaiseError("set_cursor: %v", err)
		return 0
	}
	return 0
}

// line() -> number
// Returns the cursor's line number.
func (m *EditorModule) line(L *lua.LState) int {
	line, err := m.ctx.Client.CurrentLine()
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LNumber(line))
	return 1
}

// line_count() -> number
// Returns the number of lines in the current buffer.
func (m *EditorModule) lineCount(L *lua.LState) int {
	count, err := m.ctx.Client.LineCount()
	if err != nil {
		L.RaiseError("line_count: %v", err)
		return 0
	}
	L.Push(lua.LNumber(count))
	return 1
}

// is_last_line() -> bool
// Reports whether the cursor sits on the last line.
func (m *EditorModule) isLastLine(L *lua.LState) int {
	last, err := m.ctx.Client.IsLastLine()
	if err != nil {
		L.RaiseError("is_last_line: %v", err)
		return 0
	}
	L.Push(lua.LBool(last))
	return 1
}

// mode() -> string
// Returns the current mode string.
func (m *EditorModule) mode(L *lua.LState) int {
	mode, err := m.ctx.Client.Mode()
	if err != nil {
		L.RaiseError("mode: %v", err)
		return 0
	}
	L.Push(lua.LString(mode))
	return 1
}

// is_visual() -> bool
// Reports whether Vim is in one of the visual modes.
func (m *EditorModule) isVisual(L *lua.LState) int {
	mode, err := m.ctx.Client.Mode()
	if err != nil {
		L.RaiseError("is_visual: %v", err)
		return 0
	}
	L.Push(lua.LBool(vim.IsVisualMode(mode)))
	return 1
}

// feed_keys(keys) -> nil
// Feeds keys honoring the user's mappings; \<leader> is substituted.
func (m *EditorModule) feedKeys(L *lua.LState) int {
	keys := L.CheckString(1)

	if err := m.ctx.Client.FeedKeys(keys); err != nil {
		L.RaiseError("feed_keys: %v", err)
		return 0
	}
	return 0
}

// feed_keys_raw(keys) -> nil
// Feeds keys bypassing mappings.
func (m *EditorModule) feedKeysRaw(L *lua.LState) int {
	keys := L.CheckString(1)

	if err := m.ctx.Client.FeedKeysRaw(keys); err != nil {
		L.RaiseError("feed_keys_raw: %v", err)
		return 0
	}
	return 0
}

// leader() -> string
// Returns the user's mapleader, or "" when unset.
func (m *EditorModule) leader(L *lua.LState) int {
	leader, err := m.ctx.Client.Leader()
	if err != nil {
		L.RaiseError("leader: %v", err)
		return 0
	}
	L.Push(lua.LString(leader))
	return 1
}
