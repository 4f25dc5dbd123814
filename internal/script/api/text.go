package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/vim"
)

// TextModule implements the vim.text API module: word and selection helpers
// plus search.
type TextModule struct {
	ctx *Context
}

// NewTextModule creates a new text module.
func NewTextModule(ctx *Context) *TextModule {
	return &TextModule{ctx: ctx}
}

// Name returns the module name.
func (m *TextModule) Name() string {
	return "text"
}

// Register registers the module into the Lua state.
func (m *TextModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "word", L.NewFunction(m.word))
	L.SetField(mod, "delete_word", L.NewFunction(m.deleteWord))
	L.SetField(mod, "replace_word", L.NewFunction(m.replaceWord))
	L.SetField(mod, "in_quotes", L.NewFunction(m.inQuotes))
	L.SetField(mod, "selection", L.NewFunction(m.selection))
	L.SetField(mod, "replace_selection", L.NewFunction(m.replaceSelection))
	L.SetField(mod, "selection_range", L.NewFunction(m.selectionRange))
	L.SetField(mod, "search", L.NewFunction(m.search))

	L.SetGlobal("_vim_text", mod)
	return nil
}

// word() -> string
// Returns the word under the cursor.
func (m *TextModule) word(L *lua.LState) int {
	word, err := m.ctx.Client.Word()
	if err != nil {
		L.RaiseError("word: %v", err)
		return 0
	}
	L.Push(lua.LString(word))
	return 1
}

// delete_word() -> string
// Deletes the word under the cursor and returns it.
func (m *TextModule) deleteWord(L *lua.LState) int {
	word, err := m.ctx.Client.DeleteWord()
	if err != nil {
		L.RaiseError("delete_word: %v", err)
		return 0
	}
	L.Push(lua.LString(word))
	return 1
}

// replace_word(replacement) -> nil
// Replaces the word under the cursor.
func (m *TextModule) replaceWord(L *lua.LState) int {
	replacement := L.CheckString(1)

	if err := m.ctx.Client.ReplaceWord(replacement); err != nil {
		L.RaiseError("replace_word: %v", err)
		return 0
	}
	return 0
}

// in_quotes() -> string
// Returns the quoted string under the cursor.
func (m *TextModule) inQuotes(L *lua.LState) int {
	text, err := m.ctx.Client.InQuotes()
	if err != nil {
		L.RaiseError("in_quotes: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// selection() -> string
// Returns the contents of the last visual selection.
func (m *TextModule) selection(L *lua.LState) int {
	sel, err := m.ctx.Client.VisualSelection()
	if err != nil {
		L.RaiseError("selection: %v", err)
		return 0
	}
	L.Push(lua.LString(sel))
	return 1
}

// replace_selection(replacement) -> nil
// Replaces the last visual selection.
func (m *TextModule) replaceSelection(L *lua.LState) int {
	replacement := L.CheckString(1)

	if err := m.ctx.Client.ReplaceVisualSelection(replacement); err != nil {
		L.RaiseError("replace_selection: %v", err)
		return 0
	}
	return 0
}

// selection_range() -> start_row, start_col, end_row, end_col
// Returns the bounds of the last visual selection.
func (m *TextModule) selectionRange(L *lua.LState) int {
	start, end, err := m.ctx.Client.VisualRange()
	if err != nil {
		L.RaiseError("selection_range: %v", err)
		return 0
	}
	L.Push(lua.LNumber(start.Row))
	L.Push(lua.LNumber(start.Col))
	L.Push(lua.LNumber(end.Row))
	L.Push(lua.LNumber(end.Col))
	return 4
}

// search(pattern, opts?) -> row, col or nil
// Searches for pattern. opts is a table with boolean fields: no_wrap,
// backward, no_move, current_line.
func (m *TextModule) search(L *lua.LState) int {
	pattern := L.CheckString(1)

	var opts []vim.SearchOption
	if tbl := L.OptTable(2, nil); tbl != nil {
		if lua.LVAsBool(tbl.RawGetString("no_wrap")) {
			opts = append(opts, vim.NoWrap())
		}
		if lua.LVAsBool(tbl.RawGetString("backward")) {
			opts = append(opts, vim.Backward())
		}
		if lua.LVAsBool(tbl.RawGetString("no_move")) {
			opts = append(opts, vim.NoMove())
		}
		if lua.LVAsBool(tbl.RawGetString("current_line")) {
			opts = append(opts, vim.CurrentLineOnly())
		}
	}

	pos, found, err := m.ctx.Client.Search(pattern, opts...)
	if err != nil {
		L.RaiseError("search: %v", err)
		return 0
	}
	if !found {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(pos.Row))
	L.Push(lua.LNumber(pos.Col))
	return 2
}
