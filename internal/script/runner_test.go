package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/callback"
	"github.com/dshills/vimdrive/internal/host/hosttest"
	"github.com/dshills/vimdrive/internal/vim"
)

func newRunner(t *testing.T, opts ...Option) (*Runner, *hosttest.Host) {
	t.Helper()
	h := hosttest.New()
	c := vim.New(h)

	r, err := New(c, opts...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, h
}

// globalString reads a global from the interpreter as a string.
func globalString(t *testing.T, r *Runner, name string) string {
	t.Helper()
	var out string
	err := r.state.WithLua(func(L *lua.LState) error {
		out = L.GetGlobal(name).String()
		return nil
	})
	if err != nil {
		t.Fatalf("read global %s: %v", name, err)
	}
	return out
}

func TestRunStringDrivesBridge(t *testing.T) {
	r, h := newRunner(t)

	err := r.RunString(`
		local vim = require("vim")
		vim.vars.let("greeting", "hello")
		vim.command.run("redraw!")
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}

	if got := h.Vars["g:greeting"]; got != "hello" {
		t.Errorf("g:greeting = %q, want hello", got)
	}
	if len(h.Transcript) == 0 || h.Transcript[len(h.Transcript)-1] != "redraw!" {
		t.Errorf("transcript = %v", h.Transcript)
	}
}

func TestVarRoundTrip(t *testing.T) {
	r, _ := newRunner(t)

	err := r.RunString(`
		local vim = require("vim")
		vim.vars.let("x", 42)
		got = vim.vars.get("x")
		missing = vim.vars.get("absent")
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}

	if got := globalString(t, r, "got"); got != "42" {
		t.Errorf("got = %q, want 42", got)
	}
	if missing := globalString(t, r, "missing"); missing != "nil" {
		t.Errorf("missing = %q, want nil", missing)
	}
}

func TestEditorModule(t *testing.T) {
	r, h := newRunner(t)
	h.Cursor = hosttest.Pos{Row: 5, Col: 3}

	err := r.RunString(`
		local vim = require("vim")
		row, col = vim.editor.cursor()
		vim.editor.set_cursor(2, 1)
		mode = vim.editor.mode()
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}

	if row := globalString(t, r, "row"); row != "5" {
		t.Errorf("row = %q, want 5", row)
	}
	if col := globalString(t, r, "col"); col != "3" {
		t.Errorf("col = %q, want 3", col)
	}
	if h.Cursor != (hosttest.Pos{Row: 2, Col: 1}) {
		t.Errorf("cursor = %+v, want {2 1}", h.Cursor)
	}
	if mode := globalString(t, r, "mode"); mode != "n" {
		t.Errorf("mode = %q, want n", mode)
	}
}

func TestScriptErrorWrapsPath(t *testing.T) {
	r, _ := newRunner(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.lua")
	if err := os.WriteFile(path, []byte("this is not lua ("), 0o644); err != nil {
		t.Fatal(err)
	}

	err := r.RunFile(path)
	if err == nil {
		t.Fatal("RunFile should fail")
	}
	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) {
		t.Fatalf("error %T, want *ScriptError", err)
	}
	if scriptErr.Path != path {
		t.Errorf("Path = %q, want %q", scriptErr.Path, path)
	}
}

func TestLoadScriptsOrder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// init.lua must run first regardless of sort order.
	write("aaa.lua", `order = order .. "a"`)
	write("zzz.lua", `order = order .. "z"`)
	write("init.lua", `order = "i"`)
	write("notes.txt", `ignored`)

	r, _ := newRunner(t, WithScriptDir(dir))
	if err := r.LoadScripts(); err != nil {
		t.Fatalf("LoadScripts error = %v", err)
	}

	if got := globalString(t, r, "order"); got != "iaz" {
		t.Errorf("load order = %q, want iaz", got)
	}
}

func TestLoadScriptsMissingDir(t *testing.T) {
	r, _ := newRunner(t, WithScriptDir(filepath.Join(t.TempDir(), "absent")))

	if err := r.LoadScripts(); err != nil {
		t.Errorf("LoadScripts error = %v, want nil for missing dir", err)
	}
}

func TestCallbackDispatchFromMapping(t *testing.T) {
	r, h := newRunner(t)

	err := r.RunString(`
		local vim = require("vim")
		fired = 0
		vim.keymap.map_func("n", "<leader>x", function()
			fired = fired + 1
		end)
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}

	// Simulate the mapping firing: resolve the handle embedded in the
	// mapping text, the way the channel server would.
	handle := handleFromMapping(t, h)
	if _, err := r.Client().Registry().Dispatch(handle); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}

	if got := globalString(t, r, "fired"); got != "1" {
		t.Errorf("fired = %q, want 1", got)
	}
}

func TestVisualMapCallback(t *testing.T) {
	r, h := newRunner(t)
	h.SetSelection(hosttest.Pos{Row: 1, Col: 1}, hosttest.Pos{Row: 1, Col: 5}, "lower")

	err := r.RunString(`
		local vim = require("vim")
		vim.keymap.visual_map("<leader>u", function(sel)
			return string.upper(sel)
		end)
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}

	handle := handleFromMapping(t, h)
	if _, err := r.Client().Registry().Dispatch(handle); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}

	if h.VisualText != "LOWER" {
		t.Errorf("selection = %q, want LOWER", h.VisualText)
	}
}

func TestReloadInvalidatesHandles(t *testing.T) {
	r, h := newRunner(t)

	err := r.RunString(`
		local vim = require("vim")
		vim.keymap.map_func("n", "q", function() end)
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}
	handle := handleFromMapping(t, h)

	if err := r.Reload(); err != nil {
		t.Fatalf("Reload error = %v", err)
	}

	_, err = r.Client().Registry().Dispatch(handle)
	var stale *callback.StaleHandleError
	if !errors.As(err, &stale) {
		t.Fatalf("Dispatch error = %v, want *StaleHandleError", err)
	}
	if stale.HandleGeneration != 1 || stale.Generation != 2 {
		t.Errorf("generations = (%d, %d), want (1, 2)", stale.HandleGeneration, stale.Generation)
	}
}

func TestReloadClearsUserGlobals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(path, []byte(`loads = (loads or 0) + 1`), 0o644); err != nil {
		t.Fatal(err)
	}

	r, _ := newRunner(t, WithScriptDir(dir))
	if err := r.LoadScripts(); err != nil {
		t.Fatalf("LoadScripts error = %v", err)
	}
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload error = %v", err)
	}

	// Globals were wiped between loads, so the counter starts over.
	if got := globalString(t, r, "loads"); got != "1" {
		t.Errorf("loads = %q, want 1 after reload reset", got)
	}
}

func TestBridgeErrorsSurfaceInLua(t *testing.T) {
	r, _ := newRunner(t)

	// hosttest rejects commands it does not model.
	err := r.RunString(`
		local vim = require("vim")
		vim.command.run("totally bogus command")
	`)
	if err == nil {
		t.Fatal("RunString should propagate the bridge failure")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error = %v", err)
	}
}

func TestPreserveRunsInline(t *testing.T) {
	r, h := newRunner(t)
	h.Cursor = hosttest.Pos{Row: 4, Col: 2}

	err := r.RunString(`
		local vim = require("vim")
		vim.util.preserve(function()
			vim.editor.set_cursor(1, 1)
			moved_row = vim.editor.line()
		end)
		after_row = vim.editor.line()
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}

	if got := globalString(t, r, "moved_row"); got != "1" {
		t.Errorf("moved_row = %q, want 1", got)
	}
	if got := globalString(t, r, "after_row"); got != "4" {
		t.Errorf("after_row = %q, want 4 (restored)", got)
	}
}

// handleFromMapping pulls the dispatch handle out of the last recorded
// mapping.
func handleFromMapping(t *testing.T, h *hosttest.Host) callback.Handle {
	t.Helper()
	if len(h.Mappings) == 0 {
		t.Fatal("no mapping recorded")
	}
	mapping := h.Mappings[len(h.Mappings)-1]

	const marker = "'dispatch', '"
	i := strings.Index(mapping, marker)
	if i < 0 {
		t.Fatalf("no dispatch handle in %q", mapping)
	}
	rest := mapping[i+len(marker):]
	j := strings.Index(rest, "'")
	if j < 0 {
		t.Fatalf("unterminated handle in %q", mapping)
	}
	return callback.Handle(rest[:j])
}
