package api

import (
	"sort"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/host/hosttest"
	"github.com/dshills/vimdrive/internal/vim"
)

func testContext(t *testing.T) (*Context, *hosttest.Host) {
	t.Helper()
	h := hosttest.New()
	c := vim.New(h)
	ctx := &Context{
		Client: c,
		Invoke: func(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
			t.Fatal("Invoke should not be needed in this test")
			return nil, nil
		},
	}
	return ctx, h
}

func TestDefaultRegistryHasAllModules(t *testing.T) {
	ctx, _ := testContext(t)

	r, err := DefaultRegistry(ctx)
	if err != nil {
		t.Fatalf("DefaultRegistry error = %v", err)
	}

	got := r.List()
	sort.Strings(got)
	want := append([]string(nil), moduleNames...)
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("modules = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("modules = %v, want %v", got, want)
			break
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ctx, _ := testContext(t)

	r := NewRegistry()
	if err := r.Register(NewUtilModule(ctx)); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := r.Register(NewUtilModule(ctx)); err == nil {
		t.Error("duplicate Register should fail")
	}
}

func TestInjectAllAggregatesVimModule(t *testing.T) {
	ctx, h := testContext(t)

	r, err := DefaultRegistry(ctx)
	if err != nil {
		t.Fatalf("DefaultRegistry error = %v", err)
	}

	L := lua.NewState()
	defer L.Close()

	if err := r.InjectAll(L); err != nil {
		t.Fatalf("InjectAll error = %v", err)
	}

	err = L.DoString(`
		local vim = require("vim")
		for _, name in ipairs({"command", "vars", "options", "editor",
			"registers", "text", "buffers", "keymap", "autocmd", "util"}) do
			if vim[name] == nil then
				error("missing module: " .. name)
			end
		end
		if _vim_command ~= nil then
			error("internal global leaked")
		end
		vim.util.message("from lua")
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}

	if len(h.Messages) != 1 || h.Messages[0] != "from lua" {
		t.Errorf("Messages = %v", h.Messages)
	}
}
