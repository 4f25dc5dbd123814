package vim

import (
	"strings"
	"testing"

	"github.com/dshills/vimdrive/internal/callback"
	"github.com/dshills/vimdrive/internal/host/hosttest"
)

func lastMapping(t *testing.T, h *hosttest.Host) string {
	t.Helper()
	if len(h.Mappings) == 0 {
		t.Fatal("no mapping recorded")
	}
	return h.Mappings[len(h.Mappings)-1]
}

func TestMapKeys(t *testing.T) {
	tests := []struct {
		name string
		mode string
		opts []MapOption
		want string
	}{
		{"normal", "n", nil, "nnoremap gd :YcmCompleter GoTo<CR>"},
		{"all modes", "", nil, "noremap gd :YcmCompleter GoTo<CR>"},
		{"recursive", "n", []MapOption{Recursive()}, "nmap gd :YcmCompleter GoTo<CR>"},
		{"buffer local", "v", []MapOption{BufferLocal()}, "vnoremap <buffer> gd :YcmCompleter GoTo<CR>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hosttest.New()
			c := New(h)

			if err := c.MapKeys(tt.mode, "gd", ":YcmCompleter GoTo<CR>", tt.opts...); err != nil {
				t.Fatalf("MapKeys error = %v", err)
			}
			if got := lastMapping(t, h); got != tt.want {
				t.Errorf("mapping = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapFunc(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	called := 0
	err := c.MapFunc("n", "<leader>r", func() (string, error) {
		called++
		return "", nil
	})
	if err != nil {
		t.Fatalf("MapFunc error = %v", err)
	}

	mapping := lastMapping(t, h)
	if !strings.HasPrefix(mapping, "nnoremap <silent> <leader>r :call ch_evalexpr(g:vimdrive_channel, ['dispatch', '") {
		t.Errorf("mapping = %q", mapping)
	}
	if !strings.HasSuffix(mapping, "'])<CR>") {
		t.Errorf("mapping = %q", mapping)
	}

	// Simulate Vim firing the binding: the handle embedded in the mapping
	// round-trips through the registry.
	if c.Registry().Len() != 1 {
		t.Fatalf("registry has %d entries, want 1", c.Registry().Len())
	}
	handle := extractHandle(t, mapping)
	if _, err := c.Registry().Dispatch(callback.Handle(handle)); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}
	if called != 1 {
		t.Errorf("callback invoked %d times, want 1", called)
	}
}

func extractHandle(t *testing.T, cmd string) string {
	t.Helper()
	const marker = "'dispatch', '"
	i := strings.Index(cmd, marker)
	if i < 0 {
		t.Fatalf("no dispatch handle in %q", cmd)
	}
	rest := cmd[i+len(marker):]
	j := strings.Index(rest, "'")
	if j < 0 {
		t.Fatalf("unterminated handle in %q", cmd)
	}
	return rest[:j]
}

func TestVisualMapFuncReplacesSelection(t *testing.T) {
	h := hosttest.New()
	h.SetSelection(hosttest.Pos{Row: 1, Col: 1}, hosttest.Pos{Row: 1, Col: 5}, "lower")
	c := New(h)

	err := c.VisualMapFunc("<leader>u", func(sel string) (string, bool, error) {
		if sel != "lower" {
			t.Errorf("callback selection = %q, want lower", sel)
		}
		return strings.ToUpper(sel), true, nil
	})
	if err != nil {
		t.Fatalf("VisualMapFunc error = %v", err)
	}

	handle := extractHandle(t, lastMapping(t, h))
	if _, err := c.Registry().Dispatch(callback.Handle(handle)); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}

	if h.VisualText != "LOWER" {
		t.Errorf("selection after dispatch = %q, want LOWER", h.VisualText)
	}
}

func TestVisualMapFuncNoReplacement(t *testing.T) {
	h := hosttest.New()
	h.SetSelection(hosttest.Pos{Row: 1, Col: 1}, hosttest.Pos{Row: 1, Col: 5}, "keep me")
	c := New(h)

	err := c.VisualMapFunc("<leader>i", func(sel string) (string, bool, error) {
		return "", false, nil
	})
	if err != nil {
		t.Fatalf("VisualMapFunc error = %v", err)
	}

	handle := extractHandle(t, lastMapping(t, h))
	if _, err := c.Registry().Dispatch(callback.Handle(handle)); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}

	if h.VisualText != "keep me" {
		t.Errorf("selection after dispatch = %q, want keep me", h.VisualText)
	}
}

func TestVisualMapFuncPreserveSelection(t *testing.T) {
	h := hosttest.New()
	h.SetSelection(hosttest.Pos{Row: 2, Col: 1}, hosttest.Pos{Row: 2, Col: 4}, "sel")
	c := New(h)

	err := c.VisualMapFunc("<leader>p", func(sel string) (string, bool, error) {
		return "repl", true, nil
	}, PreserveSelection())
	if err != nil {
		t.Fatalf("VisualMapFunc error = %v", err)
	}

	handle := extractHandle(t, lastMapping(t, h))
	if _, err := c.Registry().Dispatch(callback.Handle(handle)); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}

	if h.ModeStr != "v" {
		t.Errorf("mode after dispatch = %q, want v (reselected)", h.ModeStr)
	}
}

func TestAbbrev(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	if err := c.Abbrev("teh", "the", false); err != nil {
		t.Fatalf("Abbrev error = %v", err)
	}
	if len(h.Abbrevs) != 1 || h.Abbrevs[0] != "iabbrev teh the" {
		t.Errorf("Abbrevs = %v", h.Abbrevs)
	}

	if err := c.Abbrev("fo", "foo", true); err != nil {
		t.Fatalf("Abbrev error = %v", err)
	}
	if got := h.Abbrevs[len(h.Abbrevs)-1]; got != "iabbrev <buffer> fo foo" {
		t.Errorf("local abbrev = %q", got)
	}
}

func TestAbbrevFunc(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	err := c.AbbrevFunc("sig", func() (string, error) {
		return "-- regards", nil
	}, false)
	if err != nil {
		t.Fatalf("AbbrevFunc error = %v", err)
	}

	abbrev := h.Abbrevs[len(h.Abbrevs)-1]
	if !strings.Contains(abbrev, "<C-r>=ch_evalexpr(g:vimdrive_channel, ['dispatch', '") {
		t.Errorf("abbrev = %q", abbrev)
	}

	// The expansion is the callable's return value.
	got, err := c.Registry().Dispatch(callback.Handle(extractHandle(t, abbrev)))
	if err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}
	if got != "-- regards" {
		t.Errorf("Dispatch = %q, want -- regards", got)
	}
}
