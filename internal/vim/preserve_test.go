package vim

import (
	"errors"
	"testing"

	"github.com/dshills/vimdrive/internal/host/hosttest"
)

func TestPreserveCursor(t *testing.T) {
	h := hosttest.New()
	h.SetLines("one", "two", "three")
	h.Cursor = hosttest.Pos{Row: 3, Col: 7}
	c := New(h)

	err := c.PreserveCursor(func() error {
		return c.SetCursorPosition(Position{Row: 1, Col: 1})
	})
	if err != nil {
		t.Fatalf("PreserveCursor error = %v", err)
	}

	if h.Cursor != (hosttest.Pos{Row: 3, Col: 7}) {
		t.Errorf("cursor after block = %+v, want {3 7}", h.Cursor)
	}
}

func TestPreserveCursorOnFailure(t *testing.T) {
	h := hosttest.New()
	h.Cursor = hosttest.Pos{Row: 2, Col: 4}
	c := New(h)

	want := errors.New("wrapped operation failed")
	err := c.PreserveCursor(func() error {
		if err := c.SetCursorPosition(Position{Row: 9, Col: 9}); err != nil {
			return err
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("PreserveCursor error = %v, want %v", err, want)
	}

	// Restoration runs on the failure path too.
	if h.Cursor != (hosttest.Pos{Row: 2, Col: 4}) {
		t.Errorf("cursor after failed block = %+v, want {2 4}", h.Cursor)
	}
}

func TestPreserveBuffer(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	err := c.PreserveBuffer(func() error {
		return c.Command("new")
	})
	if err != nil {
		t.Fatalf("PreserveBuffer error = %v", err)
	}

	num, err := c.CurrentBuffer()
	if err != nil {
		t.Fatalf("CurrentBuffer error = %v", err)
	}
	if num != 1 {
		t.Errorf("current buffer after block = %d, want 1", num)
	}
}

func TestPreserveModeBackIntoVisual(t *testing.T) {
	h := hosttest.New()
	h.SetSelection(hosttest.Pos{Row: 1, Col: 2}, hosttest.Pos{Row: 1, Col: 5}, "text")
	h.ModeStr = "v"
	c := New(h)

	err := c.PreserveMode(func() error {
		return c.FeedKeys(`\<esc>`)
	})
	if err != nil {
		t.Fatalf("PreserveMode error = %v", err)
	}

	// A bare mode value cannot carry a selection: going back into visual
	// mode must reselect with gv.
	if h.ModeStr != "v" {
		t.Errorf("mode after block = %q, want %q", h.ModeStr, "v")
	}
}

func TestPreserveModeOutOfVisual(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	err := c.PreserveMode(func() error {
		return c.FeedKeys("v")
	})
	if err != nil {
		t.Fatalf("PreserveMode error = %v", err)
	}

	// Leaving a visual mode the block entered takes an explicit Esc.
	if h.ModeStr != "n" {
		t.Errorf("mode after block = %q, want %q", h.ModeStr, "n")
	}
}

func TestPreserveModeOnFailure(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	want := errors.New("boom")
	err := c.PreserveMode(func() error {
		if err := c.FeedKeys("v"); err != nil {
			return err
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("PreserveMode error = %v, want %v", err, want)
	}
	if h.ModeStr != "n" {
		t.Errorf("mode after failed block = %q, want %q", h.ModeStr, "n")
	}
}

func TestPreserveRegisters(t *testing.T) {
	h := hosttest.New()
	h.Registers["a"] = "alpha"
	h.Registers["0"] = "zero"
	h.Registers[`"`] = "unnamed"
	c := New(h)

	err := c.PreserveRegisters([]string{"a"}, func() error {
		// The block sees the named register cleared.
		if _, ok, err := c.GetRegister("a"); err != nil || ok {
			t.Errorf("register a inside block: ok=%v err=%v, want empty", ok, err)
		}
		return c.SetRegister("a", "scratch")
	})
	if err != nil {
		t.Fatalf("PreserveRegisters error = %v", err)
	}

	if got := h.Registers["a"]; got != "alpha" {
		t.Errorf("register a after block = %q, want %q", got, "alpha")
	}
	if got := h.Registers["0"]; got != "zero" {
		t.Errorf("register 0 after block = %q, want %q", got, "zero")
	}
	if got := h.Registers[`"`]; got != "unnamed" {
		t.Errorf(`register " after block = %q, want %q`, got, "unnamed")
	}
}

func TestPreserveRegistersCapturesSpecialsBeforeClearing(t *testing.T) {
	h := hosttest.New()
	h.Registers["a"] = "alpha"
	h.Registers[`"`] = "unnamed"
	c := New(h)

	err := c.PreserveRegisters([]string{"a"}, func() error { return nil })
	if err != nil {
		t.Fatalf("PreserveRegisters error = %v", err)
	}

	// Clearing register a on entry rewrites the unnamed register; the
	// unnamed snapshot must predate that clear.
	if got := h.Registers[`"`]; got != "unnamed" {
		t.Errorf(`register " after block = %q, want %q`, got, "unnamed")
	}
}

func TestPreserveRegistersSpecialsNeverShowIntermediateValues(t *testing.T) {
	h := hosttest.New()
	h.Registers["0"] = "yank"
	h.Registers[`"`] = "unnamed"
	c := New(h)

	err := c.PreserveRegisters([]string{"a", "b"}, func() error {
		// Thrash both specials and both named registers mid-block.
		for _, reg := range []string{"a", "b", "0", `"`} {
			if err := c.SetRegister(reg, "mid-"+reg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("PreserveRegisters error = %v", err)
	}

	// Restoring the named registers rewrites the unnamed register as a
	// side effect, so the specials must come back last and exactly.
	if got := h.Registers["0"]; got != "yank" {
		t.Errorf("register 0 after block = %q, want %q", got, "yank")
	}
	if got := h.Registers[`"`]; got != "unnamed" {
		t.Errorf(`register " after block = %q, want %q`, got, "unnamed")
	}
}

func TestPreserveRegistersEmptyRestoresAsClear(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	err := c.PreserveRegisters([]string{"b"}, func() error {
		return c.SetRegister("b", "temporary")
	})
	if err != nil {
		t.Fatalf("PreserveRegisters error = %v", err)
	}

	if _, ok, _ := c.GetRegister("b"); ok {
		t.Errorf("register b after block = %q, want empty", h.Registers["b"])
	}
}

func TestPreserveRegistersOnFailure(t *testing.T) {
	h := hosttest.New()
	h.Registers["a"] = "alpha"
	c := New(h)

	want := errors.New("boom")
	err := c.PreserveRegisters([]string{"a"}, func() error {
		if err := c.SetRegister("a", "junk"); err != nil {
			return err
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("PreserveRegisters error = %v, want %v", err, want)
	}

	if got := h.Registers["a"]; got != "alpha" {
		t.Errorf("register a after failed block = %q, want %q", got, "alpha")
	}
}

func TestPreserveState(t *testing.T) {
	h := hosttest.New()
	h.SetLines("alpha", "beta")
	h.Cursor = hosttest.Pos{Row: 2, Col: 3}
	h.Registers["0"] = "yank"
	h.Registers[`"`] = "unnamed"
	c := New(h)

	want := errors.New("boom")
	err := c.PreserveState(func() error {
		if err := c.SetCursorPosition(Position{Row: 1, Col: 1}); err != nil {
			return err
		}
		if err := c.SetRegister("0", "junk"); err != nil {
			return err
		}
		if err := c.FeedKeys("v"); err != nil {
			return err
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("PreserveState error = %v, want %v", err, want)
	}

	if h.Cursor != (hosttest.Pos{Row: 2, Col: 3}) {
		t.Errorf("cursor after block = %+v, want {2 3}", h.Cursor)
	}
	if h.ModeStr != "n" {
		t.Errorf("mode after block = %q, want n", h.ModeStr)
	}
	if got := h.Registers["0"]; got != "yank" {
		t.Errorf("register 0 after block = %q, want %q", got, "yank")
	}
	if got := h.Registers[`"`]; got != "unnamed" {
		t.Errorf(`register " after block = %q, want %q`, got, "unnamed")
	}
}

func TestPreserveCursorCaptureFailure(t *testing.T) {
	h := hosttest.New()
	h.FailOn["getpos('.')"] = errors.New("no position")
	c := New(h)

	ran := false
	err := c.PreserveCursor(func() error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("PreserveCursor should fail when capture fails")
	}
	if ran {
		t.Error("wrapped operation ran despite capture failure")
	}
}
