package vim

import (
	"errors"
	"testing"

	"github.com/dshills/vimdrive/internal/host/hosttest"
)

func TestCommand(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	if err := c.Command("set number"); err != nil {
		t.Fatalf("Command error = %v", err)
	}
	if got := h.Options["number"]; got != "1" {
		t.Errorf("number option = %q, want %q", got, "1")
	}
}

func TestCommandsStopAtFirstFailure(t *testing.T) {
	h := hosttest.New()
	want := errors.New("bad command")
	h.FailOn["set bad"] = want
	c := New(h)

	err := c.Commands("set number", "set bad", "set tabstop=4")
	if !errors.Is(err, want) {
		t.Fatalf("Commands error = %v, want %v", err, want)
	}
	if _, ok := h.Options["tabstop"]; ok {
		t.Error("command after the failing one still ran")
	}
}

func TestEvalInt(t *testing.T) {
	h := hosttest.New()
	h.SetLines("one", "two", "three")
	c := New(h)

	n, err := c.EvalInt("line('$')")
	if err != nil {
		t.Fatalf("EvalInt error = %v", err)
	}
	if n != 3 {
		t.Errorf("EvalInt = %d, want 3", n)
	}

	if _, err := c.EvalInt("mode(1)"); err == nil {
		t.Error("EvalInt of a non-integer expression should fail")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	h := hosttest.New()
	h.SetLines("alpha", "beta")
	c := New(h)

	if err := c.SetCursorPosition(Position{Row: 2, Col: 4}); err != nil {
		t.Fatalf("SetCursorPosition error = %v", err)
	}
	pos, err := c.CursorPosition()
	if err != nil {
		t.Fatalf("CursorPosition error = %v", err)
	}
	if pos != (Position{Row: 2, Col: 4}) {
		t.Errorf("CursorPosition = %+v, want {2 4}", pos)
	}

	last, err := c.IsLastLine()
	if err != nil {
		t.Fatalf("IsLastLine error = %v", err)
	}
	if !last {
		t.Error("IsLastLine = false on the last line")
	}
}

func TestMode(t *testing.T) {
	h := hosttest.New()
	h.ModeStr = "V"
	c := New(h)

	mode, err := c.Mode()
	if err != nil {
		t.Fatalf("Mode error = %v", err)
	}
	if mode != "V" {
		t.Errorf("Mode = %q, want V", mode)
	}
	if !IsVisualMode(mode) {
		t.Error("IsVisualMode(V) = false")
	}
	if IsVisualMode("n") || IsVisualMode("i") {
		t.Error("IsVisualMode true for a non-visual mode")
	}
}

func TestEcho(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	if err := c.Echo("it's done"); err != nil {
		t.Fatalf("Echo error = %v", err)
	}
	if len(h.Messages) != 1 || h.Messages[0] != "it's done" {
		t.Errorf("Messages = %v, want [it's done]", h.Messages)
	}

	if err := c.EchoMessage("kept"); err != nil {
		t.Fatalf("EchoMessage error = %v", err)
	}
	if h.Messages[len(h.Messages)-1] != "kept" {
		t.Errorf("Messages = %v", h.Messages)
	}
}

func TestInput(t *testing.T) {
	h := hosttest.New()
	h.InputResponse = "yes"
	c := New(h)

	got, err := c.Input("continue? ")
	if err != nil {
		t.Fatalf("Input error = %v", err)
	}
	if got != "yes" {
		t.Errorf("Input = %q, want yes", got)
	}
}

func TestInputRestoresTypeaheadOnFailure(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	h.FailOn[`input('continue? ')`] = errors.New("interrupted")
	if _, err := c.Input("continue? "); err == nil {
		t.Fatal("Input should fail when the prompt fails")
	}

	// The inputsave() must have been balanced: a further restore has
	// nothing left to pop.
	if err := h.Execute("call inputrestore()"); err == nil {
		t.Error("typeahead save left unbalanced after a failed prompt")
	}
}

func TestFeedKeysLeaderSubstitution(t *testing.T) {
	h := hosttest.New()
	h.Vars["g:mapleader"] = ","
	c := New(h)

	if err := c.FeedKeys(`\<leader>x`); err != nil {
		t.Fatalf("FeedKeys error = %v", err)
	}

	want := `execute "normal ,x"`
	found := false
	for _, cmd := range h.Transcript {
		if cmd == want {
			found = true
		}
	}
	if !found {
		t.Errorf("transcript %v missing %q", h.Transcript, want)
	}
}

func TestFeedKeysLeaderUnset(t *testing.T) {
	h := hosttest.New()
	c := New(h)

	// An undefined mapleader substitutes to nothing instead of failing.
	if err := c.FeedKeys(`\<Leader>x`); err != nil {
		t.Fatalf("FeedKeys error = %v", err)
	}

	want := `execute "normal x"`
	found := false
	for _, cmd := range h.Transcript {
		if cmd == want {
			found = true
		}
	}
	if !found {
		t.Errorf("transcript %v missing %q", h.Transcript, want)
	}
}

func TestExpand(t *testing.T) {
	h := hosttest.New()
	h.Expansions["%:p"] = "/home/user/project/main.go"
	h.Expansions["#:p"] = "/home/user/project/other.go"
	c := New(h)

	file, err := c.CurrentFile()
	if err != nil {
		t.Fatalf("CurrentFile error = %v", err)
	}
	if file != "/home/user/project/main.go" {
		t.Errorf("CurrentFile = %q", file)
	}

	dir, err := c.CurrentDir()
	if err != nil {
		t.Fatalf("CurrentDir error = %v", err)
	}
	if dir != "/home/user/project" {
		t.Errorf("CurrentDir = %q", dir)
	}

	alt, err := c.AlternateFile()
	if err != nil {
		t.Fatalf("AlternateFile error = %v", err)
	}
	if alt != "/home/user/project/other.go" {
		t.Errorf("AlternateFile = %q", alt)
	}
}
