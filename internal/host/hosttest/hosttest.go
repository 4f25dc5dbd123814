// Package hosttest provides an in-memory Vim emulator implementing
// host.Evaluator for tests.
//
// The emulator interprets exactly the command and expression strings the
// bridge emits: variable and option assignment, register reads and writes
// with the unnamed-register aliasing side effect, cursor motion, mode
// transitions driven by fed keys, a line buffer with search, and a buffer
// list with :ls output. Everything executed is appended to a transcript so
// tests can assert on the exact command text as well as on resulting state.
//
// State fields are exported for direct seeding and inspection, in the same
// spirit as the inline mocks used elsewhere in the tree.
package hosttest

import "fmt"

// Pos is a 1-indexed cursor position.
type Pos struct {
	Row int
	Col int
}

// Buffer is one entry in the emulator's buffer list.
type Buffer struct {
	Num    int
	Name   string
	Listed bool
	Lines  []string
}

// Host is the in-memory Vim. The zero value is not usable; call New.
type Host struct {
	// Vars holds variables keyed by their scoped name ("g:x", "b:x").
	Vars map[string]string

	// Options and LocalOptions hold option values; flag options store
	// "1"/"0".
	Options      map[string]string
	LocalOptions map[string]string

	// Registers holds register contents keyed by register name.
	Registers map[string]string

	// Cursor and ModeStr are the shared ambient state the preservation
	// helpers guard.
	Cursor  Pos
	ModeStr string

	// Text model under the cursor, consumed by the normal-mode commands
	// the bridge feeds.
	CurrentWord  string
	DoubleQuoted string
	SingleQuoted string
	VisualText   string

	// Expansions answers expand() queries ("%:p" and friends).
	Expansions map[string]string

	// InputResponse is returned by input().
	InputResponse string

	// Recorded side effects.
	Mappings []string
	Abbrevs  []string
	AutoCmds []string
	Messages []string

	// Transcript records every executed command; Evals every evaluated
	// expression.
	Transcript []string
	Evals      []string

	// FailOn maps exact command or expression text to an error to return,
	// for exercising failure paths.
	FailOn map[string]error

	buffers    []*Buffer
	currentBuf int // index into buffers
	altBuf     int // buffer number, 0 when none
	windows    []int
	currentWin int

	selStart, selEnd Pos
	lastSelStart     Pos
	lastSelEnd       Pos
	lastVisualMode   string
	inputDepth       int
	nextBufNum       int
}

// New creates an emulator with one listed buffer and the cursor at 1,1.
func New() *Host {
	h := &Host{
		Vars:         make(map[string]string),
		Options:      make(map[string]string),
		LocalOptions: make(map[string]string),
		Registers:    make(map[string]string),
		Expansions:   make(map[string]string),
		FailOn:       make(map[string]error),
		Cursor:       Pos{Row: 1, Col: 1},
		ModeStr:      "n",
		nextBufNum:   2,
	}
	h.buffers = []*Buffer{{Num: 1, Name: "main.go", Listed: true, Lines: []string{""}}}
	h.windows = []int{1}
	return h
}

// CurrentBuf returns the current buffer.
func (h *Host) CurrentBuf() *Buffer {
	return h.buffers[h.currentBuf]
}

// SetLines seeds the current buffer's lines.
func (h *Host) SetLines(lines ...string) {
	h.CurrentBuf().Lines = lines
}

// SetSelection seeds the last visual selection.
func (h *Host) SetSelection(start, end Pos, text string) {
	h.selStart, h.selEnd = start, end
	h.lastSelStart, h.lastSelEnd = start, end
	h.VisualText = text
	h.lastVisualMode = "v"
}

// setRegister writes a register, modeling Vim's side effect: writing any
// register other than the unnamed one also rewrites the unnamed register.
func (h *Host) setRegister(name, val string) {
	h.Registers[name] = val
	if name != `"` {
		h.Registers[`"`] = val
	}
}

func (h *Host) bufferByNum(num int) *Buffer {
	for _, b := range h.buffers {
		if b.Num == num {
			return b
		}
	}
	return nil
}

func (h *Host) switchBuffer(num int) error {
	for i, b := range h.buffers {
		if b.Num == num {
			if i != h.currentBuf {
				h.altBuf = h.buffers[h.currentBuf].Num
				h.currentBuf = i
			}
			return nil
		}
	}
	return fmt.Errorf("E86: buffer %d does not exist", num)
}
