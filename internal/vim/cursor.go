package vim

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a cursor position, 1-indexed the way Vim reports it.
type Position struct {
	Row int
	Col int
}

// CursorPosition returns the current cursor position.
//
// In visual mode there are two cursor ends; this reports the moving one
// (the '.' mark).
func (c *Client) CursorPosition() (Position, error) {
	out, err := c.Eval("getpos('.')")
	if err != nil {
		return Position{}, err
	}
	return parsePos(out)
}

// SetCursorPosition moves the cursor.
func (c *Client) SetCursorPosition(pos Position) error {
	return c.Command(fmt.Sprintf("call setpos('.', [0, %d, %d, 0])", pos.Row, pos.Col))
}

// CurrentLine returns the cursor's line number.
func (c *Client) CurrentLine() (int, error) {
	return c.EvalInt("line('.')")
}

// LineCount returns the number of lines in the current buffer.
func (c *Client) LineCount() (int, error) {
	return c.EvalInt("line('$')")
}

// IsLastLine reports whether the cursor sits on the last line.
func (c *Client) IsLastLine() (bool, error) {
	pos, err := c.CursorPosition()
	if err != nil {
		return false, err
	}
	total, err := c.LineCount()
	if err != nil {
		return false, err
	}
	return pos.Row == total, nil
}

// parsePos decodes the textual form of a getpos() list,
// "[bufnum, lnum, col, off]".
func parsePos(s string) (Position, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), "[]")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 4 {
		return Position{}, fmt.Errorf("vim: malformed position %q", s)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("vim: malformed position %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Position{}, fmt.Errorf("vim: malformed position %q: %w", s, err)
	}
	return Position{Row: row, Col: col}, nil
}
