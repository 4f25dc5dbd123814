package vim

import (
	"fmt"
	"regexp"
	"strings"
)

// bufferListPattern matches one line of :ls output: number, flags, then the
// quoted name.
var bufferListPattern = regexp.MustCompile(`(?m)^\s*(\d+)\s+(.+?)\s+"(.+?)"`)

// BufferFlags decodes the flag column of the buffer list.
type BufferFlags struct {
	Unlisted  bool // u
	Current   bool // %
	Alternate bool // #
	Active    bool // a
	Hidden    bool // h
	ReadOnly  bool // =
	Modified  bool // +
	Errors    bool // x
}

// BufferInfo describes one entry in the buffer list.
type BufferInfo struct {
	Number int
	Name   string
	Flags  BufferFlags
}

// Buffers lists all buffers, parsed from :ls output.
func (c *Client) Buffers() (map[int]BufferInfo, error) {
	out, err := c.CaptureCommand("ls")
	if err != nil {
		return nil, err
	}

	buffers := make(map[int]BufferInfo)
	for _, m := range bufferListPattern.FindAllStringSubmatch(out, -1) {
		var num int
		fmt.Sscanf(m[1], "%d", &num)
		buffers[num] = BufferInfo{
			Number: num,
			Name:   m[3],
			Flags:  parseBufferFlags(m[2]),
		}
	}
	return buffers, nil
}

func parseBufferFlags(flags string) BufferFlags {
	return BufferFlags{
		Unlisted:  strings.Contains(flags, "u"),
		Current:   strings.Contains(flags, "%"),
		Alternate: strings.Contains(flags, "#"),
		Active:    strings.Contains(flags, "a"),
		Hidden:    strings.Contains(flags, "h"),
		ReadOnly:  strings.Contains(flags, "="),
		Modified:  strings.Contains(flags, "+"),
		Errors:    strings.Contains(flags, "x"),
	}
}

// CurrentBuffer returns the current buffer number.
func (c *Client) CurrentBuffer() (int, error) {
	return c.EvalInt("bufnr('%')")
}

// SetBuffer switches to the given buffer.
func (c *Client) SetBuffer(num int) error {
	return c.Command(fmt.Sprintf("buffer %d", num))
}

// BufferCount returns the number of listed buffers.
func (c *Client) BufferCount() (int, error) {
	last, err := c.EvalInt("bufnr('$')")
	if err != nil {
		return 0, err
	}

	count := 0
	for i := last; i >= 1; i-- {
		listed, err := c.EvalBool(fmt.Sprintf("buflisted(%d)", i))
		if err != nil {
			return 0, err
		}
		if listed {
			count++
		}
	}
	return count, nil
}

// NewScratchBuffer creates a named scratch buffer (no file, no swap, hidden
// when abandoned) and returns its number. The current buffer is preserved:
// creating a buffer switches to it as a side effect.
func (c *Client) NewScratchBuffer(name string) (int, error) {
	var num int
	err := c.PreserveBuffer(func() error {
		if err := c.Command("new"); err != nil {
			return err
		}
		if err := c.Command("file " + EscapeSpaces(EscapeSingleQuotes(name))); err != nil {
			return err
		}
		if err := c.SetLocalOption("buftype", "nofile"); err != nil {
			return err
		}
		if err := c.SetLocalOption("bufhidden", "hide"); err != nil {
			return err
		}
		if err := c.SetLocalOption("noswapfile", ""); err != nil {
			return err
		}

		var err error
		num, err = c.CurrentBuffer()
		return err
	})
	return num, err
}

// BufferLines returns the lines of a buffer.
func (c *Client) BufferLines(num int) ([]string, error) {
	out, err := c.Eval(fmt.Sprintf(`join(getbufline(%d, 1, '$'), "\n")`, num))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// BufferContents returns a buffer's contents as one string.
func (c *Client) BufferContents(num int) (string, error) {
	lines, err := c.BufferLines(num)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// CurrentBufferContents returns the current buffer's contents.
func (c *Client) CurrentBufferContents() (string, error) {
	num, err := c.CurrentBuffer()
	if err != nil {
		return "", err
	}
	return c.BufferContents(num)
}

// SetBufferLines replaces a buffer's lines.
func (c *Client) SetBufferLines(num int, lines []string) error {
	quoted := make([]string, len(lines))
	for i, line := range lines {
		quoted[i] = quoteSingle(line)
	}
	list := "[" + strings.Join(quoted, ", ") + "]"

	return c.PreserveBuffer(func() error {
		if err := c.SetBuffer(num); err != nil {
			return err
		}
		if err := c.Command(`%delete _`); err != nil {
			return err
		}
		return c.Command(fmt.Sprintf("call setline(1, %s)", list))
	})
}

// SetBufferContents replaces a buffer's contents with s.
func (c *Client) SetBufferContents(num int, s string) error {
	return c.SetBufferLines(num, strings.Split(s, "\n"))
}
