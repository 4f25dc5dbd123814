package vim

import (
	"fmt"
	"strings"
)

type searchConfig struct {
	wrap     bool
	backward bool
	move     bool
	curline  bool
}

// SearchOption adjusts search behavior.
type SearchOption func(*searchConfig)

// NoWrap stops the search at the end of the file instead of wrapping.
func NoWrap() SearchOption {
	return func(cfg *searchConfig) { cfg.wrap = false }
}

// Backward searches toward the start of the file.
func Backward() SearchOption {
	return func(cfg *searchConfig) { cfg.backward = true }
}

// NoMove leaves the cursor where it was, reporting the match position only.
func NoMove() SearchOption {
	return func(cfg *searchConfig) { cfg.move = false }
}

// CurrentLineOnly limits the search to the cursor's line.
func CurrentLineOnly() SearchOption {
	return func(cfg *searchConfig) { cfg.curline = true }
}

// Search looks for pattern and returns the position of the next match. The
// second return is false when there is no match. By default the search wraps,
// runs forward, and moves the cursor to the match.
func (c *Client) Search(pattern string, opts ...SearchOption) (Position, bool, error) {
	cfg := searchConfig{wrap: true, move: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var flags strings.Builder
	if cfg.wrap {
		flags.WriteString("w")
	} else {
		flags.WriteString("W")
	}
	if cfg.backward {
		flags.WriteString("b")
	}

	run := func() (Position, bool, error) {
		expr := fmt.Sprintf("search(%s, '%s')", quoteSingle(pattern), flags.String())
		if cfg.curline {
			line, err := c.CurrentLine()
			if err != nil {
				return Position{}, false, err
			}
			expr = fmt.Sprintf("search(%s, '%s', %d)", quoteSingle(pattern), flags.String(), line)
		}

		line, err := c.EvalInt(expr)
		if err != nil {
			return Position{}, false, err
		}
		if line == 0 {
			return Position{}, false, nil
		}
		pos, err := c.CursorPosition()
		if err != nil {
			return Position{}, false, err
		}
		return pos, true, nil
	}

	if cfg.move {
		return run()
	}

	var pos Position
	var found bool
	err := c.PreserveCursor(func() error {
		var err error
		pos, found, err = run()
		return err
	})
	return pos, found, err
}
