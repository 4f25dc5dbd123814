package vim

// Text helpers built on key feeding and the yank register. Each one that
// thrashes editor state runs under a preservation wrapper.

// Word returns the word under the cursor.
func (c *Client) Word() (string, error) {
	var word string
	err := c.PreserveState(func() error {
		if err := c.FeedKeys(`"0yiw`); err != nil {
			return err
		}
		val, _, err := c.GetRegister("0")
		word = val
		return err
	})
	return word, err
}

// DeleteWord deletes the word under the cursor and returns it. The cursor
// deliberately moves with the deletion; only mode and the yank register are
// preserved.
func (c *Client) DeleteWord() (string, error) {
	var word string
	err := c.PreserveMode(func() error {
		return c.PreserveRegisters([]string{"0"}, func() error {
			if err := c.FeedKeys(`"0diw`); err != nil {
				return err
			}
			val, _, err := c.GetRegister("0")
			word = val
			return err
		})
	})
	return word, err
}

// ReplaceWord replaces the word under the cursor.
func (c *Client) ReplaceWord(replacement string) error {
	return c.PreserveState(func() error {
		if err := c.SetRegister("0", replacement); err != nil {
			return err
		}
		return c.FeedKeys(`viw"0p`)
	})
}

// InQuotes returns the string under the cursor enclosed in double or single
// quotes, trying double quotes first.
func (c *Client) InQuotes() (string, error) {
	var text string
	err := c.PreserveState(func() error {
		if err := c.FeedKeys(`yi"`); err != nil {
			return err
		}
		val, ok, err := c.GetRegister("0")
		if err != nil {
			return err
		}
		if !ok {
			if err := c.FeedKeys(`yi'`); err != nil {
				return err
			}
			val, _, err = c.GetRegister("0")
			if err != nil {
				return err
			}
		}
		text = val
		return nil
	})
	return text, err
}

// VisualSelection returns the contents of the last visual selection.
func (c *Client) VisualSelection() (string, error) {
	var sel string
	err := c.PreserveState(func() error {
		if err := c.FeedKeys(`\<esc>gvy`); err != nil {
			return err
		}
		val, _, err := c.GetRegister("0")
		sel = val
		return err
	})
	return sel, err
}

// ReplaceVisualSelection replaces the last visual selection.
func (c *Client) ReplaceVisualSelection(replacement string) error {
	return c.PreserveRegisters([]string{"a"}, func() error {
		if err := c.SetRegister("a", replacement); err != nil {
			return err
		}
		if err := c.FeedKeys("gvd"); err != nil {
			return err
		}
		return c.FeedKeys(`"aP`)
	})
}

// VisualRange returns the start and end positions of the last visual
// selection.
func (c *Client) VisualRange() (Position, Position, error) {
	var start, end Position
	err := c.PreserveState(func() error {
		if err := c.FeedKeys(`\<esc>gv`); err != nil {
			return err
		}

		out, err := c.Eval("getpos('v')")
		if err != nil {
			return err
		}
		start, err = parsePos(out)
		if err != nil {
			return err
		}

		return c.PreserveCursor(func() error {
			if err := c.FeedKeys("`>"); err != nil {
				return err
			}
			var err error
			end, err = c.CursorPosition()
			return err
		})
	})
	return start, end, err
}
