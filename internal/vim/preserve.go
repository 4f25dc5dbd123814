package vim

// Scoped state preservation: each helper captures a piece of ambient editor
// state, runs fn, and restores the captured state on every exit path. The
// wrapped operation's error wins over a restoration error; restoration runs
// either way.

// PreserveCursor restores the cursor position around fn.
//
// Not meaningful in visual mode, which has two cursor ends; only the moving
// end is captured.
func (c *Client) PreserveCursor(fn func() error) error {
	saved, err := c.CursorPosition()
	if err != nil {
		return err
	}

	fnErr := fn()

	if err := c.SetCursorPosition(saved); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// PreserveBuffer restores the current buffer around fn.
func (c *Client) PreserveBuffer(fn func() error) error {
	saved, err := c.CurrentBuffer()
	if err != nil {
		return err
	}

	fnErr := fn()

	if err := c.SetBuffer(saved); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// PreserveMode restores the editor mode around fn.
//
// A bare mode value cannot restore a visual selection, so going back into a
// visual mode re-establishes the previous selection with gv. Going the other
// way, leaving a visual mode the block entered, takes an explicit Esc.
func (c *Client) PreserveMode(fn func() error) error {
	saved, err := c.Mode()
	if err != nil {
		return err
	}

	fnErr := fn()

	if err := c.restoreMode(saved); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

func (c *Client) restoreMode(saved string) error {
	current, err := c.Mode()
	if err != nil {
		return err
	}

	switch {
	case current == ModeNormal && IsVisualMode(saved):
		return c.FeedKeys("gv")
	case IsVisualMode(current) && saved == ModeNormal:
		return c.FeedKeys(`\<esc>`)
	}
	return nil
}

// PreserveRegisters restores the named registers around fn, along with the
// special registers 0 and " whether named or not.
//
// Named registers are captured and cleared on entry so the block sees them
// empty. The specials are captured without clearing, and before the named
// registers are cleared: clearing one special rewrites the other, and
// clearing a named register rewrites the unnamed one. On exit the named
// registers are restored first and the specials last, because restoring a
// named register itself perturbs the unnamed register as a side effect of
// the let mechanism.
func (c *Client) PreserveRegisters(regs []string, fn func() error) error {
	saved := make(map[string]*string, len(regs)+len(specialRegisters))

	capture := func(reg string) error {
		val, ok, err := c.GetRegister(reg)
		if err != nil {
			return err
		}
		if ok {
			saved[reg] = &val
		} else {
			saved[reg] = nil
		}
		return nil
	}

	for _, reg := range regs {
		if err := capture(reg); err != nil {
			return err
		}
	}
	for _, reg := range specialRegisters {
		if _, dup := saved[reg]; dup {
			continue
		}
		if err := capture(reg); err != nil {
			return err
		}
	}
	for _, reg := range regs {
		if err := c.ClearRegister(reg); err != nil {
			return err
		}
	}

	fnErr := fn()

	restore := func(reg string) error {
		contents, captured := saved[reg]
		if !captured {
			return nil
		}
		if contents == nil {
			return c.ClearRegister(reg)
		}
		return c.SetRegister(reg, *contents)
	}

	var restoreErr error
	for _, reg := range regs {
		if isSpecialRegister(reg) {
			continue
		}
		if err := restore(reg); err != nil && restoreErr == nil {
			restoreErr = err
		}
	}
	for _, reg := range specialRegisters {
		if err := restore(reg); err != nil && restoreErr == nil {
			restoreErr = err
		}
	}

	if fnErr != nil {
		return fnErr
	}
	return restoreErr
}

func isSpecialRegister(reg string) bool {
	for _, s := range specialRegisters {
		if reg == s {
			return true
		}
	}
	return false
}

// PreserveState composes mode, cursor, and basic register preservation
// around fn: the general wrapper for operations that thrash editor state.
func (c *Client) PreserveState(fn func() error) error {
	return c.PreserveMode(func() error {
		return c.PreserveCursor(func() error {
			return c.PreserveRegisters(nil, fn)
		})
	})
}
