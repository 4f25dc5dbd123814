package vim

// Mode strings as reported by mode(1).
const (
	ModeNormal      = "n"
	ModeVisual      = "v"
	ModeVisualLine  = "V"
	ModeVisualBlock = "\x16" // CTRL-V
	ModeInsert      = "i"
	ModeCommand     = "c"
)

// Mode returns the full current mode string.
func (c *Client) Mode() (string, error) {
	return c.Eval("mode(1)")
}

// IsVisualMode reports whether a mode string names one of the visual modes.
func IsVisualMode(mode string) bool {
	switch mode {
	case ModeVisual, ModeVisualLine, ModeVisualBlock:
		return true
	}
	return false
}
