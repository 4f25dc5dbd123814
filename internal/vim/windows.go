package vim

import "fmt"

// CurrentWindow returns the current window number.
func (c *Client) CurrentWindow() (int, error) {
	return c.EvalInt("winnr()")
}

// WindowCount returns the number of windows.
func (c *Client) WindowCount() (int, error) {
	return c.EvalInt("winnr('$')")
}

// WindowOfBuffer returns the number of the first window showing the buffer,
// or -1 when none does.
func (c *Client) WindowOfBuffer(buf int) (int, error) {
	return c.EvalInt(fmt.Sprintf("bufwinnr(%d)", buf))
}

// BufferInWindow returns the buffer shown in the given window.
func (c *Client) BufferInWindow(win int) (int, error) {
	return c.EvalInt(fmt.Sprintf("winbufnr(%d)", win))
}

// Split opens a horizontal split and returns the new window's number. A
// size of 0 uses Vim's default height.
func (c *Client) Split(size int) (int, error) {
	return c.split("split", size)
}

// VSplit opens a vertical split and returns the new window's number. A size
// of 0 uses Vim's default width.
func (c *Client) VSplit(size int) (int, error) {
	return c.split("vsplit", size)
}

func (c *Client) split(cmd string, size int) (int, error) {
	if size > 0 {
		cmd = fmt.Sprintf("%d%s", size, cmd)
	}
	if err := c.Command(cmd); err != nil {
		return 0, err
	}
	return c.CurrentWindow()
}
