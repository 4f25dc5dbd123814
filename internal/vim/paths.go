package vim

import (
	"fmt"
	"path/filepath"
)

// Expand evaluates a Vim expand() expression, e.g. "%:p" for the current
// file's full path.
func (c *Client) Expand(what string) (string, error) {
	return c.Eval(fmt.Sprintf("expand(%s)", quoteSingle(what)))
}

// CurrentFile returns the full path of the file in the current buffer.
func (c *Client) CurrentFile() (string, error) {
	return c.Expand("%:p")
}

// CurrentDir returns the directory of the current file.
func (c *Client) CurrentDir() (string, error) {
	file, err := c.CurrentFile()
	if err != nil {
		return "", err
	}
	return filepath.Dir(file), nil
}

// AlternateFile returns the full path of the alternate file.
func (c *Client) AlternateFile() (string, error) {
	return c.Expand("#:p")
}
