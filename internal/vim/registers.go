package vim

import "fmt"

// Special registers restored last by PreserveRegisters: restoring a named
// register rewrites the unnamed register as a side effect of the let
// mechanism, so these must be put back after the named ones.
var specialRegisters = []string{"0", `"`}

// GetRegister reads a register's contents. An empty register reads as
// absent.
func (c *Client) GetRegister(name string) (string, bool, error) {
	val, err := c.Eval("@" + name)
	if err != nil {
		return "", false, err
	}
	if val == "" {
		return "", false, nil
	}
	return val, true, nil
}

// SetRegister sets a register's contents.
func (c *Client) SetRegister(name, value string) error {
	return c.Command(fmt.Sprintf(`let @%s = "%s"`, name, EscapeDoubleQuotes(value)))
}

// ClearRegister empties a register.
func (c *Client) ClearRegister(name string) error {
	return c.SetRegister(name, "")
}
