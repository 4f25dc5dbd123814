package vim

import "fmt"

// Echo prints a message in Vim's command area.
func (c *Client) Echo(msg string) error {
	return c.Command(fmt.Sprintf("echo %s", quoteSingle(msg)))
}

// EchoMessage prints a message and keeps it in the :messages history.
func (c *Client) EchoMessage(msg string) error {
	return c.Command(fmt.Sprintf("echom %s", quoteSingle(msg)))
}

// Redraw forces a full screen redraw.
func (c *Client) Redraw() error {
	return c.Command("redraw!")
}

// Input prompts the user for a line of input. Pending typeahead is saved and
// restored around the prompt.
func (c *Client) Input(prompt string) (string, error) {
	if err := c.Command("call inputsave()"); err != nil {
		return "", err
	}
	out, err := c.Eval(fmt.Sprintf("input(%s)", quoteSingle(prompt)))
	// Restore typeahead whether or not the prompt succeeded.
	if rerr := c.Command("call inputrestore()"); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return "", err
	}
	return out, nil
}
