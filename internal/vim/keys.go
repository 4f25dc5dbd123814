package vim

import (
	"fmt"
	"regexp"
	"strings"
)

var leaderPattern = regexp.MustCompile(`(?i)\\<leader>`)

// FeedKeys feeds keys into Vim as if typed, honoring the user's key
// mappings. Special key notation like \<Esc> is expanded by Vim.
// Occurrences of \<leader> are substituted with the user's mapleader first:
// "execute normal" does not expand it.
func (c *Client) FeedKeys(keys string) error {
	return c.feedKeys(keys, true)
}

// FeedKeysRaw feeds keys bypassing mappings (normal!).
func (c *Client) FeedKeysRaw(keys string) error {
	return c.feedKeys(keys, false)
}

func (c *Client) feedKeys(keys string, useMappings bool) error {
	keys = EscapeDoubleQuotes(keys)

	cmd := "normal"
	if useMappings {
		// Only resolve mapleader when the keys mention it: reading an
		// undefined variable would fail the whole feed.
		if strings.Contains(strings.ToLower(keys), "leader") {
			leader, err := c.Leader()
			if err != nil {
				return err
			}
			keys = leaderPattern.ReplaceAllString(keys, leader)
		}
	} else {
		cmd += "!"
	}

	return c.Command(fmt.Sprintf(`execute "%s %s"`, cmd, keys))
}

// Leader returns the user's mapleader, or "" when unset.
func (c *Client) Leader() (string, error) {
	exists, err := c.EvalBool("exists('g:mapleader')")
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	return c.Eval("mapleader")
}

// ReselectVisual re-establishes the last visual selection.
func (c *Client) ReselectVisual() error {
	return c.FeedKeys("gv")
}
