package vim

import (
	"fmt"

	"github.com/dshills/vimdrive/internal/callback"
)

// Abbrev creates an insert-mode abbreviation expanding to literal text.
func (c *Client) Abbrev(word, expansion string, local bool) error {
	return c.Command(fmt.Sprintf("%s %s %s", abbrevCommand(local), word, expansion))
}

// AbbrevFunc creates an insert-mode abbreviation whose expansion is the
// callable's return value, fetched through the expression register when the
// abbreviation fires.
func (c *Client) AbbrevFunc(word string, fn callback.Func, local bool) error {
	expansion := fmt.Sprintf("<C-r>=%s<CR>", c.registerFunc(fn))
	return c.Command(fmt.Sprintf("%s %s %s", abbrevCommand(local), word, expansion))
}

func abbrevCommand(local bool) string {
	if local {
		return "iabbrev <buffer>"
	}
	return "iabbrev"
}
