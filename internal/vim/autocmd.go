package vim

import "fmt"

// AutoCmdContext is handed to autocommand callbacks. Its methods are
// buffer-local versions of the client's helpers, since an autocommand fires
// with a specific buffer current.
type AutoCmdContext struct {
	c *Client
}

// Client returns the underlying bridge client for operations that have no
// buffer-local form.
func (ctx *AutoCmdContext) Client() *Client {
	return ctx.c
}

// Let sets a buffer-local variable.
func (ctx *AutoCmdContext) Let(name string, value any) error {
	return ctx.c.LetBufferLocal(name, value)
}

// SetOption sets an option locally to the buffer.
func (ctx *AutoCmdContext) SetOption(name, value string) error {
	return ctx.c.SetLocalOption(name, value)
}

// MapKeys creates a buffer-local mapping to raw right-hand-side text.
func (ctx *AutoCmdContext) MapKeys(mode, keys, rhs string, opts ...MapOption) error {
	return ctx.c.MapKeys(mode, keys, rhs, append(opts, BufferLocal())...)
}

// MapFunc creates a buffer-local mapping to a Go callable.
func (ctx *AutoCmdContext) MapFunc(mode, keys string, fn func() (string, error), opts ...MapOption) error {
	return ctx.c.MapFunc(mode, keys, fn, append(opts, BufferLocal())...)
}

// VisualMapFunc creates a buffer-local visual-mode mapping.
func (ctx *AutoCmdContext) VisualMapFunc(keys string, fn VisualFunc, opts ...MapOption) error {
	return ctx.c.VisualMapFunc(keys, fn, append(opts, BufferLocal())...)
}

// Abbrev creates a buffer-local abbreviation.
func (ctx *AutoCmdContext) Abbrev(word, expansion string) error {
	return ctx.c.Abbrev(word, expansion, true)
}

// AbbrevFunc creates a buffer-local abbreviation backed by a callable.
func (ctx *AutoCmdContext) AbbrevFunc(word string, fn func() (string, error)) error {
	return ctx.c.AbbrevFunc(word, fn, true)
}

// OnAutoCmd registers fn to run when event fires for pattern. A pattern of
// "*" matches everything.
//
// The group name must be reproducible across process generations: the group
// is cleared with autocmd! before the new command is installed, so re-running
// the same setup after a reload replaces the old binding instead of stacking
// a second one.
func (c *Client) OnAutoCmd(group, event, pattern string, fn func(*AutoCmdContext) error) error {
	ctx := &AutoCmdContext{c: c}
	call := c.registerFunc(func() (string, error) {
		return "", fn(ctx)
	})

	return c.Commands(
		fmt.Sprintf("augroup %s", group),
		"autocmd!",
		fmt.Sprintf("autocmd %s %s :call %s", event, pattern, call),
		"augroup END",
	)
}

// WhenFileType registers fn to run when a buffer of the given filetype is
// entered. Useful for filetype-specific keymaps and options.
func (c *Client) WhenFileType(group, filetype string, fn func(*AutoCmdContext) error) error {
	return c.OnAutoCmd(group, "FileType", filetype, fn)
}

// SetFileType associates a file pattern with a filetype.
func (c *Client) SetFileType(pattern, filetype string) error {
	return c.Command(fmt.Sprintf("au BufRead,BufNewFile %s set filetype=%s", pattern, filetype))
}
