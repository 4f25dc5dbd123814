package vim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/vimdrive/internal/callback"
	"github.com/dshills/vimdrive/internal/host"
)

// DefaultChannelVar is the Vim variable holding the channel back to this
// process. Bindings that fire Go callables send their handle through it.
const DefaultChannelVar = "g:vimdrive_channel"

// Client is the command bridge to a Vim host.
type Client struct {
	ev         host.Evaluator
	registry   *callback.Registry
	channelVar string
}

// Option configures a Client.
type Option func(*Client)

// WithRegistry sets the callback registry the client registers callables in.
func WithRegistry(r *callback.Registry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// WithChannelVar sets the Vim variable name holding the dispatch channel.
func WithChannelVar(name string) Option {
	return func(c *Client) {
		c.channelVar = name
	}
}

// New creates a Client over the given evaluator.
func New(ev host.Evaluator, opts ...Option) *Client {
	c := &Client{
		ev:         ev,
		channelVar: DefaultChannelVar,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = callback.NewRegistry()
	}
	return c
}

// Registry returns the client's callback registry, for wiring into the
// channel server's dispatcher.
func (c *Client) Registry() *callback.Registry {
	return c.registry
}

// Command executes an ex command for its side effects.
func (c *Client) Command(cmd string) error {
	return c.ev.Execute(cmd)
}

// Commands executes a sequence of ex commands, stopping at the first
// failure.
func (c *Client) Commands(cmds ...string) error {
	for _, cmd := range cmds {
		if err := c.ev.Execute(cmd); err != nil {
			return err
		}
	}
	return nil
}

// CaptureCommand executes an ex command and returns the text it printed.
func (c *Client) CaptureCommand(cmd string) (string, error) {
	return c.ev.CaptureOutput(cmd)
}

// Eval evaluates a Vimscript expression and returns its textual result.
func (c *Client) Eval(expr string) (string, error) {
	return c.ev.Eval(expr)
}

// EvalInt evaluates an expression expected to produce an integer.
func (c *Client) EvalInt(expr string) (int, error) {
	out, err := c.ev.Eval(expr)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("vim: expression %q returned %q, not an integer: %w", expr, out, err)
	}
	return n, nil
}

// EvalBool evaluates an expression expected to produce a Vim boolean
// (0 or 1).
func (c *Client) EvalBool(expr string) (bool, error) {
	n, err := c.EvalInt(expr)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// registerFunc stores fn in the registry and returns the dispatch expression
// Vim evaluates to invoke it: a ch_evalexpr call carrying the handle.
func (c *Client) registerFunc(fn callback.Func) string {
	h := c.registry.Register(fn)
	return c.dispatchExpr(h)
}

// dispatchExpr formats the channel round trip for a handle as a Vimscript
// expression.
func (c *Client) dispatchExpr(h callback.Handle) string {
	return fmt.Sprintf("ch_evalexpr(%s, ['dispatch', '%s'])", c.channelVar, h)
}
