package vim

import (
	"fmt"

	"github.com/dshills/vimdrive/internal/callback"
)

type mapConfig struct {
	recursive         bool
	bufferLocal       bool
	preserveSelection bool
}

// MapOption adjusts key mapping behavior.
type MapOption func(*mapConfig)

// Recursive makes the mapping's right-hand side subject to further mapping.
// Mappings are non-recursive by default.
func Recursive() MapOption {
	return func(cfg *mapConfig) { cfg.recursive = true }
}

// BufferLocal restricts the mapping to the current buffer.
func BufferLocal() MapOption {
	return func(cfg *mapConfig) { cfg.bufferLocal = true }
}

// PreserveSelection reselects the visual selection after a visual-mode
// callback runs.
func PreserveSelection() MapOption {
	return func(cfg *mapConfig) { cfg.preserveSelection = true }
}

// VisualFunc is a visual-mode callback. It receives the selection contents;
// when replace is true the selection is replaced with replacement.
type VisualFunc func(selection string) (replacement string, replace bool, err error)

// MapKeys binds keys to raw right-hand-side text in the given mode. An
// empty mode maps in all of normal, visual, and operator-pending.
func (c *Client) MapKeys(mode, keys, rhs string, opts ...MapOption) error {
	cfg := applyMapOptions(opts)
	return c.Command(fmt.Sprintf("%s %s %s", mapCommand(mode, cfg), keys, rhs))
}

// MapFunc binds keys to a Go callable in the given mode. The callable is
// registered in the callback registry and the mapping's right-hand side
// dispatches its handle over the channel.
func (c *Client) MapFunc(mode, keys string, fn callback.Func, opts ...MapOption) error {
	cfg := applyMapOptions(opts)
	rhs := fmt.Sprintf(":call %s<CR>", c.registerFunc(fn))
	return c.Command(fmt.Sprintf("%s <silent> %s %s", mapCommand(mode, cfg), keys, rhs))
}

// VisualMapFunc binds keys in visual mode to a callable that receives the
// selection contents. A replacement, when requested, replaces the selection.
func (c *Client) VisualMapFunc(keys string, fn VisualFunc, opts ...MapOption) error {
	cfg := applyMapOptions(opts)

	wrapped := func() (string, error) {
		sel, err := c.VisualSelection()
		if err != nil {
			return "", err
		}
		replacement, replace, err := fn(sel)
		if err != nil {
			return "", err
		}
		if replace {
			if err := c.ReplaceVisualSelection(replacement); err != nil {
				return "", err
			}
		}
		if cfg.preserveSelection {
			return "", c.ReselectVisual()
		}
		return "", nil
	}

	return c.MapFunc(ModeVisual, keys, wrapped, opts...)
}

func applyMapOptions(opts []MapOption) mapConfig {
	var cfg mapConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// mapCommand composes the ex command for a mapping: mode prefix, nore unless
// recursive, <buffer> when local.
func mapCommand(mode string, cfg mapConfig) string {
	cmd := "map"
	if !cfg.recursive {
		cmd = "nore" + cmd
	}
	if mode != "" {
		cmd = mode + cmd
	}
	if cfg.bufferLocal {
		cmd += " <buffer>"
	}
	return cmd
}
