// Package daemon wires the bridge components into a running service: the
// remote driver attached to a Vim server, the channel server Vim calls back
// into, the Lua script runner, and the script directory watcher.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dshills/vimdrive/internal/config"
	"github.com/dshills/vimdrive/internal/host"
	"github.com/dshills/vimdrive/internal/host/channel"
	"github.com/dshills/vimdrive/internal/host/remote"
	"github.com/dshills/vimdrive/internal/script"
	"github.com/dshills/vimdrive/internal/vim"
)

// Daemon is the assembled service.
type Daemon struct {
	cfg    config.Config
	logger *slog.Logger

	driver  *remote.Driver // nil when an evaluator was injected
	client  *vim.Client
	server  *channel.Server
	runner  *script.Runner
	watcher *config.ScriptWatcher
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithLogger sets the daemon's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Daemon) { d.logger = logger }
}

// WithEvaluator substitutes the Vim evaluator, bypassing the remote driver.
// Used by tests.
func WithEvaluator(ev host.Evaluator) Option {
	return func(d *Daemon) { d.client = vim.New(ev, vim.WithChannelVar(d.cfg.ChannelVar)) }
}

// New assembles a daemon from configuration.
func New(cfg config.Config, opts ...Option) (*Daemon, error) {
	d := &Daemon{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.client == nil {
		d.driver = remote.New(
			remote.WithVimPath(cfg.VimPath),
			remote.WithServerName(cfg.ServerName),
		)
		d.client = vim.New(d.driver, vim.WithChannelVar(cfg.ChannelVar))
	}

	d.server = channel.New(d.client.Registry(), channel.WithLogger(d.logger))

	runner, err := script.New(d.client,
		script.WithLogger(d.logger),
		script.WithScriptDir(cfg.ScriptDir),
	)
	if err != nil {
		return nil, fmt.Errorf("build script runner: %w", err)
	}
	d.runner = runner

	return d, nil
}

// Client returns the bridge client.
func (d *Daemon) Client() *vim.Client {
	return d.client
}

// Runner returns the script runner.
func (d *Daemon) Runner() *script.Runner {
	return d.runner
}

// Run starts the daemon and blocks until the context is cancelled, then
// shuts down.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return d.Shutdown()
}

// Start connects to Vim, starts the channel server, opens the channel inside
// Vim, loads scripts, and begins watching the script directory.
func (d *Daemon) Start(ctx context.Context) error {
	if d.driver != nil {
		if err := d.driver.Connect(ctx); err != nil {
			return fmt.Errorf("connect to vim: %w", err)
		}
		d.logger.Info("attached to vim server", "name", d.driver.ServerName())
	}

	if err := d.server.Start(d.cfg.ListenAddr); err != nil {
		return err
	}

	if err := d.client.Command(d.server.OpenCommand(d.cfg.ChannelVar)); err != nil {
		return fmt.Errorf("open channel in vim: %w", err)
	}

	if err := d.runner.LoadScripts(); err != nil {
		return err
	}

	if d.cfg.WatchScripts && d.cfg.ScriptDir != "" {
		watcher, err := config.NewScriptWatcher(d.cfg.ScriptDir, d.reload,
			config.WithWatcherLogger(d.logger))
		if err != nil {
			// A missing script directory should not kill the daemon.
			d.logger.Warn("script watching disabled", "error", err)
		} else {
			d.watcher = watcher
		}
	}

	d.logger.Info("vimdrive running",
		"channel", d.server.Addr(),
		"scripts", d.cfg.ScriptDir)
	return nil
}

// reload is the watcher callback.
func (d *Daemon) reload() {
	if err := d.runner.Reload(); err != nil {
		d.logger.Error("script reload failed", "error", err)
		return
	}
	d.logger.Info("scripts reloaded")
}

// Shutdown stops the watcher, channel server, and interpreter. Safe to call
// more than once.
func (d *Daemon) Shutdown() error {
	var firstErr error

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.watcher = nil
	}
	if err := d.server.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := d.runner.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
