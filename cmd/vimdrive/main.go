// Command vimdrive attaches to a running Vim instance and drives it from Lua
// scripts: remote commands and expressions go out over clientserver, Vim
// calls back over a channel when mapped keys, abbreviations, or autocommands
// fire.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/vimdrive/internal/config"
	"github.com/dshills/vimdrive/internal/daemon"
)

// Build information, set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath string
	serverName string
	scriptDir  string
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.serverName != "" {
		cfg.ServerName = opts.serverName
	}
	if opts.scriptDir != "" {
		cfg.ScriptDir = opts.scriptDir
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)

	d, err := daemon.New(cfg, daemon.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds the process logger from the config's level and format.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler), nil
}

func parseFlags() options {
	var opts options
	var showVersion, showHelp bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to config file")
	flag.StringVar(&opts.configPath, "c", config.DefaultPath(), "Path to config file (shorthand)")
	flag.StringVar(&opts.serverName, "server", "", "Vim clientserver name to attach to")
	flag.StringVar(&opts.scriptDir, "scripts", "", "Directory of Lua scripts to load")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("vimdrive %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}
	if showHelp {
		usage()
		os.Exit(0)
	}

	return opts
}

func usage() {
	fmt.Fprintf(os.Stderr, `vimdrive - drive a running Vim from Lua

Usage:
  vimdrive [options]

Options:
  -config, -c <path>    Path to config file (default: %s)
  -server <name>        Vim clientserver name to attach to
  -scripts <dir>        Directory of Lua scripts to load
  -log-level <level>    Log level: debug, info, warn, error
  -version, -v          Show version information
  -help, -h             Show help message

Examples:
  vim --servername EDITOR &
  vimdrive -server EDITOR -scripts ~/.config/vimdrive/scripts
  vimdrive -c ./vimdrive.toml -log-level debug
`, config.DefaultPath())
}
