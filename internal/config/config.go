// Package config loads daemon configuration.
//
// Configuration comes from three layers, lowest priority first: built-in
// defaults, a TOML file, and VIMDRIVE_* environment variables. A missing
// config file is not an error; the defaults stand.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the daemon configuration.
type Config struct {
	// VimPath is the vim binary to invoke for remote commands.
	VimPath string `toml:"vim_path"`

	// ServerName targets a specific Vim clientserver instance. Empty means
	// discover the sole running server.
	ServerName string `toml:"server_name"`

	// ScriptDir is the directory of Lua scripts to load.
	ScriptDir string `toml:"script_dir"`

	// ListenAddr is the channel server's listen address.
	ListenAddr string `toml:"listen_addr"`

	// ChannelVar is the Vim variable holding the channel, embedded in every
	// dispatch expression.
	ChannelVar string `toml:"channel_var"`

	// WatchScripts reloads scripts when files in ScriptDir change.
	WatchScripts bool `toml:"watch_scripts"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		VimPath:      "vim",
		ScriptDir:    defaultScriptDir(),
		ListenAddr:   "127.0.0.1:0",
		ChannelVar:   "g:vimdrive_channel",
		WatchScripts: true,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vimdrive", "config.toml")
}

func defaultScriptDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vimdrive", "scripts")
}

// Load builds the configuration from path layered over the defaults, then
// applies environment overrides. A missing file loads defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults stand.
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from VIMDRIVE_* environment variables.
func (c *Config) applyEnv() {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	set("VIMDRIVE_VIM_PATH", &c.VimPath)
	set("VIMDRIVE_SERVER_NAME", &c.ServerName)
	set("VIMDRIVE_SCRIPT_DIR", &c.ScriptDir)
	set("VIMDRIVE_LISTEN_ADDR", &c.ListenAddr)
	set("VIMDRIVE_CHANNEL_VAR", &c.ChannelVar)
	set("VIMDRIVE_LOG_LEVEL", &c.LogLevel)
	set("VIMDRIVE_LOG_FORMAT", &c.LogFormat)

	if v, ok := os.LookupEnv("VIMDRIVE_WATCH_SCRIPTS"); ok {
		c.WatchScripts = v == "1" || v == "true"
	}
}

// Validate checks the configuration for values Load cannot default around.
func (c *Config) Validate() error {
	if c.VimPath == "" {
		return fmt.Errorf("config: vim_path must not be empty")
	}
	if c.ChannelVar == "" {
		return fmt.Errorf("config: channel_var must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}
