package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/vimdrive/internal/config"
	"github.com/dshills/vimdrive/internal/host/hosttest"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ScriptDir = t.TempDir()
	cfg.WatchScripts = false
	return cfg
}

func TestStartLoadsScriptsAndOpensChannel(t *testing.T) {
	h := hosttest.New()
	cfg := testConfig(t)

	script := `
		local vim = require("vim")
		vim.vars.let("ready", "yes")
	`
	if err := os.WriteFile(filepath.Join(cfg.ScriptDir, "init.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := New(cfg, WithEvaluator(h))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer d.Shutdown()

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start error = %v", err)
	}

	if got := h.Vars["g:ready"]; got != "yes" {
		t.Errorf("g:ready = %q, init.lua did not run", got)
	}

	opened := false
	for _, cmd := range h.Transcript {
		if strings.HasPrefix(cmd, "let g:vimdrive_channel = ch_open(") {
			opened = true
		}
	}
	if !opened {
		t.Errorf("channel open command missing from transcript:\n%s", strings.Join(h.Transcript, "\n"))
	}

	if d.server.Addr() == "" {
		t.Error("channel server has no listen address after Start")
	}
	if got := h.Vars["g:vimdrive_channel"]; got != d.server.Addr() {
		t.Errorf("g:vimdrive_channel = %q, want the server address %q", got, d.server.Addr())
	}
}

func TestStartFailsOnBadListenAddr(t *testing.T) {
	cfg := testConfig(t)
	cfg.ListenAddr = "127.0.0.1:notaport"

	d, err := New(cfg, WithEvaluator(hosttest.New()))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer d.Shutdown()

	if err := d.Start(context.Background()); err == nil {
		t.Error("Start should fail when the channel server cannot listen")
	}
}

func TestShutdownIdempotent(t *testing.T) {
	d, err := New(testConfig(t), WithEvaluator(hosttest.New()))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}

	if err := d.Shutdown(); err != nil {
		t.Errorf("Shutdown error = %v", err)
	}
	if err := d.Shutdown(); err != nil {
		t.Errorf("second Shutdown error = %v", err)
	}
}
