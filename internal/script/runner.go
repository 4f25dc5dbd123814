package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/script/api"
	"github.com/dshills/vimdrive/internal/vim"
)

// InitScript is the file loaded before any other script in the directory.
const InitScript = "init.lua"

// Runner owns the interpreter, the API modules, and the script directory.
type Runner struct {
	client   *vim.Client
	state    *State
	registry *api.Registry
	logger   *slog.Logger

	scriptDir string

	// reloadMu serializes Reload against script loading.
	reloadMu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithScriptDir sets the directory LoadScripts reads from.
func WithScriptDir(dir string) Option {
	return func(r *Runner) { r.scriptDir = dir }
}

// New creates a Runner bound to the given bridge client.
func New(client *vim.Client, opts ...Option) (*Runner, error) {
	r := &Runner{
		client: client,
		state:  NewState(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	ctx := &api.Context{Client: client, Invoke: r.Invoke}
	registry, err := api.DefaultRegistry(ctx)
	if err != nil {
		r.state.Close()
		return nil, fmt.Errorf("build api registry: %w", err)
	}
	r.registry = registry

	if err := r.inject(); err != nil {
		r.state.Close()
		return nil, err
	}
	return r, nil
}

func (r *Runner) inject() error {
	return r.state.WithLua(func(L *lua.LState) error {
		return r.registry.InjectAll(L)
	})
}

// Invoke runs a Lua function on the runner's interpreter. It is the re-entry
// point for callbacks fired by the channel server.
func (r *Runner) Invoke(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	return r.state.CallFunction(fn, args...)
}

// RunFile executes one script file.
func (r *Runner) RunFile(path string) error {
	if err := r.state.DoFile(path); err != nil {
		return &ScriptError{Path: path, Err: err}
	}
	return nil
}

// RunString executes Lua source directly.
func (r *Runner) RunString(code string) error {
	return r.state.DoString(code)
}

// LoadScripts runs every .lua file in the script directory: init.lua first
// when present, then the rest in name order. A missing directory loads
// nothing.
func (r *Runner) LoadScripts() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	return r.loadScripts()
}

func (r *Runner) loadScripts() error {
	if r.scriptDir == "" {
		return nil
	}

	entries, err := os.ReadDir(r.scriptDir)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug("script directory missing", "dir", r.scriptDir)
			return nil
		}
		return fmt.Errorf("read script dir: %w", err)
	}

	var names []string
	hasInit := false
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if entry.Name() == InitScript {
			hasInit = true
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	if hasInit {
		names = append([]string{InitScript}, names...)
	}

	for _, name := range names {
		path := filepath.Join(r.scriptDir, name)
		r.logger.Info("loading script", "path", path)
		if err := r.RunFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Reload rebuilds the scripting world: the callback registry is cleared so
// handles minted by the previous load fail as stale, user globals are wiped,
// the API modules are re-injected, and the script directory is re-run.
func (r *Runner) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	r.logger.Info("reloading scripts", "dir", r.scriptDir)
	r.client.Registry().Clear()

	if err := r.state.Reset(); err != nil {
		return err
	}
	if err := r.inject(); err != nil {
		return err
	}
	return r.loadScripts()
}

// Client returns the bridge client the runner drives.
func (r *Runner) Client() *vim.Client {
	return r.client
}

// Close releases the interpreter.
func (r *Runner) Close() error {
	return r.state.Close()
}
