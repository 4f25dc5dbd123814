package api

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimdrive/internal/vim"
)

// Context provides API modules access to the bridge.
type Context struct {
	// Client is the Vim bridge client.
	Client *vim.Client

	// Invoke runs a Lua function on the owning interpreter under its lock.
	// Callbacks that fire outside script execution (mappings, autocommands)
	// must go through it; calling into the interpreter directly from another
	// goroutine corrupts it.
	Invoke func(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error)
}

// Module is one Lua API area.
type Module interface {
	// Name returns the module name ("command", "vars", ...).
	Name() string

	// Register installs the module's functions into the Lua state under the
	// _vim_<name> global.
	Register(L *lua.LState) error
}

// Registry manages API modules and their injection into Lua states.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns all registered module names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	return names
}

// InjectAll registers every module into the Lua state and installs the vim
// module loader.
func (r *Registry) InjectAll(L *lua.LState) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, mod := range r.modules {
		if err := mod.Register(L); err != nil {
			return fmt.Errorf("register module %q: %w", name, err)
		}
	}
	return installVimLoader(L)
}

// moduleNames is the aggregation order for the vim module loader.
var moduleNames = []string{
	"command", "vars", "options", "editor", "registers",
	"text", "buffers", "keymap", "autocmd", "util",
}

// installVimLoader collects the _vim_* globals into one table and preloads
// it so require("vim") works.
func installVimLoader(L *lua.LState) error {
	vimModule := L.NewTable()

	for _, name := range moduleNames {
		globalName := "_vim_" + name
		val := L.GetGlobal(globalName)
		if val != lua.LNil {
			L.SetField(vimModule, name, val)
			L.SetGlobal(globalName, lua.LNil)
		}
	}

	L.SetField(vimModule, "version", lua.LString("1.0.0"))

	L.PreloadModule("vim", func(L *lua.LState) int {
		L.Push(vimModule)
		return 1
	})
	return nil
}

// DefaultRegistry creates a registry with every standard module registered.
func DefaultRegistry(ctx *Context) (*Registry, error) {
	r := NewRegistry()

	modules := []Module{
		NewCommandModule(ctx),
		NewVarsModule(ctx),
		NewOptionsModule(ctx),
		NewEditorModule(ctx),
		NewRegistersModule(ctx),
		NewTextModule(ctx),
		NewBuffersModule(ctx),
		NewKeymapModule(ctx),
		NewAutoCmdModule(ctx),
		NewUtilModule(ctx),
	}

	for _, mod := range modules {
		if err := r.Register(mod); err != nil {
			return nil, fmt.Errorf("register module %q: %w", mod.Name(), err)
		}
	}
	return r, nil
}
