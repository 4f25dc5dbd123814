// Package remote implements host.Evaluator against a running Vim with the
// clientserver feature enabled.
//
// Every operation shells out to the vim binary with --remote-expr, which
// evaluates an expression inside the server and prints the result. Commands
// are routed through Vim's execute() function so a single transport covers
// evaluation, execution, and output capture.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/vimdrive/internal/host"
)

// Sentinel errors for the remote driver.
var (
	// ErrServerNotFound is returned when the named Vim server is not in
	// the server list.
	ErrServerNotFound = errors.New("vim server not found")

	// ErrNoServerName is returned when a driver is built without a server
	// name and discovery finds no running server.
	ErrNoServerName = errors.New("no vim server name")
)

// Runner executes a vim invocation and returns its output. The default
// runner shells out; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, vimPath string, args ...string) (string, error)
}

// execRunner runs vim via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, vimPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, vimPath, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s", vimPath, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s: %w", vimPath, err)
	}
	return string(out), nil
}

// Driver drives a Vim server over the clientserver protocol.
type Driver struct {
	vimPath    string
	serverName string
	timeout    time.Duration
	runner     Runner
}

// Option configures a Driver.
type Option func(*Driver)

// WithVimPath sets the vim binary to invoke. Defaults to "vim".
func WithVimPath(path string) Option {
	return func(d *Driver) { d.vimPath = path }
}

// WithServerName targets a specific Vim server instead of discovering one.
func WithServerName(name string) Option {
	return func(d *Driver) { d.serverName = name }
}

// WithTimeout bounds each remote invocation. Defaults to 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// WithRunner substitutes the command runner.
func WithRunner(r Runner) Option {
	return func(d *Driver) { d.runner = r }
}

// New creates a Driver. Without WithServerName the driver targets whatever
// single server Connect discovers.
func New(opts ...Option) *Driver {
	d := &Driver{
		vimPath: "vim",
		timeout: 10 * time.Second,
		runner:  execRunner{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ServerName returns the name of the server the driver targets. Empty until
// a name is configured or discovered.
func (d *Driver) ServerName() string {
	return d.serverName
}

// GenerateServerName returns a collision-free name for a new Vim server.
func GenerateServerName() string {
	return "VIMDRIVE-" + strings.ToUpper(uuid.NewString()[:8])
}

// Servers returns the names of the running Vim servers.
func (d *Driver) Servers(ctx context.Context) ([]string, error) {
	out, err := d.runner.Run(ctx, d.vimPath, "--serverlist")
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Connect resolves the target server. With a configured name it verifies the
// server is running; without one it adopts the sole running server, failing
// when there are zero or several.
func (d *Driver) Connect(ctx context.Context) error {
	names, err := d.Servers(ctx)
	if err != nil {
		return err
	}

	if d.serverName != "" {
		for _, name := range names {
			if strings.EqualFold(name, d.serverName) {
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrServerNotFound, d.serverName)
	}

	switch len(names) {
	case 0:
		return ErrNoServerName
	case 1:
		d.serverName = names[0]
		return nil
	default:
		return fmt.Errorf("%w: %d servers running, pass an explicit name", ErrNoServerName, len(names))
	}
}

// WaitAvailable polls the server list until the target server appears or the
// context is done.
func (d *Driver) WaitAvailable(ctx context.Context) error {
	if d.serverName == "" {
		return ErrNoServerName
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		names, err := d.Servers(ctx)
		if err == nil {
			for _, name := range names {
				if strings.EqualFold(name, d.serverName) {
					return nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", d.serverName, ctx.Err())
		case <-ticker.C:
		}
	}
}

// remoteExpr evaluates expr in the server and returns its printed result.
// Vim appends a trailing newline to --remote-expr output; it is stripped.
func (d *Driver) remoteExpr(expr string) (string, error) {
	if d.serverName == "" {
		return "", ErrNoServerName
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	out, err := d.runner.Run(ctx, d.vimPath, "--servername", d.serverName, "--remote-expr", expr)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(out, "\n"), nil
}

// Eval evaluates a Vimscript expression in the server.
func (d *Driver) Eval(expr string) (string, error) {
	out, err := d.remoteExpr(expr)
	if err != nil {
		return "", &host.CommandError{Command: expr, Err: err}
	}
	return out, nil
}

// Execute runs an ex command in the server, discarding output.
func (d *Driver) Execute(cmd string) error {
	if _, err := d.remoteExpr(executeExpr(cmd)); err != nil {
		return &host.CommandError{Command: cmd, Err: err}
	}
	return nil
}

// CaptureOutput runs an ex command and returns what it printed. execute()
// prefixes each message with a newline, so the leading one is dropped.
func (d *Driver) CaptureOutput(cmd string) (string, error) {
	out, err := d.remoteExpr(executeExpr(cmd))
	if err != nil {
		return "", &host.CommandError{Command: cmd, Err: err}
	}
	return strings.TrimPrefix(out, "\n"), nil
}

// executeExpr wraps an ex command in execute(), escaping for the
// single-quoted argument.
func executeExpr(cmd string) string {
	return fmt.Sprintf("execute('%s')", strings.ReplaceAll(cmd, "'", "''"))
}
