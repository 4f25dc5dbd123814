// Package vim is the command bridge: an ergonomic Go surface over a Vim
// host's textual command interface.
//
// Every method formats a command or expression string and hands it to the
// host through the host.Evaluator interface, or reads a single piece of
// state back out of it. The Client owns a callback.Registry so that key
// mappings, abbreviations, and autocommands can bind Go callables: the
// command text issued into Vim embeds a channel dispatch expression carrying
// the callable's handle, and Vim sends the handle back over the channel when
// the binding fires.
//
// # State preservation
//
// Operations that necessarily perturb shared editor state (moving the
// cursor, consuming a register, switching mode) are wrapped in scoped
// preservation helpers: PreserveCursor, PreserveBuffer, PreserveMode,
// PreserveRegisters, and the PreserveState composition. Each captures the
// targeted state on entry and restores it on every exit path, error
// included.
//
// # Errors
//
// Host failures propagate unchanged, wrapped with the command text by the
// host implementation. There are no retries at this layer: commands are
// cheap and retrying is the caller's call.
package vim
