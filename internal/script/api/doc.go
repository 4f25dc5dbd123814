// Package api exposes the Vim bridge to Lua scripts.
//
// Each API area is a Module that registers its functions into the Lua state
// under an internal _vim_<name> global. The loader then aggregates those
// globals into a single preloaded "vim" module, so scripts write:
//
//	local vim = require("vim")
//	vim.command.run("wincmd p")
//	vim.keymap.map_func("n", "<leader>r", function() ... end)
//
// Modules hold a Context rather than the client directly: callbacks
// registered from Lua fire later, on the channel server's goroutine, and must
// re-enter the interpreter through the runner's Invoke hook.
package api
