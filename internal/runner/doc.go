// Package runner executes external commands and reports how they
// terminated.
//
// Every command is echoed to a diagnostic stream in a shell-like
// rendering before it runs, so build logs show exactly what was
// invoked. Termination is reported as a model.CommandStatus tagged
// value: a normal exit carries the code, a signal death carries the
// signal number. Failure to start the program at all (not found, not
// executable) is an error value, distinct from any child status.
//
// The Runner interface exists so callers that orchestrate commands,
// the self-rebuild sequence in particular, can be tested with a fake
// that never spawns a process.
package runner
