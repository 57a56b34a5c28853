// Package bootstrap keeps the installed binary in sync with its own
// source tree.
//
// At process start, before any command runs, the bootstrap compares the
// modification time of the running binary against the source file that
// produced it. When the source is newer, it backs the binary up to a
// .old sibling, recompiles in place, runs the fresh binary once, and
// exits with that run's status. A binary with no source checkout next
// to it (the common installed case) falls through silently.
//
// Command execution goes through a runner.Runner, so the whole sequence
// is testable without compiling or spawning anything.
package bootstrap
