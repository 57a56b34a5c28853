// Package model defines the domain types and value objects for the
// mason CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (Include, IncludeSet, IncludeIndex, CommandStatus) are
// created fresh per invocation and discarded at process end; nothing is
// cached or persisted across runs.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
