// types.go defines the core value types passed between mason's components:
// Include records produced by the directive scanner, the deduplicated
// IncludeSet and per-file IncludeIndex built during a tree scan, the
// CommandStatus returned by the process runner, and the ExitCode/CLIError
// pair used to map failures onto process exit codes.
package model

import (
	"fmt"
	"sort"
)

// Include is a single include directive extracted from a source line.
// It is a pure value type: immutable once constructed, compared and
// ordered by (Target, Quoted).
//
// Quoted distinguishes the two delimiter forms:
//
//	#include "util/log.h"  → Include{Target: "util/log.h", Quoted: true}
//	#include <vector>      → Include{Target: "vector", Quoted: false}
//
// Quoted includes are candidates for resolution relative to the including
// file; angle-bracket includes consult the search-path list only.
type Include struct {
	// Target is the literal text between the delimiters, preserved
	// verbatim (including any interior whitespace).
	Target string `json:"target" yaml:"target"`

	// Quoted is true for the "name" form, false for the <name> form.
	Quoted bool `json:"quoted" yaml:"quoted"`
}

// Less reports whether i orders before other. Ordering is lexicographic
// on (Target, Quoted) with the angle-bracket form before the quoted form
// on equal targets. The ordering exists to make deduplicated storage
// deterministic; it carries no semantic ranking.
func (i Include) Less(other Include) bool {
	if i.Target != other.Target {
		return i.Target < other.Target
	}
	return !i.Quoted && other.Quoted
}

// String renders the include in its source form, delimiters included.
// This is the representation used in scan tables and resolve output.
func (i Include) String() string {
	if i.Quoted {
		return fmt.Sprintf("%q", i.Target)
	}
	return fmt.Sprintf("<%s>", i.Target)
}

// IncludeSet is a deduplicated collection of Include values.
//
// Iteration order (via Items) follows the Include value ordering, not
// discovery order, so two scans of the same file always produce sets
// that print identically. The zero value is an empty set ready for use,
// and a nil set reads as empty.
type IncludeSet struct {
	members map[Include]struct{}
}

// NewIncludeSet creates an IncludeSet seeded with the given includes.
func NewIncludeSet(includes ...Include) *IncludeSet {
	s := &IncludeSet{}
	for _, inc := range includes {
		s.Add(inc)
	}
	return s
}

// Add inserts an include into the set. It returns true if the include
// was not already present, false for a duplicate.
func (s *IncludeSet) Add(inc Include) bool {
	if s.members == nil {
		s.members = make(map[Include]struct{})
	}
	if _, exists := s.members[inc]; exists {
		return false
	}
	s.members[inc] = struct{}{}
	return true
}

// Contains reports whether the include is a member of the set.
func (s *IncludeSet) Contains(inc Include) bool {
	if s == nil {
		return false
	}
	_, exists := s.members[inc]
	return exists
}

// Len returns the number of distinct includes in the set.
func (s *IncludeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Items returns the members sorted by the Include value ordering.
// The returned slice is freshly allocated; callers may modify it.
func (s *IncludeSet) Items() []Include {
	items := make([]Include, 0, len(s.members))
	for inc := range s.members {
		items = append(items, inc)
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].Less(items[b])
	})
	return items
}

// Equal reports whether two sets contain exactly the same includes.
// A nil set is treated as empty on either side.
func (s *IncludeSet) Equal(other *IncludeSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for inc := range s.members {
		if !other.Contains(inc) {
			return false
		}
	}
	return true
}

// IncludeIndex maps a canonical absolute file path to the set of includes
// found in that file. It is built once per scan invocation and discarded
// at process end; there is no persistence or incremental update.
type IncludeIndex map[string]*IncludeSet

// Files returns the indexed file paths in sorted order. Directory
// traversal order is unspecified, so all deterministic output goes
// through this listing.
func (ix IncludeIndex) Files() []string {
	files := make([]string, 0, len(ix))
	for path := range ix {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// TotalIncludes returns the number of distinct includes across all
// indexed files. Used for scan summary output.
func (ix IncludeIndex) TotalIncludes() int {
	total := 0
	for _, set := range ix {
		total += set.Len()
	}
	return total
}

// StatusKind distinguishes the two ways a child process can terminate.
type StatusKind string

const (
	// StatusExited indicates the process terminated normally and
	// reported an exit code.
	StatusExited StatusKind = "exited"

	// StatusSignaled indicates the process was terminated by a signal.
	StatusSignaled StatusKind = "signaled"
)

// signalExitBase is the offset added to a terminating signal number when
// normalizing a signal death into an exit code, matching the convention
// shells use (SIGKILL → 137, SIGSEGV → 139, ...).
const signalExitBase = 128

// CommandStatus is the outcome of one process run: a tagged union of a
// normal exit (with code) or a signal termination (with signal number).
//
// A status is produced by the process runner and consumed immediately by
// its caller, either as a boolean success check or as a normalized exit
// code via ExitStatus. It is never stored long-term.
type CommandStatus struct {
	// Kind selects which of Code and Signal is meaningful.
	Kind StatusKind `json:"kind"`

	// Code is the process exit code. Only meaningful when Kind is
	// StatusExited.
	Code int `json:"code,omitempty"`

	// Signal is the terminating signal number. Only meaningful when
	// Kind is StatusSignaled.
	Signal int `json:"signal,omitempty"`
}

// Exited constructs a CommandStatus for a process that terminated
// normally with the given exit code.
func Exited(code int) CommandStatus {
	return CommandStatus{Kind: StatusExited, Code: code}
}

// Signaled constructs a CommandStatus for a process that was terminated
// by the given signal number.
func Signaled(signal int) CommandStatus {
	return CommandStatus{Kind: StatusSignaled, Signal: signal}
}

// Success reports whether the command completed successfully. Only a
// normal exit with code zero counts; every signal death is a failure.
func (s CommandStatus) Success() bool {
	return s.Kind == StatusExited && s.Code == 0
}

// ExitStatus normalizes the status into a single exit code suitable for
// forwarding as the parent's own exit code: a normal exit passes its code
// through unchanged, a signal death maps to 128+signal.
func (s CommandStatus) ExitStatus() int {
	if s.Kind == StatusSignaled {
		return signalExitBase + s.Signal
	}
	return s.Code
}

// String returns a human-readable description of the status, used in
// diagnostics when a spawned command fails.
func (s CommandStatus) String() string {
	if s.Kind == StatusSignaled {
		return fmt.Sprintf("terminated by signal %d", s.Signal)
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
//
// The build command and the self-rebuild path are exceptions: they exit
// with the child process's own normalized status (CommandStatus.ExitStatus)
// rather than one of these values, so compiler failures pass through
// unchanged.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the configuration file, environment, or
	// a flag value failed validation.
	ExitConfigError ExitCode = 2

	// ExitScanFailed indicates the scan root could not be walked.
	ExitScanFailed ExitCode = 3

	// ExitUnresolvedInclude indicates one or more requested includes
	// could not be resolved against the search paths.
	ExitUnresolvedInclude ExitCode = 4

	// ExitSpawnFailed indicates an external program could not be
	// started (not found, not executable, or an empty command vector).
	ExitSpawnFailed ExitCode = 5

	// ExitRebuildFailed indicates the self-rebuild could not recompile
	// the binary from its own source.
	ExitRebuildFailed ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
