// runner.go implements command rendering, spawning, and termination
// classification, plus the whitespace tokenizer for flag values taken
// from environment variables.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"unicode"

	"github.com/mmr-tortoise/mason/internal/model"
)

// ErrEmptyCommand is returned when Run is given a zero-length argument
// vector. There is no command to speak of, so nothing is echoed and
// nothing is spawned.
var ErrEmptyCommand = errors.New("empty command")

// ErrUnquotableArgument is returned by Render for an argument that
// contains a double-quote character. The rendering has no escape
// syntax, so such an argument cannot be shown faithfully.
var ErrUnquotableArgument = errors.New("argument contains a quote character")

// Runner runs a command to completion and reports its termination
// status. Implementations block until the child exits.
type Runner interface {
	Run(argv []string) (model.CommandStatus, error)
}

// ExecRunner runs commands as real OS processes via os/exec, searching
// PATH when argv[0] is not a path. The zero value writes the command
// echo and the child's output to the process's own streams.
type ExecRunner struct {
	// Echo receives the "[CMD] ..." line before each spawn.
	// Defaults to os.Stdout.
	Echo io.Writer

	// Stdout and Stderr receive the child's output.
	// Default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner wired to the process's standard
// streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Echo:   os.Stdout,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run echoes argv in rendered form, spawns it, and blocks until the
// child terminates.
//
// The returned status distinguishes a normal exit from a signal death.
// An error means the command never produced a status: empty argv, an
// unrenderable argument, or a spawn failure such as the program not
// being found.
func (r *ExecRunner) Run(argv []string) (model.CommandStatus, error) {
	if len(argv) == 0 {
		return model.CommandStatus{}, ErrEmptyCommand
	}

	rendered, err := Render(argv)
	if err != nil {
		return model.CommandStatus{}, err
	}
	fmt.Fprintf(r.echo(), "[CMD] %s\n", rendered)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	cmd.Stdin = os.Stdin

	return classifyWait(argv[0], cmd.Run())
}

// classifyWait turns the result of exec.Cmd.Run into a CommandStatus.
// A wait that reports a stopped or continued child never surfaces here;
// os/exec keeps waiting until actual termination.
func classifyWait(name string, err error) (model.CommandStatus, error) {
	if err == nil {
		return model.Exited(0), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return model.CommandStatus{}, fmt.Errorf("start %s: %w", name, err)
	}

	if ws, ok := exitErr.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return model.Signaled(int(ws.Signal())), nil
	}
	return model.Exited(exitErr.ExitCode()), nil
}

// Render joins argv into a single human-readable command line.
// Arguments containing whitespace (and empty arguments) are wrapped in
// double quotes so the boundaries stay visible. An argument containing
// a double quote cannot be rendered and yields ErrUnquotableArgument.
func Render(argv []string) (string, error) {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		if strings.Contains(arg, `"`) {
			return "", fmt.Errorf("render %q: %w", arg, ErrUnquotableArgument)
		}
		if arg == "" || strings.IndexFunc(arg, unicode.IsSpace) >= 0 {
			arg = `"` + arg + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " "), nil
}

// SplitArgs tokenizes a flag string from an environment variable or
// configuration value on runs of whitespace. There is no quoting
// support: a flag value containing spaces cannot be expressed, which
// matches how CXXFLAGS-style variables are conventionally consumed.
func SplitArgs(s string) []string {
	return strings.Fields(s)
}

func (r *ExecRunner) echo() io.Writer {
	if r.Echo != nil {
		return r.Echo
	}
	return os.Stdout
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
