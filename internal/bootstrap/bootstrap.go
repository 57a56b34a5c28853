// bootstrap.go implements the staleness check, binary backup, in-place
// recompile, and re-execution sequence.
package bootstrap

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/mason/internal/model"
	"github.com/mmr-tortoise/mason/internal/runner"
)

const (
	// BackupSuffix is appended to the binary path for the pre-rebuild
	// backup copy.
	BackupSuffix = ".old"

	// EnvGoTool overrides the detected Go toolchain command.
	EnvGoTool = "MASON_GO"

	// EnvGoFlags supplies extra build flags, tokenized on whitespace.
	EnvGoFlags = "MASON_GOFLAGS"
)

// Bootstrap rebuilds the running binary from its own source when the
// source is newer.
type Bootstrap struct {
	// BinaryPath is the running executable, normally os.Args[0].
	BinaryPath string

	// SourcePath is the main-package source file, captured at compile
	// time by the caller. When it does not exist on this machine the
	// bootstrap is a no-op.
	SourcePath string

	// Runner executes the compile and the re-run.
	Runner runner.Runner

	// Log receives staleness diagnostics.
	Log *log.Logger
}

// New creates a Bootstrap for the given binary and source pair.
func New(binaryPath, sourcePath string, r runner.Runner) *Bootstrap {
	return &Bootstrap{
		BinaryPath: binaryPath,
		SourcePath: sourcePath,
		Runner:     r,
		Log:        log.Default(),
	}
}

// Rebuild runs the self-rebuild sequence once.
//
// rebuilt == false means the binary was already current (or there is no
// source checkout to compare against) and the caller should proceed
// normally. rebuilt == true means the fresh binary has already run;
// status is its termination status and the caller must exit with
// status.ExitStatus() without doing anything else. A non-nil error
// means the rebuild could not complete and the process should abort.
func (b *Bootstrap) Rebuild() (rebuilt bool, status model.CommandStatus, err error) {
	// Step 1: staleness check. Missing source (installed binary with no
	// checkout) or missing binary path both mean nothing to compare.
	srcInfo, err := os.Stat(b.SourcePath)
	if err != nil {
		b.logger().Debugf("no rebuild: source %s not present", b.SourcePath)
		return false, model.CommandStatus{}, nil
	}
	binInfo, err := os.Stat(b.BinaryPath)
	if err != nil {
		b.logger().Debugf("no rebuild: binary %s not present", b.BinaryPath)
		return false, model.CommandStatus{}, nil
	}
	if !binInfo.ModTime().Before(srcInfo.ModTime()) {
		return false, model.CommandStatus{}, nil
	}

	b.logger().Infof("source %s is newer than %s, rebuilding", b.SourcePath, b.BinaryPath)

	// Step 2: back up the current binary before overwriting it.
	backup := b.BinaryPath + BackupSuffix
	if err := copyFile(b.BinaryPath, backup, binInfo.Mode()); err != nil {
		return false, model.CommandStatus{}, fmt.Errorf("back up %s: %w", b.BinaryPath, err)
	}

	// Step 3: recompile in place. A failed compile is fatal; the backup
	// is left behind for manual recovery.
	compile := CompileCommand(b.BinaryPath, b.SourcePath)
	status, err = b.Runner.Run(compile)
	if err != nil {
		return false, model.CommandStatus{}, fmt.Errorf("recompile: %w", err)
	}
	if !status.Success() {
		return false, model.CommandStatus{}, fmt.Errorf("recompile: %s", status)
	}

	// Step 4: run the fresh binary once and hand its status back for
	// the caller to exit with.
	status, err = b.Runner.Run([]string{b.BinaryPath})
	if err != nil {
		return false, model.CommandStatus{}, fmt.Errorf("re-run %s: %w", b.BinaryPath, err)
	}
	return true, status, nil
}

// CompileCommand builds the argument vector that recompiles the binary
// from its source package directory.
func CompileCommand(binaryPath, sourcePath string) []string {
	argv := []string{GoTool(), "build"}
	argv = append(argv, runner.SplitArgs(os.Getenv(EnvGoFlags))...)
	argv = append(argv, "-o", binaryPath, filepath.Dir(sourcePath))
	return argv
}

// GoTool returns the command for the Go toolchain that built this
// binary, honoring the MASON_GO override.
func GoTool() string {
	if tool := os.Getenv(EnvGoTool); tool != "" {
		return tool
	}
	switch runtime.Compiler {
	case "gccgo":
		return "gccgo"
	default:
		return "go"
	}
}

// copyFile copies src to dst, truncating any existing dst and creating
// it with the given mode.
func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (b *Bootstrap) logger() *log.Logger {
	if b.Log != nil {
		return b.Log
	}
	return log.Default()
}
