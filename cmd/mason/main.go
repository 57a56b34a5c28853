// Package main is the entry point for the mason CLI.
//
// Before any command dispatch, the binary checks whether its own source
// is newer than itself and, if so, rebuilds and re-executes: edit the
// source, run the tool, and the tool you ran is the one you just wrote.
// After that check, it delegates all functionality to the internal/cli
// package, which defines cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// by GoReleaser during the release process. During development, they
// default to "dev", "none", and "unknown" respectively.
package main

import (
	"os"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/mason/internal/bootstrap"
	"github.com/mmr-tortoise/mason/internal/cli"
	"github.com/mmr-tortoise/mason/internal/model"
	"github.com/mmr-tortoise/mason/internal/runner"
)

// version, commit, and date are set by GoReleaser at build time
// via ldflags (see .goreleaser.yml). They provide binary identification
// for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	selfRebuild()

	// Inject build-time version info into the CLI package.
	// This decouples the build system (GoReleaser ldflags) from the
	// CLI framework (cobra), keeping main.go minimal.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Create the root command with all subcommands registered,
	// then execute it. Execute handles error formatting and exit codes.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}

// selfRebuild recompiles and re-executes the binary when this source
// file is newer than it. On the rebuild path the process exits with the
// rebuilt binary's status and never reaches command dispatch. When the
// binary or the source cannot be found (an installed binary with no
// checkout), this is a no-op.
func selfRebuild() {
	// The path of this file, captured at compile time. Its directory is
	// the package to rebuild.
	_, source, _, ok := runtime.Caller(0)
	if !ok {
		return
	}

	b := bootstrap.New(os.Args[0], source, runner.NewExecRunner())
	rebuilt, status, err := b.Rebuild()
	if err != nil {
		log.Errorf("self-rebuild failed: %v", err)
		os.Exit(int(model.ExitRebuildFailed))
	}
	if rebuilt {
		os.Exit(status.ExitStatus())
	}
}
