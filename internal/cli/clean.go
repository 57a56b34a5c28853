// Package cli — clean.go implements the "mason clean" command.
//
// The clean command removes the self-rebuild backup that accumulates
// next to the binary, plus any artifact paths given as arguments.
// It is deliberately conservative: only paths named explicitly (or the
// well-known backup) are touched, and --dry-run previews the removals.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mason/internal/bootstrap"
	"github.com/mmr-tortoise/mason/internal/model"
)

// cleanFlags holds the flag values for the clean command.
// These are bound to cobra flags in NewCleanCommand.
type cleanFlags struct {
	dryRun bool // --dry-run: print removals without performing them
}

// NewCleanCommand creates the "clean" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean [path]...",
		Short: "Remove the self-rebuild backup and listed artifacts",
		Long: `Remove the ` + bootstrap.BackupSuffix + ` backup left behind by self-rebuilds, plus any
artifact paths listed as arguments. Paths that do not exist are skipped.

Examples:
  mason clean
  mason clean tool tool.o
  mason clean --dry-run`,

		// Extra artifact paths are optional.
		Args: cobra.ArbitraryArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false,
		"Print what would be removed without removing it")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(extra []string, flags *cleanFlags) error {
	// The backup sits next to the running binary, the same path the
	// bootstrap writes it to.
	targets := append([]string{os.Args[0] + bootstrap.BackupSuffix}, extra...)

	removed, missing, err := removeArtifacts(targets, flags.dryRun)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "clean failed", err)
	}
	for _, path := range missing {
		log.Debugf("skipping %s: does not exist", path)
	}

	printCleanResult(removed, missing, flags.dryRun)
	return nil
}

// removeArtifacts removes each existing target, or only reports it when
// dryRun is set. Missing targets are collected, not errors.
func removeArtifacts(targets []string, dryRun bool) (removed, missing []string, err error) {
	for _, target := range targets {
		if _, statErr := os.Stat(target); statErr != nil {
			if os.IsNotExist(statErr) {
				missing = append(missing, target)
				continue
			}
			return removed, missing, fmt.Errorf("failed to stat %s: %w", target, statErr)
		}

		if !dryRun {
			if rmErr := os.Remove(target); rmErr != nil {
				return removed, missing, fmt.Errorf("failed to remove %s: %w", target, rmErr)
			}
		}
		removed = append(removed, target)
	}
	return removed, missing, nil
}

// printCleanResult outputs the clean outcome in text or JSON format,
// depending on the global --json flag.
func printCleanResult(removed, missing []string, dryRun bool) {
	if IsJSONOutput() {
		type resultJSON struct {
			Removed []string `json:"removed"`
			Missing []string `json:"missing"`
			DryRun  bool     `json:"dryRun"`
		}
		result := resultJSON{
			// Empty slices instead of nil so JSON output shows []
			// instead of null.
			Removed: append([]string{}, removed...),
			Missing: append([]string{}, missing...),
			DryRun:  dryRun,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(removed) == 0 {
		fmt.Println("Nothing to clean.")
		return
	}
	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	for _, path := range removed {
		fmt.Printf("%s %s\n", verb, path)
	}
}
