// Package cli — init.go implements the "mason init" command.
//
// The init command writes a starter .mason.yaml into the project so
// the available settings are discoverable without reading docs. The
// file contains the built-in defaults, which makes a fresh init a
// no-op configuration-wise.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mason/internal/config"
	"github.com/mmr-tortoise/mason/internal/model"
)

// initFlags holds the flag values for the init command.
// These are bound to cobra flags in NewInitCommand.
type initFlags struct {
	force bool // --force: overwrite an existing settings file
}

// NewInitCommand creates the "init" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.FileName + " with the default settings",
		Long: `Write a starter ` + config.FileName + ` into the current directory (or to the
--config path) listing every setting with its default value.

An existing file is never overwritten without --force.

Examples:
  mason init
  mason init --force
  mason init --config build/.mason.yaml`,

		// No positional arguments are required for the init command.
		Args: cobra.NoArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Overwrite an existing settings file")

	return cmd
}

// runInit is the main logic function for the init command.
func runInit(flags *initFlags) error {
	// The persistent --config flag doubles as the destination, so init
	// can seed a non-default location.
	path := configPath
	if path == "" {
		path = config.FileName
	}

	// Refuse to clobber an existing file unless forced.
	if _, err := os.Stat(path); err == nil && !flags.force {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s already exists (use --force to overwrite)", path))
	}

	if err := config.WriteStarter(path); err != nil {
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to write %s", path), err)
	}

	printInitResult(path)
	return nil
}

// printInitResult outputs the init outcome in text or JSON format,
// depending on the global --json flag.
func printInitResult(path string) {
	if IsJSONOutput() {
		type resultJSON struct {
			Path string `json:"path"`
		}
		data, _ := json.MarshalIndent(resultJSON{Path: path}, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Wrote %s\n", path)
}
