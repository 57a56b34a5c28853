// Package cli — resolve.go implements the "mason resolve" command.
//
// The resolve command answers "where would this include come from"
// for one or more targets, using the same search rules the scan
// command applies tree-wide. It exists for quick interactive checks
// and for scripting: the exit code distinguishes "all resolved" from
// "at least one miss".
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mason/internal/model"
	"github.com/mmr-tortoise/mason/internal/resolve"
)

// resolveFlags holds the flag values for the resolve command.
// These are bound to cobra flags in NewResolveCommand.
type resolveFlags struct {
	includeDirs []string // -I: extra search directories
	quoted      bool     // --quoted: treat targets as "..." includes
	from        string   // --from: the including file for relative resolution
}

// NewResolveCommand creates the "resolve" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewResolveCommand() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve <target>...",
		Short: "Resolve include targets to concrete files",
		Long: `Resolve one or more include targets against the configured search paths
and print where each would come from.

Targets are treated as angle-bracket includes unless --quoted is given.
With --quoted and --from, the including file's directory is searched
first, exactly as the compiler would.

Examples:
  mason resolve vector config.h
  mason resolve --quoted --from src/main.cc util.h
  mason resolve -I include -I third_party mylib/api.h
  mason resolve --json vector`,

		// At least one target is required; there is nothing to do
		// without one.
		Args: cobra.MinimumNArgs(1),

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args, flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.includeDirs, "include-dir", "I", nil,
		"Add a search directory (repeatable)")
	cmd.Flags().BoolVar(&flags.quoted, "quoted", false,
		"Treat targets as quoted includes instead of angle-bracket includes")
	cmd.Flags().StringVar(&flags.from, "from", "",
		"Including file; quoted targets are tried in its directory first")

	return cmd
}

// runResolve is the main logic function for the resolve command.
func runResolve(targets []string, flags *resolveFlags) error {
	// Step 1: Load configuration and assemble the search paths. The
	// resolve command has no tree root, so editor include paths do not
	// apply here.
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	resolver := resolve.NewResolver(assembleSearchPaths(".", flags.includeDirs, settings, false)...)
	log.Debugf("search paths: %v", resolver.SearchPaths)

	// Step 2: Resolve each target in argument order.
	resolutions := make([]resolve.Resolution, 0, len(targets))
	for _, target := range targets {
		inc := model.Include{Target: target, Quoted: flags.quoted}
		path, found := resolver.Resolve(inc, flags.from)
		resolutions = append(resolutions, resolve.Resolution{
			Include: inc,
			Path:    path,
			Found:   found,
		})
	}

	// Step 3: Output results.
	printResolveResult(resolutions)

	// Step 4: The exit code reflects the outcome: any miss is reported
	// through the dedicated code so scripts can branch on it.
	if _, unresolved := summarizeResolutions(resolutions); unresolved > 0 {
		return model.NewCLIError(model.ExitUnresolvedInclude,
			fmt.Sprintf("%d of %d includes did not resolve", unresolved, len(resolutions)))
	}
	return nil
}

// summarizeResolutions counts hits and misses in a resolution batch.
func summarizeResolutions(resolutions []resolve.Resolution) (resolved, unresolved int) {
	for _, res := range resolutions {
		if res.Found {
			resolved++
		} else {
			unresolved++
		}
	}
	return resolved, unresolved
}

// printResolveResult outputs the resolutions in text or JSON format,
// depending on the global --json flag.
func printResolveResult(resolutions []resolve.Resolution) {
	if IsJSONOutput() {
		printResolveResultJSON(resolutions)
	} else {
		printResolveResultText(resolutions)
	}
}

// printResolveResultJSON outputs the resolutions as structured JSON.
// The top-level key is "includes" containing one object per target.
func printResolveResultJSON(resolutions []resolve.Resolution) {
	type resultJSON struct {
		Includes []resolve.Resolution `json:"includes"`
	}

	data, _ := json.MarshalIndent(resultJSON{Includes: resolutions}, "", "  ")
	fmt.Println(string(data))
}

// printResolveResultText outputs one color-coded line per target.
func printResolveResultText(resolutions []resolve.Resolution) {
	for _, res := range resolutions {
		if res.Found {
			color.New(color.FgGreen).Printf("%s -> %s\n", res.Include, res.Path)
		} else {
			color.New(color.FgRed).Printf("%s -> not found\n", res.Include)
		}
	}
}
