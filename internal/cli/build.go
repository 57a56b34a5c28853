// Package cli — build.go implements the "mason build" command.
//
// The build command renders and runs one downstream compiler
// invocation: configured flags, the language standard, the configured
// include directories, the given sources, and the output path. The
// child's stdout and stderr pass straight through, and mason's exit
// code is the child's normalized status, so wrapping a compiler in
// mason is transparent to any calling build system.
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mason/internal/config"
	"github.com/mmr-tortoise/mason/internal/model"
	"github.com/mmr-tortoise/mason/internal/runner"
)

// buildFlags holds the flag values for the build command.
// These are bound to cobra flags in NewBuildCommand.
type buildFlags struct {
	output   string // -o: output binary path
	compiler string // --compiler: override compiler selection
}

// NewBuildCommand creates the "build" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build <source>...",
		Short: "Compile sources with the configured compiler",
		Long: `Compile one or more sources in a single compiler invocation.

The compiler is picked from, in order: --compiler, the CXX environment
variable, the compiler setting, a PATH probe for clang++ and g++, and
finally the POSIX "c++" name. Configured flags and CXXFLAGS are passed
through, include_dirs become -I arguments, and -std comes from the std
setting.

The rendered command is echoed with a [CMD] prefix before it runs, and
mason exits with the compiler's own status.

Examples:
  mason build main.cc
  mason build -o tool src/main.cc src/util.cc
  mason build --compiler g++ main.cc`,

		// At least one source file is required.
		Args: cobra.MinimumNArgs(1),

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output path (default: first source's basename without extension)")
	cmd.Flags().StringVar(&flags.compiler, "compiler", "",
		"Compiler driver (default: CXX env, compiler setting, or PATH probe)")

	return cmd
}

// runBuild is the main logic function for the build command.
func runBuild(sources []string, flags *buildFlags) error {
	// Step 1: Load configuration and pick the compiler.
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	compiler := config.DetectCompiler(flags.compiler, settings)
	log.Debugf("selected compiler: %s", compiler)

	// Step 2: Determine the output path.
	output := flags.output
	if output == "" {
		output = defaultOutputName(sources[0])
	}

	// Step 3: Render and run the compiler command. The runner echoes
	// the [CMD] line and passes the child's output through.
	argv := compileArgv(compiler, settings, sources, output)
	status, err := runner.NewExecRunner().Run(argv)
	if err != nil {
		return model.WrapCLIError(model.ExitSpawnFailed,
			fmt.Sprintf("failed to run %s", compiler), err)
	}

	// Step 4: Forward the compiler's normalized status as our own exit
	// code, so callers see exactly what the compiler reported.
	if !status.Success() {
		return model.NewCLIError(model.ExitCode(status.ExitStatus()),
			fmt.Sprintf("%s failed: %s", compiler, status))
	}

	printBuildResult(compiler, sources, output)
	return nil
}

// defaultOutputName derives the output binary name from a source path:
// its basename with the extension removed.
func defaultOutputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// compileArgv assembles the downstream compiler command line: flags,
// the language standard, include directories, sources, output.
func compileArgv(compiler string, settings *config.Settings, sources []string, output string) []string {
	argv := []string{compiler}
	argv = append(argv, config.CompilerFlags(settings)...)
	if settings.Std != "" {
		argv = append(argv, "-std="+settings.Std)
	}
	for _, dir := range settings.IncludeDirs {
		argv = append(argv, "-I"+dir)
	}
	argv = append(argv, sources...)
	argv = append(argv, "-o", output)
	return argv
}

// printBuildResult outputs the build outcome in text or JSON format,
// depending on the global --json flag.
func printBuildResult(compiler string, sources []string, output string) {
	if IsJSONOutput() {
		type resultJSON struct {
			Compiler string   `json:"compiler"`
			Sources  []string `json:"sources"`
			Output   string   `json:"output"`
		}
		data, _ := json.MarshalIndent(resultJSON{
			Compiler: compiler,
			Sources:  sources,
			Output:   output,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	color.New(color.FgGreen).Printf("Built %s (%d source file(s), %s)\n",
		output, len(sources), compiler)
}
