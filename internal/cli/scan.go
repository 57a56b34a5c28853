// Package cli — scan.go implements the "mason scan" command.
//
// The scan command is the primary informational operation. It walks a
// source tree, extracts every include directive from files matching the
// configured extension preset, optionally resolves each include against
// the assembled search paths, and reports the result as a table, JSON,
// or YAML.
//
// Orchestration steps:
//  1. Load configuration and build the extension allow-list
//  2. Index the tree (file → include set, canonical paths)
//  3. Assemble search paths (flags, config, compiler flags, editor)
//  4. Resolve every include (unless --resolve=false)
//  5. Output the report (table / JSON / YAML, stdout or --output file)
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/mason/internal/config"
	"github.com/mmr-tortoise/mason/internal/model"
	"github.com/mmr-tortoise/mason/internal/resolve"
	"github.com/mmr-tortoise/mason/internal/scan"
)

// scanFlags holds the flag values for the scan command.
// These are bound to cobra flags in NewScanCommand.
type scanFlags struct {
	includeDirs    []string // -I: extra search directories
	resolveIncl    bool     // --resolve: resolve discovered includes
	noEditorConfig bool     // --no-editor-config: skip c_cpp_properties.json
	yamlOutput     bool     // --yaml: emit the report as YAML
	outputPath     string   // --output: write the report to a file
}

// NewScanCommand creates the "scan" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a source tree for include directives",
		Long: `Scan a source tree for #include directives and report, per file, which
headers it names and where each one resolves to.

Files are selected by the configured extensions (a preset name or a
custom dotted list). Search paths merge -I flags, the include_dirs
setting, -I style tokens found in the configured compiler flags, and
the project's c_cpp_properties.json.

Examples:
  mason scan
  mason scan src/
  mason scan -I include -I third_party src/
  mason scan --resolve=false --json
  mason scan --yaml --output includes.yaml`,

		// The tree root is optional; default is the current directory.
		Args: cobra.MaximumNArgs(1),

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runScan(dir, flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.includeDirs, "include-dir", "I", nil,
		"Add a search directory for include resolution (repeatable)")
	cmd.Flags().BoolVar(&flags.resolveIncl, "resolve", true,
		"Resolve discovered includes against the search paths")
	cmd.Flags().BoolVar(&flags.noEditorConfig, "no-editor-config", false,
		"Ignore include paths from c_cpp_properties.json")
	cmd.Flags().BoolVar(&flags.yamlOutput, "yaml", false,
		"Output the report as YAML")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")

	return cmd
}

// runScan is the main orchestration function for the scan command.
func runScan(dir string, flags *scanFlags) error {
	// Step 1: Load configuration and the extension allow-list.
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	exts, err := settings.ExtensionSet()
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "invalid extensions setting", err)
	}
	log.Debugf("scanning %s for %s files", dir, strings.Join(exts.List(), " "))

	// Step 2: Index the tree.
	extractor := scan.NewExtractor()
	extractor.MaxFileSize = settings.MaxFileSizeBytes()

	index, err := extractor.IndexTree(dir, exts)
	if err != nil {
		return model.WrapCLIError(model.ExitScanFailed,
			fmt.Sprintf("failed to scan %s", dir), err)
	}
	log.Debugf("indexed %d files with %d includes", len(index), index.TotalIncludes())

	// Step 3: Assemble search paths and resolve.
	var resolver *resolve.Resolver
	if flags.resolveIncl {
		searchPaths := assembleSearchPaths(dir, flags.includeDirs, settings, !flags.noEditorConfig)
		log.Debugf("search paths: %v", searchPaths)
		resolver = resolve.NewResolver(searchPaths...)
	}

	report := buildScanReport(dir, index, resolver)

	// Step 4: Output the report.
	return printScanReport(report, flags)
}

// assembleSearchPaths merges the resolver's search directories in
// priority order: -I flags first, then the include_dirs setting, then
// -I style tokens from the configured compiler flags, then the editor's
// include paths. Earlier sources win ties because the resolver takes
// the first match.
func assembleSearchPaths(projectDir string, cliDirs []string, settings *config.Settings, useEditor bool) []string {
	paths := append([]string{}, cliDirs...)
	paths = append(paths, settings.IncludeDirs...)
	paths = append(paths, resolve.SearchPathsFromFlags(config.CompilerFlags(settings))...)

	if useEditor {
		editorPaths, err := config.FindEditorIncludePaths(projectDir)
		if err != nil {
			// A broken editor file should not kill a scan.
			log.Warnf("ignoring editor include paths: %v", err)
		}
		paths = append(paths, editorPaths...)
	}
	return paths
}

// scanReport is the output structure shared by all three formats.
type scanReport struct {
	Root       string          `json:"root" yaml:"root"`
	Resolve    bool            `json:"resolve" yaml:"resolve"`
	Files      []scanFileEntry `json:"files" yaml:"files"`
	FileCount  int             `json:"file_count" yaml:"file_count"`
	Includes   int             `json:"include_count" yaml:"include_count"`
	Resolved   int             `json:"resolved" yaml:"resolved"`
	Unresolved int             `json:"unresolved" yaml:"unresolved"`
}

// scanFileEntry reports one scanned file and its includes.
type scanFileEntry struct {
	Path     string             `json:"path" yaml:"path"`
	Includes []scanIncludeEntry `json:"includes" yaml:"includes"`
}

// scanIncludeEntry reports one include directive. Found is nil when
// resolution was not performed.
type scanIncludeEntry struct {
	Target   string `json:"target" yaml:"target"`
	Quoted   bool   `json:"quoted" yaml:"quoted"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Found    *bool  `json:"found,omitempty" yaml:"found,omitempty"`
}

// buildScanReport assembles the report from the index, resolving each
// include when a resolver is given. Files come out in sorted order,
// includes in set order.
func buildScanReport(root string, index model.IncludeIndex, resolver *resolve.Resolver) *scanReport {
	report := &scanReport{
		Root:    root,
		Resolve: resolver != nil,
		// Empty slice instead of nil so JSON output shows [] for an
		// empty tree instead of null.
		Files: make([]scanFileEntry, 0, len(index)),
	}

	for _, path := range index.Files() {
		set := index[path]
		entry := scanFileEntry{
			Path:     path,
			Includes: make([]scanIncludeEntry, 0, set.Len()),
		}

		for _, inc := range set.Items() {
			incEntry := scanIncludeEntry{
				Target: inc.Target,
				Quoted: inc.Quoted,
			}
			if resolver != nil {
				resolved, found := resolver.Resolve(inc, path)
				incEntry.Resolved = resolved
				incEntry.Found = &found
				if found {
					report.Resolved++
				} else {
					report.Unresolved++
				}
			}
			entry.Includes = append(entry.Includes, incEntry)
		}

		report.Files = append(report.Files, entry)
		report.Includes += set.Len()
	}

	report.FileCount = len(report.Files)
	return report
}

// printScanReport renders the report in the selected format and sends
// it to stdout or the --output file.
func printScanReport(report *scanReport, flags *scanFlags) error {
	rendered, err := renderScanReport(report, flags)
	if err != nil {
		return err
	}

	if flags.outputPath != "" {
		if err := writeReportFile(flags.outputPath, rendered); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to write report to %s", flags.outputPath), err)
		}
		fmt.Printf("Report written to %s\n", flags.outputPath)
		return nil
	}

	fmt.Print(string(rendered))
	if !IsJSONOutput() && !flags.yamlOutput {
		fmt.Println(scanSummary(report))
	}
	return nil
}

// renderScanReport produces the report bytes for the selected format,
// always ending with a newline.
func renderScanReport(report *scanReport, flags *scanFlags) ([]byte, error) {
	switch {
	case IsJSONOutput():
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to serialize report", err)
		}
		return append(data, '\n'), nil

	case flags.yamlOutput:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to serialize report", err)
		}
		header := fmt.Sprintf("# Auto-generated by mason scan for %q\n# Regenerate with: mason scan %s --yaml\n",
			report.Root, report.Root)
		return []byte(header + string(data)), nil

	default:
		return []byte(renderScanTable(report) + "\n"), nil
	}
}

// renderScanTable renders the human-readable table. The file path is
// shown on its first row only; a file without includes still gets a row
// so the output accounts for every scanned file.
func renderScanTable(report *scanReport) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"FILE", "INCLUDE", "RESOLVED"})

	for _, file := range report.Files {
		if len(file.Includes) == 0 {
			tbl.AppendRow(table.Row{file.Path, "-", ""})
			continue
		}
		for i, inc := range file.Includes {
			path := ""
			if i == 0 {
				path = file.Path
			}
			tbl.AppendRow(table.Row{path, renderIncludeText(inc), renderResolvedCell(inc)})
		}
	}

	return tbl.Render()
}

// renderIncludeText formats an include the way it appears in source:
// quoted or angle-bracketed.
func renderIncludeText(inc scanIncludeEntry) string {
	if inc.Quoted {
		return fmt.Sprintf("%q", inc.Target)
	}
	return fmt.Sprintf("<%s>", inc.Target)
}

// renderResolvedCell formats the resolution column, color-coding the
// outcome. Resolution disabled renders as "-".
func renderResolvedCell(inc scanIncludeEntry) string {
	if inc.Found == nil {
		return "-"
	}
	if *inc.Found {
		return color.New(color.FgGreen).Sprint(inc.Resolved)
	}
	return color.New(color.FgRed).Sprint("not found")
}

// scanSummary is the one-line human-readable summary that closes the
// table output.
func scanSummary(report *scanReport) string {
	files := humanize.Comma(int64(report.FileCount))
	includes := humanize.Comma(int64(report.Includes))
	if !report.Resolve {
		return fmt.Sprintf("Scanned %s files, found %s includes", files, includes)
	}
	return fmt.Sprintf("Scanned %s files, found %s includes: %s resolved, %s unresolved",
		files, includes,
		humanize.Comma(int64(report.Resolved)),
		humanize.Comma(int64(report.Unresolved)))
}

// writeReportFile writes report bytes, creating parent directories as
// needed.
func writeReportFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
