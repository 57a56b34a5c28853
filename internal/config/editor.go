// editor.go discovers include paths from the editor's C/C++ tooling
// configuration, so a project set up for IntelliSense resolves the same
// headers on the command line.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// workspaceFolderVar is the editor variable expanded to the project
// path in includePath entries.
const workspaceFolderVar = "${workspaceFolder}"

// cppProperties mirrors the parts of c_cpp_properties.json mason reads.
// Only includePath matters; other fields are silently ignored.
type cppProperties struct {
	Configurations []struct {
		Name        string   `json:"name"`
		IncludePath []string `json:"includePath"`
	} `json:"configurations"`
}

// FindEditorIncludePaths collects include directories from a project's
// c_cpp_properties.json, if one exists.
//
// Candidate locations in priority order: .vscode/c_cpp_properties.json,
// then c_cpp_properties.json at the project root. The file is JSONC, so
// comments are stripped before parsing. Entries from every
// configuration block are merged in order with duplicates dropped;
// ${workspaceFolder} is expanded, a trailing /** recursive marker is
// stripped, and entries that are still glob patterns or do not name an
// existing directory are skipped.
//
// No properties file at all is an empty result, not an error.
func FindEditorIncludePaths(projectPath string) ([]string, error) {
	candidates := []string{
		filepath.Join(projectPath, ".vscode", "c_cpp_properties.json"),
		filepath.Join(projectPath, "c_cpp_properties.json"),
	}

	var data []byte
	found := false
	for _, path := range candidates {
		b, err := os.ReadFile(path)
		if err == nil {
			data = b
			found = true
			break
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	if !found {
		return nil, nil
	}

	var props cppProperties
	if err := json.Unmarshal(jsonc.ToJSON(data), &props); err != nil {
		return nil, fmt.Errorf("failed to parse c_cpp_properties.json: %w", err)
	}

	var dirs []string
	seen := make(map[string]struct{})
	for _, cfg := range props.Configurations {
		for _, entry := range cfg.IncludePath {
			dir := normalizeIncludeEntry(entry, projectPath)
			if dir == "" {
				continue
			}
			if _, dup := seen[dir]; dup {
				continue
			}
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				continue
			}
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// normalizeIncludeEntry expands editor variables and strips the
// recursive-glob suffix. Entries that remain patterns normalize to the
// empty string and are skipped by the caller.
func normalizeIncludeEntry(entry, projectPath string) string {
	dir := strings.ReplaceAll(entry, workspaceFolderVar, projectPath)
	dir = strings.TrimSuffix(dir, "/**")
	if strings.ContainsAny(dir, "*?") {
		return ""
	}
	return dir
}
