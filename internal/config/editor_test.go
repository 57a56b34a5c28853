package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProperties writes a c_cpp_properties.json at the given relative
// location under the project.
func writeProperties(t *testing.T, project, rel, content string) {
	t.Helper()
	path := filepath.Join(project, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestFindEditorIncludePaths verifies variable expansion, recursive
// marker stripping, and the dropping of globs and missing directories.
// The input carries JSONC comments, as real editor files do.
func TestFindEditorIncludePaths(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "include"), 0o755))

	writeProperties(t, project, ".vscode/c_cpp_properties.json", `{
	// IntelliSense configuration
	"configurations": [
		{
			"name": "Linux",
			"includePath": [
				"${workspaceFolder}/**",
				"${workspaceFolder}/include",
				"/no/such/dir",
				"${workspaceFolder}/src/*.h"
			]
		}
	],
	"version": 4
}`)

	dirs, err := FindEditorIncludePaths(project)
	require.NoError(t, err)
	assert.Equal(t, []string{project, filepath.Join(project, "include")}, dirs)
}

// TestFindEditorIncludePaths_RootFallback verifies the root-level file
// is used when .vscode/ has none.
func TestFindEditorIncludePaths_RootFallback(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "include"), 0o755))

	writeProperties(t, project, "c_cpp_properties.json", `{
	"configurations": [
		{"name": "Linux", "includePath": ["${workspaceFolder}/include"]}
	]
}`)

	dirs, err := FindEditorIncludePaths(project)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(project, "include")}, dirs)
}

// TestFindEditorIncludePaths_VSCodeWins verifies only the higher
// priority candidate is read when both exist.
func TestFindEditorIncludePaths_VSCodeWins(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(project, "b"), 0o755))

	writeProperties(t, project, ".vscode/c_cpp_properties.json", `{
	"configurations": [{"name": "x", "includePath": ["${workspaceFolder}/a"]}]
}`)
	writeProperties(t, project, "c_cpp_properties.json", `{
	"configurations": [{"name": "x", "includePath": ["${workspaceFolder}/b"]}]
}`)

	dirs, err := FindEditorIncludePaths(project)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(project, "a")}, dirs)
}

// TestFindEditorIncludePaths_MergesConfigurations verifies entries from
// multiple configuration blocks merge in order without duplicates.
func TestFindEditorIncludePaths_MergesConfigurations(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(project, "b"), 0o755))

	writeProperties(t, project, ".vscode/c_cpp_properties.json", `{
	"configurations": [
		{"name": "Linux", "includePath": ["${workspaceFolder}/a", "${workspaceFolder}/b"]},
		{"name": "Mac", "includePath": ["${workspaceFolder}/b", "${workspaceFolder}/a"]}
	]
}`)

	dirs, err := FindEditorIncludePaths(project)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(project, "a"),
		filepath.Join(project, "b"),
	}, dirs)
}

// TestFindEditorIncludePaths_Absent verifies no properties file means
// an empty result, not an error.
func TestFindEditorIncludePaths_Absent(t *testing.T) {
	dirs, err := FindEditorIncludePaths(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

// TestFindEditorIncludePaths_Malformed verifies a file that is not
// valid JSONC surfaces as an error the caller can downgrade.
func TestFindEditorIncludePaths_Malformed(t *testing.T) {
	project := t.TempDir()
	writeProperties(t, project, "c_cpp_properties.json", "{not json at all")

	_, err := FindEditorIncludePaths(project)
	assert.Error(t, err)
}
