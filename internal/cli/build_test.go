// Package cli — build_test.go contains unit tests for the build
// command's command-line assembly. The compiler is never actually run
// here; runner behavior is covered by its own package tests.
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/mason/internal/config"
)

// TestDefaultOutputName verifies how the output binary name is derived
// from the first source path.
func TestDefaultOutputName(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "simple source",
			source: "main.cc",
			want:   "main",
		},
		{
			name:   "nested source keeps basename only",
			source: "src/tools/render.cpp",
			want:   "render",
		},
		{
			name:   "no extension",
			source: "Makefile",
			want:   "Makefile",
		},
		{
			name:   "multiple dots strips last extension only",
			source: "lib.gen.cc",
			want:   "lib.gen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultOutputName(tt.source))
		})
	}
}

// TestCompileArgv verifies the downstream compiler command line:
// configured flags first, then the language standard, include
// directories, sources, and the output pair.
func TestCompileArgv(t *testing.T) {
	t.Setenv(config.EnvCompilerFlags, "")

	settings := &config.Settings{
		Flags:       []string{"-Wall", "-O2"},
		Std:         "c++20",
		IncludeDirs: []string{"include", "third_party"},
	}

	got := compileArgv("clang++", settings, []string{"main.cc", "util.cc"}, "tool")

	want := []string{
		"clang++",
		"-Wall", "-O2",
		"-std=c++20",
		"-Iinclude", "-Ithird_party",
		"main.cc", "util.cc",
		"-o", "tool",
	}
	assert.Equal(t, want, got)
}

// TestCompileArgv_Minimal verifies that empty settings add nothing: the
// command is just compiler, sources, and the output pair.
func TestCompileArgv_Minimal(t *testing.T) {
	t.Setenv(config.EnvCompilerFlags, "")

	got := compileArgv("c++", &config.Settings{}, []string{"main.cc"}, "main")

	assert.Equal(t, []string{"c++", "main.cc", "-o", "main"}, got)
}

// TestCompileArgv_EnvironmentFlags verifies that CXXFLAGS tokens are
// appended after the configured flags.
func TestCompileArgv_EnvironmentFlags(t *testing.T) {
	t.Setenv(config.EnvCompilerFlags, "-g -fno-omit-frame-pointer")

	settings := &config.Settings{Flags: []string{"-Wall"}}

	got := compileArgv("g++", settings, []string{"main.cc"}, "main")

	want := []string{
		"g++",
		"-Wall",
		"-g", "-fno-omit-frame-pointer",
		"main.cc",
		"-o", "main",
	}
	assert.Equal(t, want, got)
}
