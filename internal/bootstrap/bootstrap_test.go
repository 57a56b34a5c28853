package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mason/internal/model"
)

// fakeRunner records every command and plays back scripted results, so
// rebuild sequences run without compiling or spawning anything.
type fakeRunner struct {
	commands [][]string
	statuses []model.CommandStatus
	errs     []error
}

func (f *fakeRunner) Run(argv []string) (model.CommandStatus, error) {
	i := len(f.commands)
	f.commands = append(f.commands, argv)
	var status model.CommandStatus
	if i < len(f.statuses) {
		status = f.statuses[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return status, err
}

// writePair creates a binary file and a source file in a temp tree and
// returns their paths. Tests set the timestamps they need via touch.
func writePair(t *testing.T) (binary, source string) {
	t.Helper()
	dir := t.TempDir()
	binary = filepath.Join(dir, "mason")
	source = filepath.Join(dir, "src", "main.go")
	require.NoError(t, os.WriteFile(binary, []byte("old binary"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0o755))
	require.NoError(t, os.WriteFile(source, []byte("package main\n"), 0o644))
	return binary, source
}

// touch sets a file's modification time.
func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// clearEnv pins the toolchain env vars to their defaults for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvGoTool, "")
	t.Setenv(EnvGoFlags, "")
}

// TestRebuild_StaleBinary verifies the full rebuild path: backup
// written, compile issued, binary re-run, and the re-run's status
// handed back.
func TestRebuild_StaleBinary(t *testing.T) {
	clearEnv(t)
	binary, source := writePair(t)
	touch(t, binary, time.Now().Add(-time.Hour))

	fake := &fakeRunner{statuses: []model.CommandStatus{model.Exited(0), model.Exited(7)}}
	rebuilt, status, err := New(binary, source, fake).Rebuild()

	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, model.Exited(7), status)
	assert.Equal(t, 7, status.ExitStatus())

	require.Len(t, fake.commands, 2)
	assert.Equal(t, []string{"go", "build", "-o", binary, filepath.Dir(source)}, fake.commands[0])
	assert.Equal(t, []string{binary}, fake.commands[1])

	backup, err := os.ReadFile(binary + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "old binary", string(backup))

	info, err := os.Stat(binary + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

// TestRebuild_FreshBinary verifies that a binary at least as new as its
// source triggers nothing: no backup, no compile, no re-run.
func TestRebuild_FreshBinary(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
	}{
		{name: "binary newer than source", offset: time.Hour},
		{name: "binary equal to source", offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			binary, source := writePair(t)
			base := time.Now().Add(-time.Minute)
			touch(t, source, base)
			touch(t, binary, base.Add(tt.offset))

			fake := &fakeRunner{}
			rebuilt, _, err := New(binary, source, fake).Rebuild()

			require.NoError(t, err)
			assert.False(t, rebuilt)
			assert.Empty(t, fake.commands)
			assert.NoFileExists(t, binary+BackupSuffix)
		})
	}
}

// TestRebuild_MissingSource verifies the installed-binary case: no
// source checkout means no comparison and no rebuild.
func TestRebuild_MissingSource(t *testing.T) {
	clearEnv(t)
	binary, source := writePair(t)
	require.NoError(t, os.Remove(source))

	fake := &fakeRunner{}
	rebuilt, _, err := New(binary, source, fake).Rebuild()

	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Empty(t, fake.commands)
}

// TestRebuild_MissingBinary verifies that an unstattable binary path
// skips the rebuild rather than failing.
func TestRebuild_MissingBinary(t *testing.T) {
	clearEnv(t)
	binary, source := writePair(t)
	require.NoError(t, os.Remove(binary))

	fake := &fakeRunner{}
	rebuilt, _, err := New(binary, source, fake).Rebuild()

	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Empty(t, fake.commands)
}

// TestRebuild_CompileFails verifies that a failed compile surfaces as
// an error, with the backup left behind and no re-run attempted.
func TestRebuild_CompileFails(t *testing.T) {
	clearEnv(t)
	binary, source := writePair(t)
	touch(t, binary, time.Now().Add(-time.Hour))

	fake := &fakeRunner{statuses: []model.CommandStatus{model.Exited(1)}}
	rebuilt, _, err := New(binary, source, fake).Rebuild()

	require.Error(t, err)
	assert.False(t, rebuilt)
	assert.Len(t, fake.commands, 1)
	assert.FileExists(t, binary+BackupSuffix)
}

// TestRebuild_CompileSpawnError verifies that a compiler that cannot be
// launched propagates as a wrapped error.
func TestRebuild_CompileSpawnError(t *testing.T) {
	clearEnv(t)
	binary, source := writePair(t)
	touch(t, binary, time.Now().Add(-time.Hour))

	spawnErr := errors.New("executable file not found")
	fake := &fakeRunner{errs: []error{spawnErr}}
	rebuilt, _, err := New(binary, source, fake).Rebuild()

	require.Error(t, err)
	assert.ErrorIs(t, err, spawnErr)
	assert.False(t, rebuilt)
}

// TestRebuild_BackupOverwritesPrior verifies a stale backup from an
// earlier rebuild is replaced, not kept.
func TestRebuild_BackupOverwritesPrior(t *testing.T) {
	clearEnv(t)
	binary, source := writePair(t)
	touch(t, binary, time.Now().Add(-time.Hour))
	require.NoError(t, os.WriteFile(binary+BackupSuffix, []byte("ancient backup"), 0o755))

	fake := &fakeRunner{statuses: []model.CommandStatus{model.Exited(0), model.Exited(0)}}
	rebuilt, _, err := New(binary, source, fake).Rebuild()

	require.NoError(t, err)
	assert.True(t, rebuilt)

	backup, err := os.ReadFile(binary + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "old binary", string(backup))
}

// TestGoTool verifies toolchain detection and the env override.
func TestGoTool(t *testing.T) {
	t.Setenv(EnvGoTool, "")
	assert.Equal(t, "go", GoTool())

	t.Setenv(EnvGoTool, "/opt/go/bin/go")
	assert.Equal(t, "/opt/go/bin/go", GoTool())
}

// TestCompileCommand_ExtraFlags verifies MASON_GOFLAGS lands between
// the build verb and the output flag.
func TestCompileCommand_ExtraFlags(t *testing.T) {
	t.Setenv(EnvGoTool, "")
	t.Setenv(EnvGoFlags, "-trimpath -tags netgo")

	argv := CompileCommand("/bin/mason", "/src/mason/main.go")
	assert.Equal(t, []string{"go", "build", "-trimpath", "-tags", "netgo", "-o", "/bin/mason", "/src/mason"}, argv)
}
