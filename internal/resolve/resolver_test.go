package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mason/internal/model"
)

// writeFile creates an empty file under dir and returns its path.
// Resolution only cares about existence and kind, not content.
func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

// canonical resolves path the same way the resolver does, so expected
// values survive a symlinked temp directory.
func canonical(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	abs, err := filepath.Abs(resolved)
	require.NoError(t, err)
	return abs
}

// TestResolve_VerbatimPath verifies that a target naming an existing
// file directly resolves immediately, for both include kinds.
func TestResolve_VerbatimPath(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "exact.h")

	r := NewResolver()

	for _, quoted := range []bool{true, false} {
		path, found := r.Resolve(model.Include{Target: target, Quoted: quoted}, "")
		require.True(t, found, "quoted=%v", quoted)
		assert.Equal(t, canonical(t, target), path)
	}
}

// TestResolve_AbsoluteMissingNeverFallsBack verifies that an absolute
// target that does not exist stays unresolved even when a search
// directory happens to contain a file the joined path would reach.
func TestResolve_AbsoluteMissingNeverFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ghost/foo.h")

	r := NewResolver(dir)

	path, found := r.Resolve(model.Include{Target: "/ghost/foo.h", Quoted: true}, "")
	assert.False(t, found)
	assert.Empty(t, path)
}

// TestResolve_QuotedRelativeWins verifies that a quoted include found
// next to its includer beats a same-named file on the search path.
func TestResolve_QuotedRelativeWins(t *testing.T) {
	proj := t.TempDir()
	relative := writeFile(t, proj, "src/b.h")
	writeFile(t, proj, "include/b.h")
	includer := filepath.Join(proj, "src", "a.cc")

	r := NewResolver(filepath.Join(proj, "include"))

	path, found := r.Resolve(model.Include{Target: "b.h", Quoted: true}, includer)
	require.True(t, found)
	assert.Equal(t, canonical(t, relative), path)
}

// TestResolve_AngleIgnoresIncluderDirectory verifies that an angle
// include skips the includer-relative step and resolves from the search
// path even when a same-named file sits next to the includer.
func TestResolve_AngleIgnoresIncluderDirectory(t *testing.T) {
	proj := t.TempDir()
	writeFile(t, proj, "src/b.h")
	searched := writeFile(t, proj, "include/b.h")
	includer := filepath.Join(proj, "src", "a.cc")

	r := NewResolver(filepath.Join(proj, "include"))

	path, found := r.Resolve(model.Include{Target: "b.h", Quoted: false}, includer)
	require.True(t, found)
	assert.Equal(t, canonical(t, searched), path)
}

// TestResolve_SearchOrderFirstMatchWins verifies that with duplicate
// file names across search directories, the earlier directory wins, and
// reordering the list changes the winner.
func TestResolve_SearchOrderFirstMatchWins(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, root, "a/dup.h")
	second := writeFile(t, root, "b/dup.h")
	dirA := filepath.Join(root, "a")
	dirB := filepath.Join(root, "b")
	inc := model.Include{Target: "dup.h", Quoted: false}

	path, found := NewResolver(dirA, dirB).Resolve(inc, "")
	require.True(t, found)
	assert.Equal(t, canonical(t, first), path)

	path, found = NewResolver(dirB, dirA).Resolve(inc, "")
	require.True(t, found)
	assert.Equal(t, canonical(t, second), path)
}

// TestResolve_NotFound verifies that a target absent everywhere reports
// a miss with an empty path. This is the expected result for system
// headers, not an error.
func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(t.TempDir())

	path, found := r.Resolve(model.Include{Target: "vector", Quoted: false}, "")
	assert.False(t, found)
	assert.Empty(t, path)
}

// TestResolve_DirectoryDoesNotSatisfy verifies that a directory with
// the target's name never counts as a resolution.
func TestResolve_DirectoryDoesNotSatisfy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config.h"), 0o755))

	r := NewResolver(dir)

	_, found := r.Resolve(model.Include{Target: "config.h", Quoted: true}, "")
	assert.False(t, found)
}

// TestResolve_EmptyRelativeToSkipsQuotedStep verifies that without an
// including file there is no directory to try quoted includes against,
// so only the search paths apply.
func TestResolve_EmptyRelativeToSkipsQuotedStep(t *testing.T) {
	proj := t.TempDir()
	writeFile(t, proj, "src/q.h")
	includer := filepath.Join(proj, "src", "a.cc")
	inc := model.Include{Target: "q.h", Quoted: true}

	r := NewResolver()

	_, found := r.Resolve(inc, "")
	assert.False(t, found)

	_, found = r.Resolve(inc, includer)
	assert.True(t, found)
}

// TestResolve_CanonicalizesSymlinks verifies that a file reached
// through a symlinked search directory resolves to its real path.
func TestResolve_CanonicalizesSymlinks(t *testing.T) {
	root := t.TempDir()
	real := writeFile(t, root, "real/x.h")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), link))

	r := NewResolver(link)

	path, found := r.Resolve(model.Include{Target: "x.h", Quoted: false}, "")
	require.True(t, found)
	assert.Equal(t, canonical(t, real), path)
}

// TestResolveAll verifies batch resolution preserves the set's sorted
// order and carries per-include outcomes.
func TestResolveAll(t *testing.T) {
	dir := t.TempDir()
	found := writeFile(t, dir, "found.h")

	set := model.NewIncludeSet(
		model.Include{Target: "vector", Quoted: false},
		model.Include{Target: "found.h", Quoted: true},
	)

	resolutions := NewResolver(dir).ResolveAll(set, "")
	require.Len(t, resolutions, 2)

	assert.Equal(t, model.Include{Target: "found.h", Quoted: true}, resolutions[0].Include)
	assert.True(t, resolutions[0].Found)
	assert.Equal(t, canonical(t, found), resolutions[0].Path)

	assert.Equal(t, model.Include{Target: "vector", Quoted: false}, resolutions[1].Include)
	assert.False(t, resolutions[1].Found)
	assert.Empty(t, resolutions[1].Path)
}

// TestSearchPathsFromFlags verifies extraction of include directories
// from compiler-style argument lists.
func TestSearchPathsFromFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		dirs []string
	}{
		{
			name: "joined -I",
			args: []string{"-Iinclude", "-I/usr/local/include"},
			dirs: []string{"include", "/usr/local/include"},
		},
		{
			name: "separated -I",
			args: []string{"-I", "include"},
			dirs: []string{"include"},
		},
		{
			name: "isystem and iquote",
			args: []string{"-isystem", "/opt/sys", "-iquote/opt/q", "-isystemthird"},
			dirs: []string{"/opt/sys", "/opt/q", "third"},
		},
		{
			name: "mixed with unrelated flags",
			args: []string{"-Wall", "-std=c++20", "-Iinclude", "-DNDEBUG", "-O2"},
			dirs: []string{"include"},
		},
		{
			name: "trailing -I without value",
			args: []string{"-Iinclude", "-I"},
			dirs: []string{"include"},
		},
		{
			name: "no include flags",
			args: []string{"-Wall", "-O2"},
			dirs: nil,
		},
		{
			name: "empty",
			args: nil,
			dirs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dirs, SearchPathsFromFlags(tt.args))
		})
	}
}
