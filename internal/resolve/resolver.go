// resolver.go implements the search-path walk that maps an include
// directive to a concrete file, plus the compiler-flag parser that
// derives search paths from -I style arguments.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/mason/internal/model"
)

// Resolver resolves include directives against an ordered list of
// search directories. It holds no other state; one Resolver can serve
// any number of lookups.
type Resolver struct {
	// SearchPaths are the directories consulted, in order, for targets
	// that did not resolve verbatim or relative to their includer.
	SearchPaths []string
}

// NewResolver creates a Resolver over the given search directories.
// Order is significant: earlier directories shadow later ones when the
// same file name exists in more than one.
func NewResolver(searchPaths ...string) *Resolver {
	return &Resolver{SearchPaths: searchPaths}
}

// Resolve maps one include directive to the canonical path of an
// existing regular file, or reports that no candidate matched.
//
// relativeTo is the path of the file containing the directive; quoted
// includes are tried in its directory before the search paths. An empty
// relativeTo skips that step, which is the behavior for lookups with no
// including file (a bare CLI query).
//
// found == false is the expected result for headers outside the
// project, so callers must not treat it as an error.
func (r *Resolver) Resolve(inc model.Include, relativeTo string) (path string, found bool) {
	// The target taken verbatim as a path wins over every search rule,
	// whatever the include kind.
	if path, ok := resolveCandidate(inc.Target); ok {
		return path, true
	}

	// An absolute target that does not exist stays unresolved. Joining
	// it onto a search directory would name a different file entirely.
	if filepath.IsAbs(inc.Target) {
		return "", false
	}

	if inc.Quoted && relativeTo != "" {
		if path, ok := resolveCandidate(filepath.Join(filepath.Dir(relativeTo), inc.Target)); ok {
			return path, true
		}
	}

	for _, dir := range r.SearchPaths {
		if path, ok := resolveCandidate(filepath.Join(dir, inc.Target)); ok {
			return path, true
		}
	}

	return "", false
}

// Resolution pairs an include directive with its lookup outcome, for
// batch resolution output.
type Resolution struct {
	Include model.Include `json:"include"`
	Path    string        `json:"path,omitempty"`
	Found   bool          `json:"found"`
}

// ResolveAll resolves every include in the set against the same
// including file, returning one Resolution per include in the set's
// sorted order.
func (r *Resolver) ResolveAll(set *model.IncludeSet, relativeTo string) []Resolution {
	items := set.Items()
	resolutions := make([]Resolution, 0, len(items))
	for _, inc := range items {
		path, found := r.Resolve(inc, relativeTo)
		resolutions = append(resolutions, Resolution{
			Include: inc,
			Path:    path,
			Found:   found,
		})
	}
	return resolutions
}

// resolveCandidate checks whether path names an existing regular file
// and returns its canonical form. Directories, special files, and
// candidates that fail to canonicalize all count as misses.
func resolveCandidate(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", false
	}
	return abs, true
}

// SearchPathsFromFlags extracts include directories from compiler-style
// arguments, so flags configured for the downstream compiler also feed
// the resolver. It recognizes -Idir and the separated "-I dir" form,
// plus the -isystem and -iquote variants of both. All other arguments
// are ignored.
func SearchPathsFromFlags(args []string) []string {
	var dirs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-I", "-isystem", "-iquote":
			if i+1 < len(args) {
				i++
				dirs = append(dirs, args[i])
			}
			continue
		}
		switch {
		case strings.HasPrefix(arg, "-I"):
			dirs = append(dirs, strings.TrimPrefix(arg, "-I"))
		case strings.HasPrefix(arg, "-isystem"):
			dirs = append(dirs, strings.TrimPrefix(arg, "-isystem"))
		case strings.HasPrefix(arg, "-iquote"):
			dirs = append(dirs, strings.TrimPrefix(arg, "-iquote"))
		}
	}
	return dirs
}
