// extract.go implements file-level include extraction and the recursive
// tree indexer that applies it across a source tree.
package scan

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/mason/internal/model"
)

const (
	// DefaultMaxFileSize is the extractor's skip threshold when the
	// configuration does not override it. Matches the "4 MiB" default
	// of the max_file_size setting.
	DefaultMaxFileSize = 4 * 1024 * 1024

	// maxLineBytes caps the per-line read buffer. Source lines beyond
	// this length make the file unreadable rather than silently
	// truncating a directive.
	maxLineBytes = 1 << 20
)

// Extractor reads source files line by line and collects their include
// directives into deduplicated sets.
//
// The struct carries the two knobs a tree scan needs: the oversized-file
// threshold and a logger for walk diagnostics. It holds no per-file
// state, so one Extractor can index any number of trees.
type Extractor struct {
	// MaxFileSize is the size threshold in bytes above which a file is
	// skipped (recorded with an empty include set). Zero or negative
	// disables the check.
	MaxFileSize int64

	// Log receives warnings about files the tree walk could not read.
	Log *log.Logger
}

// NewExtractor creates an Extractor with the default size threshold and
// the default logger.
func NewExtractor() *Extractor {
	return &Extractor{
		MaxFileSize: DefaultMaxFileSize,
		Log:         log.Default(),
	}
}

// ExtractFile scans one file and returns the deduplicated set of include
// directives it contains.
//
// Extraction is idempotent: the same file always yields an equal set,
// regardless of directive order or repetition in the source. A missing
// or unreadable file is an error value; the caller decides whether that
// is fatal (a single-file request) or a warning (one file inside a tree
// walk). A file over the size threshold yields an empty set and no
// error.
func (e *Extractor) ExtractFile(path string) (*model.IncludeSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	set := model.NewIncludeSet()
	if e.MaxFileSize > 0 && info.Size() > e.MaxFileSize {
		e.logger().Debugf("skipping %s: %d bytes exceeds the %d byte limit", path, info.Size(), e.MaxFileSize)
		return set, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	// bufio.Scanner splits on lines and strips the trailing newline
	// (and \r on CRLF files), which is exactly the unit ScanLine wants.
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		if inc, ok := ScanLine(sc.Text()); ok {
			set.Add(inc)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return set, nil
}

// IndexTree recursively walks root and extracts includes from every
// regular file whose extension is in the allow-list, returning a map
// keyed by each file's canonical path.
//
// Non-matching files and subdirectories are traversed but not scanned.
// A file that fails to read mid-walk is recorded with an empty include
// set and a warning, so the index still lists every matching file; only
// a root that cannot be walked at all is an error. Traversal order is
// unspecified; deterministic output comes from IncludeIndex.Files.
func (e *Extractor) IndexTree(root string, exts ExtensionSet) (model.IncludeIndex, error) {
	index := make(model.IncludeIndex)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// The root itself failing is fatal; anything below it is
			// skipped with a warning so one bad directory does not
			// abort the whole scan.
			if path == root {
				return walkErr
			}
			e.logger().Warnf("cannot visit %s: %v", path, walkErr)
			return nil
		}

		if !isScannableFile(path, d) {
			return nil
		}
		if !exts.Contains(filepath.Ext(path)) {
			return nil
		}

		canonical, cerr := canonicalPath(path)
		if cerr != nil {
			e.logger().Warnf("cannot canonicalize %s: %v", path, cerr)
			return nil
		}

		set, xerr := e.ExtractFile(path)
		if xerr != nil {
			// Keep the file in the index with an empty set so the
			// output still accounts for it, and keep walking.
			e.logger().Warnf("cannot read %s: %v", path, xerr)
			index[canonical] = model.NewIncludeSet()
			return nil
		}

		index[canonical] = set
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return index, nil
}

// isScannableFile reports whether the walk entry is a regular file,
// following a symlink one level to its target. Directory symlinks are
// not descended into (WalkDir never follows them).
func isScannableFile(path string, d fs.DirEntry) bool {
	mode := d.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	return false
}

// canonicalPath resolves symlinks and returns the absolute form of path.
// Index keys use this form so the same file reached through different
// names collapses to one entry.
func canonicalPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// logger returns the configured logger, falling back to the package
// default when none was set (zero-value Extractor).
func (e *Extractor) logger() *log.Logger {
	if e.Log != nil {
		return e.Log
	}
	return log.Default()
}
