// Package resolve maps include directives to concrete files using the
// search rules of a conventional C/C++ toolchain.
//
// Resolution order for a single include:
//
//  1. The target taken verbatim as a filesystem path, if it names an
//     existing regular file (any include kind, any path form).
//  2. An absolute target that did not resolve verbatim fails outright;
//     it is never reinterpreted as a search-relative name.
//  3. A quoted target is tried relative to the including file's
//     directory.
//  4. The configured search paths are tried in order; first match wins.
//
// A miss is a normal outcome, not an error: system headers like
// <vector> usually resolve to nothing on the project filesystem.
// Successful resolutions always return the canonical (symlink-resolved,
// absolute) path of the matched file.
package resolve
