// Package scan implements include-directive discovery: a per-line
// directive scanner, a file-level include extractor, and a recursive
// tree indexer.
//
// The scanner is a deliberate syntactic approximation of the C
// preprocessor, not a preprocessor. It has no awareness of comments,
// line continuations, or conditional compilation, so a directive inside
// a disabled #if branch is still reported. This keeps the scanner a
// pure function of a single line of text, at the cost of occasional
// false positives.
//
// Extraction results are deduplicated into model.IncludeSet values and
// keyed by canonical (symlink-resolved, absolute) file paths in a
// model.IncludeIndex.
package scan
