// scanner.go implements the per-line include-directive scanner.
//
// The scanner is a five-state machine over the bytes of one line. Its
// state never carries across lines: every call to ScanLine starts fresh,
// so there is no scanner object and no mutable package state.
package scan

import (
	"strings"

	"github.com/mmr-tortoise/mason/internal/model"
)

// scanState enumerates the phases of the directive scanner. The states
// are visited strictly left to right; any mismatch aborts the line.
type scanState int

const (
	// stateExpectHash skips leading blanks and requires a '#'.
	stateExpectHash scanState = iota

	// stateExpectKeyword skips blanks and requires the literal token
	// "include" immediately after.
	stateExpectKeyword

	// stateExpectDelimiter skips blanks and requires '<' or '"'.
	stateExpectDelimiter

	// stateCollectAngle collects the target up to a closing '>'.
	stateCollectAngle

	// stateCollectQuote collects the target up to a closing '"'.
	stateCollectQuote
)

// includeKeyword is the directive name matched in stateExpectKeyword.
// Matching is a plain prefix check, so "#include<vector>" (no blank
// before the delimiter) is accepted, the same way a real preprocessor
// accepts it.
const includeKeyword = "include"

// ScanLine examines one line of source text and reports the include
// directive it contains, if any.
//
// The target text between the delimiters is preserved verbatim,
// including interior whitespace. A line whose directive is malformed
// (no closing delimiter, wrong keyword, missing '#') yields ok=false;
// so does any ordinary code line. Nothing on one line ever affects the
// scan of the next.
func ScanLine(line string) (inc model.Include, ok bool) {
	state := stateExpectHash
	i := 0

	for i < len(line) {
		switch state {
		case stateExpectHash:
			i = skipBlanks(line, i)
			if i >= len(line) || line[i] != '#' {
				return model.Include{}, false
			}
			i++
			state = stateExpectKeyword

		case stateExpectKeyword:
			i = skipBlanks(line, i)
			if !strings.HasPrefix(line[i:], includeKeyword) {
				return model.Include{}, false
			}
			i += len(includeKeyword)
			state = stateExpectDelimiter

		case stateExpectDelimiter:
			i = skipBlanks(line, i)
			if i >= len(line) {
				return model.Include{}, false
			}
			switch line[i] {
			case '<':
				state = stateCollectAngle
			case '"':
				state = stateCollectQuote
			default:
				return model.Include{}, false
			}
			i++

		case stateCollectAngle:
			// Line processing terminates here whether or not the
			// closing delimiter exists. Text after '>' is ignored.
			end := strings.IndexByte(line[i:], '>')
			if end < 0 {
				return model.Include{}, false
			}
			return model.Include{Target: line[i : i+end], Quoted: false}, true

		case stateCollectQuote:
			end := strings.IndexByte(line[i:], '"')
			if end < 0 {
				return model.Include{}, false
			}
			return model.Include{Target: line[i : i+end], Quoted: true}, true
		}
	}

	// Ran out of line before reaching a collect state (e.g. a bare
	// "#include" with no delimiter).
	return model.Include{}, false
}

// skipBlanks advances past spaces and tabs starting at i and returns
// the index of the first non-blank byte (or len(line)).
func skipBlanks(line string, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
