// ext.go defines the extension allow-lists that select which files a
// tree scan reads, including the named presets for the two C-family
// dialects.
package scan

import (
	"fmt"
	"sort"
	"strings"
)

// ExtensionSet is an allow-list of file extensions (with leading dot).
// Matching is exact and case-sensitive, the same comparison the
// filesystem layer uses.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds an ExtensionSet from extension strings.
// A missing leading dot is added, so "cc" and ".cc" are equivalent
// inputs. Empty entries are ignored.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Contains reports whether the extension (as returned by filepath.Ext,
// dot included) is in the allow-list.
func (e ExtensionSet) Contains(ext string) bool {
	_, ok := e[ext]
	return ok
}

// List returns the extensions in sorted order, for display and error
// messages.
func (e ExtensionSet) List() []string {
	exts := make([]string, 0, len(e))
	for ext := range e {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Preset names accepted by the scan command and the "extensions"
// configuration key. Each dialect has a headers-only, an
// implementation-only, and a combined preset.
const (
	PresetCPP               = "cpp"
	PresetCPPHeader         = "cpp_header"
	PresetCPPImplementation = "cpp_implementation"
	PresetC                 = "c"
	PresetCHeader           = "c_header"
	PresetCImplementation   = "c_implementation"
)

// Preset returns the extension allow-list for a named preset.
func Preset(name string) (ExtensionSet, error) {
	switch name {
	case PresetCPPImplementation:
		return NewExtensionSet(".cc", ".cpp", ".cxx"), nil
	case PresetCPPHeader:
		return NewExtensionSet(".h", ".hh", ".hpp", ".hxx"), nil
	case PresetCPP:
		return NewExtensionSet(".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx"), nil
	case PresetCImplementation:
		return NewExtensionSet(".c"), nil
	case PresetCHeader:
		return NewExtensionSet(".h"), nil
	case PresetC:
		return NewExtensionSet(".c", ".h"), nil
	default:
		return nil, fmt.Errorf("unknown extension preset %q (valid: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
}

// PresetNames returns all valid preset names in a stable order.
func PresetNames() []string {
	return []string{
		PresetC,
		PresetCHeader,
		PresetCImplementation,
		PresetCPP,
		PresetCPPHeader,
		PresetCPPImplementation,
	}
}

// ParseExtensions builds an allow-list from a configuration value. The
// value is either a preset name or a custom list of dotted extensions
// separated by commas or whitespace (".cc .tpp"); the leading dot is
// what marks a value as a custom list.
func ParseExtensions(value string) (ExtensionSet, error) {
	if !strings.Contains(value, ".") {
		return Preset(value)
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return NewExtensionSet(parts...), nil
}
