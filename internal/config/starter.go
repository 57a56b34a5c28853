// starter.go renders the commented starter configuration that the init
// command writes into a project.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// starterHeader is prepended to the generated file so a reader knows
// where the keys come from and that editing is expected.
const starterHeader = `# mason configuration
# Every key can also be set via a MASON_* environment variable
# (e.g. MASON_LOG_LEVEL). -I flags in "flags" feed include resolution.
`

// StarterYAML renders the default settings as a .mason.yaml starter
// file with a guidance header.
func StarterYAML() ([]byte, error) {
	yamlBytes, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize starter config: %w", err)
	}
	return []byte(starterHeader + string(yamlBytes)), nil
}

// WriteStarter writes the starter configuration to path, creating
// parent directories as needed. Overwrite policy belongs to the caller.
func WriteStarter(path string) error {
	data, err := StarterYAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
