// config.go implements the layered settings loader, validation, and
// compiler selection.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/mmr-tortoise/mason/internal/runner"
	"github.com/mmr-tortoise/mason/internal/scan"
)

// Sentinel validation errors.
var (
	ErrInvalidExtensions  = errors.New("invalid extensions")
	ErrInvalidMaxFileSize = errors.New("invalid max_file_size")
	ErrInvalidLogLevel    = errors.New("invalid log_level")
)

// FileName is the settings file mason looks for in the current
// directory when no --config path is given.
const FileName = ".mason.yaml"

// Environment variables consulted for compiler selection, matching the
// names conventional build systems use.
const (
	EnvCompiler      = "CXX"
	EnvCompilerFlags = "CXXFLAGS"
)

// DefaultCompiler is the POSIX fallback driver when nothing else
// selects a compiler.
const DefaultCompiler = "c++"

// Default configuration values.
const (
	defaultStd         = "c++20"
	defaultExtensions  = scan.PresetCPP
	defaultMaxFileSize = "4 MiB"
	defaultLogLevel    = "info"
)

// Settings holds all mason configuration.
type Settings struct {
	// Compiler is the C++ compiler driver for the build command.
	// Empty means detect (see DetectCompiler).
	Compiler string `mapstructure:"compiler" yaml:"compiler"`

	// Flags are extra compiler arguments. -I style flags among them
	// also feed the include resolver's search paths.
	Flags []string `mapstructure:"flags" yaml:"flags"`

	// Std is the language-standard value for the -std flag.
	Std string `mapstructure:"std" yaml:"std"`

	// IncludeDirs are resolver search directories, consulted in order.
	IncludeDirs []string `mapstructure:"include_dirs" yaml:"include_dirs"`

	// Extensions selects the files tree scans read: a preset name
	// ("cpp", "c_header", ...) or a custom dotted list (".cc .tpp").
	Extensions string `mapstructure:"extensions" yaml:"extensions"`

	// MaxFileSize is the extractor's skip threshold as a human-readable
	// size string.
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size"`

	// LogLevel is the diagnostic verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultSettings returns the built-in configuration, the same values
// the loader uses when no file or environment overrides exist.
func DefaultSettings() *Settings {
	return &Settings{
		Compiler:    "",
		Flags:       []string{},
		Std:         defaultStd,
		IncludeDirs: []string{},
		Extensions:  defaultExtensions,
		MaxFileSize: defaultMaxFileSize,
		LogLevel:    defaultLogLevel,
	}
}

// Load reads settings from the given file path, or from .mason.yaml in
// the current directory when configPath is empty. A missing file in the
// search-path case falls back to defaults; an explicit path that does
// not exist is an error.
func Load(configPath string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".mason")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MASON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings, nil
}

// setDefaults registers every key so environment overrides bind even
// without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("compiler", "")
	v.SetDefault("flags", []string{})
	v.SetDefault("std", defaultStd)
	v.SetDefault("include_dirs", []string{})
	v.SetDefault("extensions", defaultExtensions)
	v.SetDefault("max_file_size", defaultMaxFileSize)
	v.SetDefault("log_level", defaultLogLevel)
}

// Validate checks the cross-field constraints the type system cannot.
func (s *Settings) Validate() error {
	if _, err := scan.ParseExtensions(s.Extensions); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidExtensions, s.Extensions)
	}
	if _, err := humanize.ParseBytes(s.MaxFileSize); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, s.MaxFileSize)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, s.LogLevel)
	}
	return nil
}

// MaxFileSizeBytes returns the parsed skip threshold. Settings that
// passed Validate always parse; a zero-value Settings falls back to the
// extractor default.
func (s *Settings) MaxFileSizeBytes() int64 {
	size, err := humanize.ParseBytes(s.MaxFileSize)
	if err != nil {
		return scan.DefaultMaxFileSize
	}
	return int64(size)
}

// ExtensionSet returns the allow-list the extensions key selects,
// whether a preset name or a custom list.
func (s *Settings) ExtensionSet() (scan.ExtensionSet, error) {
	return scan.ParseExtensions(s.Extensions)
}

// Level returns the configured log level, defaulting to info for
// settings that did not pass through Validate.
func (s *Settings) Level() log.Level {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DetectCompiler picks the C++ compiler driver for the build command.
// First hit wins: the --compiler flag, the CXX environment variable,
// the compiler config key, a PATH probe for the common drivers, and
// finally the POSIX fallback name.
func DetectCompiler(flagValue string, s *Settings) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvCompiler); env != "" {
		return env
	}
	if s.Compiler != "" {
		return s.Compiler
	}
	for _, candidate := range []string{"clang++", "g++"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return DefaultCompiler
}

// CompilerFlags returns the configured flags followed by any CXXFLAGS
// from the environment, whitespace-tokenized.
func CompilerFlags(s *Settings) []string {
	flags := append([]string{}, s.Flags...)
	return append(flags, runner.SplitArgs(os.Getenv(EnvCompilerFlags))...)
}
