// Package config loads and validates mason settings.
//
// Settings merge from three layers, lowest priority first: built-in
// defaults, a .mason.yaml file (an explicit --config path, or the
// current directory), and MASON_* environment variables. Loading is
// viper-backed, so the same key works in all three layers.
//
// The package also owns compiler selection for the build command and
// the discovery of editor-configured include paths from
// c_cpp_properties.json files.
package config
