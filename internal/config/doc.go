// Package config handles configuration loading, parsing, and validation
// from environment variables and optional YAML files. It provides type-safe
// access to the settings of both binaries: the generation server (Config) and
// the studio CLI (ClientConfig).
package config
