// Package config defines the application configuration structure and
// loads it from environment variables and an optional YAML file.
// Loaded configuration is validated before use; the rest of the
// program can assume a Config it receives is well-formed.
package config
