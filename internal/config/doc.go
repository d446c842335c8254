// Package config loads, normalizes, and validates sphkmeans CLI configuration.
//
// It supplies defaults, reads an optional TOML file, and honours environment
// fallbacks for object store credentials (MINIO_ACCESS_KEY, MINIO_SECRET_KEY).
// Command-line flags are applied on top of the loaded Config by the caller.
package config
