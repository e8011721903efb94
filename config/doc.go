// Package config loads the semanalyzer YAML configuration.
//
// A missing file is not an error: Load returns defaults suitable for a local
// OpenAI-compatible server. Values may reference the environment as ${VAR}
// or ${VAR:-default}.
package config
