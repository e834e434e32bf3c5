// Package config handles configuration loading for the pet CLI.
//
// It provides functionality for:
//   - Loading configuration from .pet.config.json, .petrc or pet.config.yaml files
//   - Default configuration values
//   - Merging a file configuration with command line overrides
package config
