// Package config handles configuration loading and management for checkrun.
//
// It provides functionality for:
//   - Loading configuration from .checkrun.yaml, checkrun.yaml or checkrun.json
//   - Validating configuration files against an embedded JSON schema
//   - Default configuration values, including the CI-aware verbose default
package config
