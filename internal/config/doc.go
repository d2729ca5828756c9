// Package config provides configuration loading and validation for the STT
// bridge service. It handles YAML-based configuration with per-section
// validation, default filling, and environment variable expansion for
// secrets such as the API key.
package config
