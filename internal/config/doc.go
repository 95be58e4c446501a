// Package config loads and validates the process-wide configuration from the
// environment. The loaded Config is read-only after startup; model selection,
// token limits, temperature, and credentials are deliberately not reachable
// from any request input.
package config
