// Package config loads, normalizes, and validates tonearm configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and library core need: state and cache directories, the remote object
// store connection, the media cache budget, and scanner and logging settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
