// Package logging builds slog loggers for the CLI and library components.
//
// Two output formats are supported: a compact console format that prefixes
// messages with the emitting component, and line-delimited JSON for log
// collectors. Components obtain a scoped logger via NewComponentLogger so
// every record carries a stable component attribute. Tests use NewNop.
package logging
