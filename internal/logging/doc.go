// Package logging constructs the slog loggers used across the packer and
// provides small attribute helpers so call sites stay terse. Output can fan
// out to stdout/stderr and an append-only log file at once; console (text)
// and json formats are supported.
package logging
