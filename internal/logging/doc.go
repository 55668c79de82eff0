// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute keys used across the application so log
// entries stay consistent and greppable, a Setup function that installs
// the process-wide default handler, and a small Logger interface for
// code that should not depend on slog directly.
package logging
