// Package logging builds the slog loggers used across the daemon and CLI,
// along with the standardized attribute keys that keep structured output
// queryable (component, session_id, rule, ...).
package logging
