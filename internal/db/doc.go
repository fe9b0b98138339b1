// Package db owns the shared SQLite connection: pragmas, embedded schema with
// a version guard, busy-retry helpers, and the single-commit transaction
// wrapper the capture engine relies on for atomic transitions.
package db
