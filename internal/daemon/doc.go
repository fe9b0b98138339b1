// Package daemon runs the long-lived lacquerd process: it owns the database,
// enforces single-instance locking, and serves the HTTP API the CLI talks to.
package daemon
