// Package api defines the transport-facing DTOs shared by the daemon's HTTP
// surface and the CLI, plus thin services that adapt engine and store results
// into those shapes.
package api
