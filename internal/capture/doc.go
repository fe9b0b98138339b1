// Package capture implements the session lifecycle that turns photo evidence
// into inventory entries. Evidence is aggregated into a snapshot, scored
// against the catalog, and a rule-ordered decision engine either accepts a
// match, raises one clarifying question, or gives up. Every transition is
// recorded in an append-only decision log.
package capture
