// Command lacquer is the CLI for the lacquerd daemon: it starts capture
// sessions, submits evidence, answers clarifying questions, and lists the
// resulting inventory.
package main
