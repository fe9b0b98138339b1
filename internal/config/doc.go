// Package config loads, normalizes, and validates Lacquer's TOML
// configuration. Paths are tilde-expanded and made absolute during load so the
// rest of the codebase never sees relative or unexpanded values.
package config
