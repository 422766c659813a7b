// Package sqlite provides a unified SQLite-backed storage adapter for the
// account registry and credential records, with embedded schema migrations.
package sqlite
