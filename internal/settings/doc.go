// Package settings persists per-module studio state in a local SQLite
// database. Each module saves one JSON document under a versioned key.
// Generated output and transient loading or error fields are never stored.
package settings
