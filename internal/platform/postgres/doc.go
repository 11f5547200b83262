// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver, and owns the embedded schema migrations applied
// with goose.
package postgres
