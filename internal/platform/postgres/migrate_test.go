package postgres

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, name := range files {
		body, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestMigrate_UnknownCommand(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = Migrate(context.Background(), db, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "sideways"`)
}

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("OK   %s\n", "00001_create_license_keys.sql")
	l.Fatalf("failed: %s", "boom")

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "00001_create_license_keys.sql")
	assert.Contains(t, out, "level=ERROR")
}
