package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/phrazzld/creator-api/internal/platform/logger"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS module_state (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at INTEGER NOT NULL
)`

// Store is the SQLite-backed load/save boundary for module state.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string, l *slog.Logger) (*Store, error) {
	if l == nil {
		l = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create state schema: %w", err)
	}
	l.Debug("state database ready", slog.String("path", path))
	return &Store{db: db, logger: l}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the persistent part of st under its key.
func (s *Store) Save(ctx context.Context, st State) error {
	data, err := json.Marshal(st.Persistent())
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", st.StateKey(), err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO module_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		st.StateKey(), string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", st.StateKey(), err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("module state saved",
		slog.String("key", st.StateKey()), slog.Int("bytes", len(data)))
	return nil
}

// Load replaces st, which must be a non-nil pointer, with the document stored
// under its key. Fields not in the document, transient ones included, end up
// zero. It reports false and leaves st untouched when nothing is stored.
func (s *Store) Load(ctx context.Context, st State) (bool, error) {
	target := reflect.ValueOf(st)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("cannot load module state into %T: need a non-nil pointer", st)
	}

	raw, err := s.Raw(ctx, st.StateKey())
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	target.Elem().SetZero()
	if err := json.Unmarshal(raw, st); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", st.StateKey(), err)
	}
	return true, nil
}

// Raw returns the stored JSON for key, or nil when absent.
func (s *Store) Raw(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM module_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Reset deletes the document for each key, or every document when no key is
// given. It returns the number of documents removed.
func (s *Store) Reset(ctx context.Context, keys ...string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if len(keys) == 0 {
		res, err = s.db.ExecContext(ctx, `DELETE FROM module_state`)
	} else {
		var n int64
		for _, key := range keys {
			res, err = s.db.ExecContext(ctx, `DELETE FROM module_state WHERE key = ?`, key)
			if err != nil {
				return n, fmt.Errorf("failed to reset %s: %w", key, err)
			}
			affected, _ := res.RowsAffected()
			n += affected
		}
		return n, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to reset state: %w", err)
	}
	return res.RowsAffected()
}
