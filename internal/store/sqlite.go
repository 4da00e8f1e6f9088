package store

import (
	"database/sql"
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// SQLiteStore persists key/value entries in the kv_entries table so
// tokens survive process restarts. Write failures are logged rather
// than returned; a failed persist leaves the previous value in place
// and the caller re-authenticates on the next expiry.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStore wraps an open database. The kv_entries table must
// already exist (see shared.RunMigrations).
func NewSQLiteStore(db *sql.DB, logger *log.Logger) *SQLiteStore {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("failed to read kv entry", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) Set(key, value string) {
	_, err := s.db.Exec(`
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		s.logger.Error("failed to write kv entry", "key", key, "error", err)
	}
}

func (s *SQLiteStore) Delete(key string) {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		s.logger.Error("failed to delete kv entry", "key", key, "error", err)
	}
}
