package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/engram-oss/engram/internal/errors"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists namespaced entries in a SQLite database. Writes are
// durable immediately, so Save and Load are no-ops.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.CodePersistence, "failed to create storage directory", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, "failed to open memory database", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.CodePersistence, "failed to migrate memory database", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, key)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_namespace ON memory(namespace);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or overwrites value under (namespace, key).
func (s *SQLiteStore) Put(namespace, key string, value any) error {
	if err := validateKey(namespace, key); err != nil {
		return err
	}
	data, err := marshalValue(value)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO memory (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, namespace, key, string(data))
	if err != nil {
		return errors.Wrap(errors.CodePersistence, "failed to write memory row", err)
	}
	return nil
}

// Get returns the stored value, or ok=false when absent.
func (s *SQLiteStore) Get(namespace, key string) (any, bool, error) {
	var data string
	err := s.db.QueryRow(`
		SELECT value FROM memory WHERE namespace = ? AND key = ?
	`, namespace, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.CodePersistence, "failed to read memory row", err)
	}

	var value any
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return nil, false, errors.Wrap(errors.CodePersistence, "corrupt memory row", err)
	}
	return value, true, nil
}

// List returns all entries in the namespace, sorted by key.
func (s *SQLiteStore) List(namespace string) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT key, value FROM memory WHERE namespace = ? ORDER BY key ASC
	`, namespace)
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, "failed to list memory rows", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search returns entries whose key or serialized value contains the query.
// SQLite LIKE is case-insensitive for ASCII, matching the other drivers.
func (s *SQLiteStore) Search(namespace, query string) ([]Entry, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT key, value FROM memory
		WHERE namespace = ? AND (key LIKE ? OR value LIKE ?)
		ORDER BY key ASC
	`, namespace, pattern, pattern)
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, "failed to search memory rows", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := make([]Entry, 0)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, errors.Wrap(errors.CodePersistence, "failed to scan memory row", err)
		}
		var value any
		if err := json.Unmarshal([]byte(data), &value); err != nil {
			return nil, errors.Wrap(errors.CodePersistence, "corrupt memory row", err)
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.CodePersistence, "failed to iterate memory rows", err)
	}
	return entries, nil
}

// Save is a no-op: writes are durable on Put.
func (s *SQLiteStore) Save() error { return nil }

// Load is a no-op: reads always hit the database.
func (s *SQLiteStore) Load() error { return nil }

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
