package params

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the production parameter store: a small read-mostly
// key/value table in SQLite, with a companion table for per-user overrides.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a parameter database at path and
// runs the schema migration.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter database %s: %w", path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the parameter tables and seeds the built-in defaults for
// any path not already present.
func (s *SQLiteStore) Migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS parameters (
	path  TEXT PRIMARY KEY,
	value REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS user_parameters (
	user_id TEXT NOT NULL,
	path    TEXT NOT NULL,
	value   REAL NOT NULL,
	PRIMARY KEY (user_id, path)
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate parameter schema: %w", err)
	}
	for path, value := range Defaults() {
		if _, err := s.db.Exec(
			`INSERT INTO parameters (path, value) VALUES (?, ?) ON CONFLICT(path) DO NOTHING`,
			path, value,
		); err != nil {
			return fmt.Errorf("failed to seed parameter %s: %w", path, err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Lookup(path string) (any, bool) {
	var value float64
	err := s.db.QueryRow(`SELECT value FROM parameters WHERE path = ?`, path).Scan(&value)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (s *SQLiteStore) LookupUser(userID, path string) (any, bool) {
	var value float64
	err := s.db.QueryRow(
		`SELECT value FROM user_parameters WHERE user_id = ? AND path = ?`,
		userID, path,
	).Scan(&value)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (s *SQLiteStore) Set(path string, value float64) error {
	_, err := s.db.Exec(
		`INSERT INTO parameters (path, value) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET value = excluded.value`,
		path, value,
	)
	return err
}

func (s *SQLiteStore) SetUser(userID, path string, value float64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_parameters (user_id, path, value) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, path) DO UPDATE SET value = excluded.value`,
		userID, path, value,
	)
	return err
}

func (s *SQLiteStore) All() (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT path, value FROM parameters`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]float64)
	for rows.Next() {
		var path string
		var value float64
		if err := rows.Scan(&path, &value); err != nil {
			return nil, err
		}
		out[path] = value
	}
	return out, rows.Err()
}
