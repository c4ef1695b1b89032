// Package cachestore is a small persistent string key/value store with
// per-entry timestamps, backed by a local sqlite file. The currency resolver
// uses it to remember the detected currency across page visits.
package cachestore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path (":memory:" works for tests).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key       TEXT PRIMARY KEY,
		value     TEXT NOT NULL,
		stored_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the value and its write time. ok=false means no entry; that is
// not an error.
func (s *Store) Get(key string) (value string, storedAt time.Time, ok bool, err error) {
	var unix int64
	row := s.db.QueryRow(`SELECT value, stored_at FROM kv WHERE key = ?`, key)
	if err := row.Scan(&value, &unix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, time.Unix(unix, 0), true, nil
}

// Put writes the value, last write wins.
func (s *Store) Put(key, value string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at`,
		key, value, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}
	return nil
}
