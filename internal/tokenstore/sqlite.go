// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"coinly/cli/internal/xdg"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch())
)`

// sqliteBackend keeps key/value pairs in a single-table sqlite file, the same
// shape browsers use for local storage.
type sqliteBackend struct {
	db *sql.DB
}

// newSQLiteBackend opens (creating if needed) the database at path. An empty
// path resolves to storage.db in the XDG state directory.
func newSQLiteBackend(path string) (*sqliteBackend, error) {
	if path == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "storage.db")
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

// NewSQLite exposes the sqlite backend for callers wiring a Store by hand.
func NewSQLite(path string) (Backend, error) {
	return newSQLiteBackend(path)
}

func (s *sqliteBackend) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return err
}

func (s *sqliteBackend) Get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *sqliteBackend) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key)
	return err
}

func (s *sqliteBackend) Close() error {
	return s.db.Close()
}
