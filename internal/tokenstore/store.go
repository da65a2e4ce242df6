// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tokenstore persists the session bearer token outside process memory.
// It plays the part of browser local storage for the CLI: a synchronous, scoped
// get/set/remove interface over the single key "token".
//
// Several backends are available (OS keychain, sqlite file, redis, postgres, memory). All of
// them sit behind Store, which serialises access and normalises "missing" results
// into ErrNotFound.
package tokenstore

import (
	"errors"
	"fmt"
	"sync"

	"coinly/cli/internal/config"
	cerrors "coinly/cli/internal/errors"
)

// KeyToken is the only key the session layer reads or writes.
const KeyToken = "token"

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "coinly"

// ErrNotFound is returned by backends when the key holds no value.
var ErrNotFound = errors.New("tokenstore: not found")

// Backend is the raw key-value surface each storage implementation provides.
type Backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Store provides thread-safe token operations on top of a Backend.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	name    string
}

// New wraps a backend. name is used only in error messages.
func New(name string, b Backend) *Store {
	return &Store{backend: b, name: name}
}

// Open builds a Store from configuration.
func Open(cfg config.Store) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendKeyring, "":
		b, err = newKeyringBackend()
	case config.BackendSQLite:
		b, err = newSQLiteBackend(cfg.SQLitePath)
	case config.BackendRedis:
		b, err = newRedisBackend(cfg.RedisAddr, cfg.RedisPrefix)
	case config.BackendPostgres:
		b, err = newPostgresBackend(cfg.PostgresDSN)
	case config.BackendMemory:
		b = NewMemory()
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.KindStore, "open "+cfg.Backend+" token store", err)
	}
	name := cfg.Backend
	if name == "" {
		name = config.BackendKeyring
	}
	return New(name, b), nil
}

// Name reports which backend the store uses.
func (s *Store) Name() string { return s.name }

// LoadToken retrieves the persisted token.
// A missing or empty value yields ErrNotFound.
func (s *Store) LoadToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, err := s.backend.Get(KeyToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", cerrors.Wrap(cerrors.KindStore, "load token from "+s.name, err)
	}
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// SaveToken stores the token, replacing any previous value.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(KeyToken, token); err != nil {
		return cerrors.Wrap(cerrors.KindStore, "save token to "+s.name, err)
	}
	return nil
}

// ClearToken removes the token. Removing an absent token is not an error.
func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(KeyToken); err != nil && !errors.Is(err, ErrNotFound) {
		return cerrors.Wrap(cerrors.KindStore, "clear token from "+s.name, err)
	}
	return nil
}

// Close releases backend resources when the backend holds any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.backend.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
