// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresOpTimeout bounds each call; the store interface is synchronous.
const postgresOpTimeout = 5 * time.Second

const postgresSchema = `CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// postgresBackend keeps the token in a shared database, for agents that
// already have one and no redis.
type postgresBackend struct {
	pool *pgxpool.Pool
}

// newPostgresBackend connects to dsn, checks the connection and creates the
// local_storage table if needed.
func newPostgresBackend(dsn string) (*postgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 2

	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &postgresBackend{pool: pool}, nil
}

// NewPostgres wraps an existing pool. The local_storage table must exist.
func NewPostgres(pool *pgxpool.Pool) Backend {
	return &postgresBackend{pool: pool}
}

func (p *postgresBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()
	_, err := p.pool.Exec(ctx, `INSERT INTO local_storage (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return err
}

func (p *postgresBackend) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()
	var v string
	err := p.pool.QueryRow(ctx, `SELECT value FROM local_storage WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (p *postgresBackend) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()
	_, err := p.pool.Exec(ctx, `DELETE FROM local_storage WHERE key = $1`, key)
	return err
}

func (p *postgresBackend) Close() error {
	p.pool.Close()
	return nil
}
