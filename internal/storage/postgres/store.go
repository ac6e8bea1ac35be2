// Package postgres stores key-value entries in a PostgreSQL table.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rezkam/taskmaster/internal/config"
	"github.com/rezkam/taskmaster/internal/kv"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// A single user's task list needs only a handful of connections.
const (
	defaultMaxConns     = 4
	defaultMinConns     = 1
	defaultConnLifetime = 5 * time.Minute
	connMaxIdleTime     = time.Minute
)

// Store implements kv.Store on a PostgreSQL table.
type Store struct {
	pool *pgxpool.Pool
}

var _ kv.Store = (*Store)(nil)

// NewStore connects with the pool settings from cfg and brings the
// kv_entries schema up to date.
func NewStore(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{pool: pool}, nil
}

// poolConfig maps the storage settings onto a pgxpool config. Zero values
// fall back to the package defaults.
func poolConfig(cfg config.StorageConfig) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	maxConns := int32(cfg.MaxOpenConns)
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	minConns := int32(cfg.MaxIdleConns)
	if minConns <= 0 {
		minConns = defaultMinConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnLifetime
	}

	pcfg.MaxConns = maxConns
	pcfg.MinConns = min(minConns, maxConns)
	pcfg.MaxConnLifetime = lifetime
	pcfg.MaxConnIdleTime = connMaxIdleTime
	if _, ok := pcfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		pcfg.ConnConfig.RuntimeParams["application_name"] = "taskmaster"
	}
	return pcfg, nil
}

// runMigrations applies the embedded goose migrations over a database/sql
// handle borrowed from the pool.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close migration handle", "error", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := kv.ValidateKey(key); err != nil {
		return "", err
	}

	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", kv.ErrNotFound
		}
		return "", fmt.Errorf("failed to read entry: %w", err)
	}
	return value, nil
}

// Set implements kv.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE kv_entries")
	return err
}
