// Package mysql stores key-value entries in a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/rezkam/taskmaster/internal/kv"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DBConfig holds MySQL connection configuration.
type DBConfig struct {
	DSN             string        // user:pass@tcp(host:3306)/dbname
	MaxOpenConns    int           // Maximum open connections (default: 4)
	MaxIdleConns    int           // Maximum idle connections (default: 1)
	ConnMaxLifetime time.Duration // Connection max lifetime (default: 5min)
}

// Store implements kv.Store on a MySQL table.
type Store struct {
	db *sql.DB
}

var _ kv.Store = (*Store)(nil)

// NewStore connects, configures the pool and runs migrations.
func NewStore(ctx context.Context, cfg DBConfig) (*Store, error) {
	mcfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	// updated_at is written as time.Time and the migration tool reads timestamps.
	mcfg.ParseTime = true

	db, err := sql.Open("mysql", mcfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 4
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 1
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	if err := db.PingContext(ctx); err != nil {
		closeDB(ctx, db)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		closeDB(ctx, db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := kv.ValidateKey(key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT `value` FROM kv_entries WHERE `key` = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv_entries (`key`, `value`, updated_at) VALUES (?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`), updated_at = VALUES(updated_at)",
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func closeDB(ctx context.Context, db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.ErrorContext(ctx, "Failed to close database", "error", err)
	}
}
