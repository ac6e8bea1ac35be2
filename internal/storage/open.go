// Package storage opens the key-value persistence backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rezkam/taskmaster/internal/config"
	"github.com/rezkam/taskmaster/internal/kv"
	"github.com/rezkam/taskmaster/internal/storage/fs"
	"github.com/rezkam/taskmaster/internal/storage/gcs"
	"github.com/rezkam/taskmaster/internal/storage/mysql"
	"github.com/rezkam/taskmaster/internal/storage/postgres"
	"github.com/rezkam/taskmaster/internal/storage/sqlite"
)

// Open returns the backend named by cfg.Type. The caller owns the returned
// store and must Close it.
func Open(ctx context.Context, cfg config.StorageConfig) (kv.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		store kv.Store
		err   error
	)
	switch cfg.Type {
	case config.StorageMemory:
		store = kv.NewMemory()
	case config.StorageFS:
		store, err = fs.NewStore(cfg.FSDir)
	case config.StorageGCS:
		store, err = gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	case config.StorageSQLite:
		store, err = sqlite.NewStore(ctx, cfg.SQLitePath)
	case config.StoragePostgres:
		store, err = postgres.NewStore(ctx, cfg)
	case config.StorageMySQL:
		store, err = mysql.NewStore(ctx, mysql.DBConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Type, err)
	}

	slog.DebugContext(ctx, "storage opened", "type", cfg.Type)
	return store, nil
}
