package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rezkam/taskmaster/internal/kv"
)

// Store is a filesystem-based implementation of kv.Store.
// Each key is stored as <baseDir>/<key>.json.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a new filesystem store.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) getFilePath(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

// Get reads the file backing key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := kv.ValidateKey(key); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.getFilePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", kv.ErrNotFound
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// Set writes value to a temporary file and renames it over the target,
// so readers never observe a half-written value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, s.getFilePath(key)); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// Close implements kv.Store. The filesystem store holds no resources.
func (s *Store) Close() error {
	return nil
}
