// Package kv defines the key-value persistence service the task store
// mirrors its state to, plus an in-memory implementation and a debounced
// writer that batches mutations into backend writes.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that no value is stored under the key.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey indicates a key that cannot be stored by the backend.
	ErrInvalidKey = errors.New("invalid key")
)

// Store is a text key-value persistence service.
// Implementations can be file-based, cloud-storage based, SQL-based, etc.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases backend resources.
	Close() error
}

// Source is the read side of a Store, used once at startup to rehydrate state.
type Source interface {
	Get(ctx context.Context, key string) (string, error)
}

// Sink accepts fire-and-forget writes. BatchWriter implements it.
type Sink interface {
	Set(key, value string)
}

// ValidateKey rejects keys that are empty, too long, or that could escape a
// directory or object prefix. Keys are restricted to [A-Za-z0-9._-].
func ValidateKey(key string) error {
	if key == "" || len(key) > 191 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
