package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/rezkam/taskmaster/internal/kv"
)

// Store is a GCS-based implementation of kv.Store.
// Each key is stored as the object <prefix><key>.json.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a new GCS store.
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
func NewStore(ctx context.Context, bucketName, prefix string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: prefix,
	}, nil
}

func (s *Store) objectName(key string) string {
	return s.prefix + key + ".json"
}

// Get reads the object backing key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := kv.ValidateKey(key); err != nil {
		return "", err
	}

	r, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		// Use errors.Is to handle wrapped errors from GCS client
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", kv.ErrNotFound
		}
		return "", fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}
	return string(data), nil
}

// Set overwrites the object backing key. GCS object writes are atomic:
// readers see either the old or the new value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}

	w := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := io.WriteString(w, value); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

// Close closes the GCS client.
func (s *Store) Close() error {
	return s.client.Close()
}
