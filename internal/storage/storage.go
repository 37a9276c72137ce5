package storage

import (
	"context"
	"io"
	"time"

	"github.com/sethvargo/go-retry"
)

const bootstrapAttempts = 5

var bootstrapBackoff = 3 * time.Second

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// Bootstrap ensures the configured bucket exists, tolerating transient
// backend unavailability at startup: five attempts with a fixed backoff,
// then a hard failure.
func (s *Storage) Bootstrap(ctx context.Context) error {
	backoff := retry.WithMaxRetries(bootstrapAttempts-1, retry.NewConstant(bootstrapBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.backend.EnsureBucket(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// PublicURL returns the externally reachable URL for an object key.
func (s *Storage) PublicURL(key string) string {
	return s.backend.PublicURL(key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
