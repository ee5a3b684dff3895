package storage

import (
	"context"
	"io"
)

// ObjectStorage is where the refresh step publishes the catalog asset.
type ObjectStorage interface {
	// EnsureBucket creates the bucket if the backend allows it
	EnsureBucket(ctx context.Context) error

	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// GetURL returns the public URL for an object
	GetURL(key string) string
}
