package repository

import (
	"context"
	"io"
)

// ObjectStorage stores opaque blobs by key: profile pictures and, with the
// object cache backend, structured texts.
type ObjectStorage interface {
	// Upload writes reader under key, replacing any existing object.
	// size may be -1 when the length is unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens the object under key. The caller closes the reader.
	// Returns ErrObjectNotFound if the key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}
