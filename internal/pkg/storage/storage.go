package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get when no object is stored under the path.
var ErrNotExist = errors.New("storage: object does not exist")

// Storage stores opaque blobs under slash-separated relative paths.
type Storage interface {
	// Save writes content to path, replacing any previous object.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object at path. The caller closes the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
