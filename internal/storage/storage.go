package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

// Storage reads and replaces whole objects. The snapshot repositories keep
// goals.json and votes.json (or .msgpack) behind it.
type Storage interface {
	// Read returns ErrNotFound when nothing has been written at path yet
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the object at path
	Write(ctx context.Context, path string, data []byte) error
}
