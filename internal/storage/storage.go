package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupported is returned by backends that cannot perform an operation.
var ErrUnsupported = errors.New("storage: operation not supported by backend")

// Storage stores uploaded files and returns a URL the dashboard can render.
type Storage interface {
	// Put stores the content under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
