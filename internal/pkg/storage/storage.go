package storage

import (
	"context"
	"io"
)

// FileStorage stores attendance photos and document attachments by key.
type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// Object is an opened file ready to be streamed to a client. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Name        string
}
