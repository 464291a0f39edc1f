// Package storage provides a filesystem abstraction used for product
// images. Two drivers are available:
//   - "local"  local filesystem (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	storage.Connect()
//
//	// default disk
//	storage.Put("products/42/cover.jpg", data)
//	url := storage.URL("products/42/cover.jpg")
//
//	// named disk
//	storage.Disk("s3").Put("products/42/cover.jpg", data)
package storage

import (
	"io"
)

// FS is the filesystem driver interface. Every driver implements this.
type FS interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// Files lists non-recursive filenames directly inside directory.
	Files(directory string) ([]string, error)

	// DeleteDirectory removes directory and all its contents.
	DeleteDirectory(path string) error
}
