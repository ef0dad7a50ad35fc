// Package storage is a small filesystem abstraction used for catalog backups,
// the encrypted store credentials and the client's persisted state.
//
// Two drivers are available:
//   - "local"  local filesystem (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	storage.Connect(ctx)
//	disk := storage.Use(config.BackupDisk())
//	disk.Put(ctx, "backups/agromart.json", data)
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the file does not exist.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// Files lists the files directly inside directory, sorted.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
