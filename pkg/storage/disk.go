// Package storage provides the filesystem abstraction that holds uploaded
// category and product images.
//
// Two drivers are available:
//   - "local"  local filesystem under STORAGE_LOCAL_ROOT (default "public")
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	// boot once (internal/server):
//	if err := storage.Connect(); err != nil { ... }
//
//	disk := storage.Default()
//	_ = disk.Put(ctx, "upload/category/5/category_image_x.png", r)
//	url := disk.URL("upload/category/5/category_image_x.png")
//
// Paths are always slash-separated and relative to the disk root.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is wrapped by Get when path does not exist.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the filesystem driver interface. Every driver must implement this.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader) error

	// Get returns a ReadCloser for the file. Caller must close it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// MakeDirectory creates directory (and any parents). Idempotent.
	MakeDirectory(ctx context.Context, path string) error

	// DeleteDirectory removes directory and all its contents.
	DeleteDirectory(ctx context.Context, path string) error
}
