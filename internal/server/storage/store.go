// Package storage keeps uploaded file bodies. Keys are slash-separated
// relative paths such as "avatars/avatar-1700000000-ab12cd.png".
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/poshtyar/internal/common"
)

// Backends.
const (
	BackendS3   = "s3"
	BackendDisk = "disk"
)

// Top-level key prefixes.
const (
	AvatarsPrefix   = "avatars"
	DocumentsPrefix = "documents"
)

// BlobStore is implemented by S3Store and DiskStore. Get returns
// common.ErrorNotFound for a missing key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// URL returns a location a browser can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
}

// validateKey rejects keys that could escape the store root.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid storage key %q: %w", key, common.ErrorValidation)
	}
	if clean := path.Clean(key); clean != key || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return fmt.Errorf("invalid storage key %q: %w", key, common.ErrorValidation)
	}
	return nil
}
