// Package blob stores uploaded files (currently avatars) behind a small
// driver interface so the same handler code works against the local
// filesystem in development and S3-compatible object storage in production.
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Store writes and removes blobs addressed by key. Put returns the public
// URL where the blob can be fetched.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// sanitizeKey rejects keys that are empty, absolute, or escape upward.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty blob key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("absolute blob key %q", key)
	}
	clean := path.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("blob key %q escapes root", key)
	}
	return clean, nil
}
