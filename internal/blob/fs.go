package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs as plain files under a root directory. The server
// exposes the root over HTTP, so public URLs are baseURL + "/" + key.
type FSStore struct {
	root    string
	baseURL string
}

// NewFSStore returns a filesystem store rooted at root, creating the
// directory if needed. baseURL is the URL prefix blobs are served under.
func NewFSStore(root, baseURL string) (*FSStore, error) {
	if root == "" {
		root = "./data/blobs"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}
	return &FSStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Root returns the directory blobs are written to.
func (s *FSStore) Root() string { return s.root }

func (s *FSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	// Write to a temp file and rename so readers never see partial data.
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return s.baseURL + "/" + clean, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	clean, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
