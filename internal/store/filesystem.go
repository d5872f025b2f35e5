package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"paywall-go/internal/paywall"
)

// FileStore is a filesystem-based implementation of the ContentStore
// interface. Blobs live as files named by handle under a single root:
//
//	<root>/
//	  content/
//	    <handle>
type FileStore struct {
	name       string
	root       string
	contentDir string
}

// NewFileStore creates a new filesystem store rooted at the given path.
func NewFileStore(name, root string) (*FileStore, error) {
	contentDir := filepath.Join(root, "content")
	if err := os.MkdirAll(contentDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}

	return &FileStore{
		name:       name,
		root:       root,
		contentDir: contentDir,
	}, nil
}

// Put stores a blob under its handle. Idempotent: if the handle already
// exists the incoming data is drained and verified against size only.
func (s *FileStore) Put(handle string, r io.Reader, size int64) error {
	destPath := filepath.Join(s.contentDir, handle)

	if _, err := os.Stat(destPath); err == nil {
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}

	return s.writeFile(destPath, r, size)
}

// Get retrieves a blob by handle and writes it to w.
func (s *FileStore) Get(handle string, w io.Writer) error {
	srcPath := filepath.Join(s.contentDir, handle)

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("content not found: %s", handle)
		}
		return fmt.Errorf("opening content: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// KeyRef returns "" — filesystem stores keep blobs as given.
func (s *FileStore) KeyRef() string { return "" }

// ValidateSetup verifies that the store directories are accessible.
func (s *FileStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("store root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store root is not a directory: %s", s.root)
	}
	if _, err := os.Stat(s.contentDir); err != nil {
		return fmt.Errorf("content directory not accessible: %w", err)
	}
	return nil
}

// writeFile writes blob content to destPath, verifying the byte count.
func (s *FileStore) writeFile(destPath string, r io.Reader, size int64) error {
	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating content file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing content: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing content file: %w", err)
	}

	if written != size {
		os.Remove(tmpPath)
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing content file: %w", err)
	}
	return nil
}

// Compile-time check that FileStore implements the ContentStore interface.
var _ paywall.ContentStore = (*FileStore)(nil)
