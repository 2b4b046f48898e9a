package store

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"shadowtalk/internal/domain"
)

const blobExt = ".sk"

// BlobFileStore keeps encrypted key blobs as individual files under dir.
type BlobFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewBlobFileStore returns a BlobFileStore rooted at dir.
func NewBlobFileStore(dir string) *BlobFileStore { return &BlobFileStore{dir: dir} }

// Get returns the stored blob for id, with ok=false when absent.
func (s *BlobFileStore) Get(id string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Put stores blob for id, replacing any existing one.
func (s *BlobFileStore) Put(id string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeFile(s.path(id), blob, 0o600)
}

// Delete removes the blob for id. Deleting an absent blob is not an error.
func (s *BlobFileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// path maps an identity key to a file name. Usernames are escaped so
// arbitrary input cannot traverse outside dir.
func (s *BlobFileStore) path(id string) string {
	return filepath.Join(s.dir, url.PathEscape(id)+blobExt)
}

// Compile-time assertion that BlobFileStore implements domain.BlobStore.
var _ domain.BlobStore = (*BlobFileStore)(nil)
