package efiling

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore keeps uploaded documents on the local filesystem under a single
// directory, named by a fresh uuid plus the original extension so uploads can
// never collide or traverse paths.
type BlobStore struct {
	Dir string
}

func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &BlobStore{Dir: dir}, nil
}

// Save streams the upload to disk and returns the stored relative name.
func (b *BlobStore) Save(originalName string, r io.Reader) (string, int64, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(b.Dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("creating blob: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("writing blob: %w", err)
	}
	return name, n, nil
}

// Open returns a reader over a stored blob. The name must be one previously
// returned by Save; anything with a path separator is rejected.
func (b *BlobStore) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid blob name %q", name)
	}
	return os.Open(filepath.Join(b.Dir, name))
}

func (b *BlobStore) Remove(name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return os.Remove(filepath.Join(b.Dir, name))
}
