package cache

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielreuter/reagency/internal/platform/atomicfile"
)

// FileStore persists one file per digest under a root directory, sharded
// by the first two hex characters to keep directory sizes manageable.
//
// Layout:
//
//	{root}/
//	  {key[0:2]}/
//	    {key}
type FileStore struct {
	root string
}

// NewFileStore returns a store rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Root returns the store's root directory.
func (s *FileStore) Root() string { return s.root }

// Has reports whether an entry exists for the key.
func (s *FileStore) Has(key Key) (bool, error) {
	_, err := os.Stat(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking cache entry: %w", err)
	}
	return true, nil
}

// Get returns the stored payload, or ErrNotFound.
func (s *FileStore) Get(key Key) ([]byte, error) {
	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return data, nil
}

// Put stores the payload under the key with write-once semantics. Entries
// are committed atomically, so a concurrent Put of the same key with equal
// bytes is a harmless overwrite with identical content.
func (s *FileStore) Put(key Key, data []byte) error {
	path := s.entryPath(key)
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("%w: key %s", ErrKeyConflict, key)
	case !os.IsNotExist(err):
		return fmt.Errorf("checking cache entry: %w", err)
	}

	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (s *FileStore) entryPath(key Key) string {
	k := string(key)
	if len(k) < 2 {
		return filepath.Join(s.root, k)
	}
	return filepath.Join(s.root, k[:2], k)
}
