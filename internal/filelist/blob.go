package filelist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Blob is a temporary local reference to downloaded content
type Blob struct {
	ID   string // blob:<uuid>
	Path string
	Size int64
}

// BlobStore creates and releases temporary blobs
type BlobStore interface {
	Create(data []byte) (Blob, error)
	Release(b Blob) error
}

// Saver persists a blob under a file name and returns where it went
type Saver interface {
	Save(b Blob, fileName string) (string, error)
}

// TempBlobStore keeps blobs as files in a temporary directory
type TempBlobStore struct {
	dir string

	mu   sync.Mutex
	live map[string]Blob
}

// NewTempBlobStore creates a blob store in dir, or in the system temp directory when dir is empty
func NewTempBlobStore(dir string) *TempBlobStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempBlobStore{
		dir:  dir,
		live: make(map[string]Blob),
	}
}

// Create writes data to a new temporary file
func (s *TempBlobStore) Create(data []byte) (Blob, error) {
	id := uuid.NewString()

	f, err := os.CreateTemp(s.dir, "bkt-blob-"+id+"-*")
	if err != nil {
		return Blob{}, fmt.Errorf("error creating blob: %w", err)
	}

	b := Blob{ID: "blob:" + id, Path: f.Name(), Size: int64(len(data))}
	s.mu.Lock()
	s.live[b.ID] = b
	s.mu.Unlock()

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = s.Release(b)
		return Blob{}, fmt.Errorf("error writing blob: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.Release(b)
		return Blob{}, fmt.Errorf("error closing blob: %w", err)
	}

	return b, nil
}

// Release removes the blob's backing file
func (s *TempBlobStore) Release(b Blob) error {
	s.mu.Lock()
	delete(s.live, b.ID)
	s.mu.Unlock()

	if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error releasing blob %s: %w", b.ID, err)
	}
	return nil
}

// Outstanding returns the number of blobs created and not yet released
func (s *TempBlobStore) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// DirSaver copies blobs into a directory
type DirSaver struct {
	Dir string
}

// Save copies the blob to Dir under the base name of fileName
func (d DirSaver) Save(b Blob, fileName string) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("error creating download directory: %w", err)
	}

	src, err := os.Open(b.Path)
	if err != nil {
		return "", fmt.Errorf("error opening blob: %w", err)
	}
	defer src.Close()

	target := filepath.Join(d.Dir, filepath.Base(fileName))
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("error writing %s: %w", target, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("error closing %s: %w", target, err)
	}

	return target, nil
}
