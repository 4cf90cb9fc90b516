package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
)

var ErrDocumentNotFound = eris.New("configuration document not found")

// Store persists the raw configuration document. Read returns an error wrapping ErrDocumentNotFound when nothing
// has been written yet.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// FileStore keeps the document in a single file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrDocumentNotFound, "no file at %q", s.Path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %q", s.Path)
	}
	return data, nil
}

// Write replaces the file through a temporary file in the same directory so readers never see a partial document.
func (s *FileStore) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create directory %q", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrap(err, "failed to write temporary file")
	}
	if err = tmp.Close(); err != nil {
		return eris.Wrap(err, "failed to close temporary file")
	}
	if err = os.Rename(tmp.Name(), s.Path); err != nil {
		return eris.Wrapf(err, "failed to replace %q", s.Path)
	}
	return nil
}

// MemoryStore keeps the document in memory. The zero value is an empty store.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	exists bool
	writes int
}

// NewMemoryStore returns a store that already holds data.
func NewMemoryStore(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...), exists: true}
}

func (s *MemoryStore) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil, eris.Wrap(ErrDocumentNotFound, "memory store is empty")
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.exists = true
	s.writes++
	return nil
}

// Writes returns how many times Write was called.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
