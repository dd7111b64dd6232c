package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
)

// FileStorage writes the cart blob to {dir}/{key}.json.
// Writes go through a temp file and a rename so a crash never leaves a
// half-written blob behind.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates the directory if needed and returns a storage for key
func NewFileStorage(dir, key string) (*FileStorage, error) {
	if key == "" {
		key = cart.DefaultStorageKey
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart directory: %w", err)
	}
	return &FileStorage{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the file the blob is written to
func (s *FileStorage) Path() string {
	return s.path
}

// Load implements cart.Storage
func (s *FileStorage) Load(ctx context.Context) (*cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cart.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}
	return cart.UnmarshalSnapshot(data)
}

// Save implements cart.Storage
func (s *FileStorage) Save(ctx context.Context, snapshot cart.Snapshot) error {
	data, err := cart.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cart file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace cart file: %w", err)
	}
	return nil
}

var _ cart.Storage = (*FileStorage)(nil)
