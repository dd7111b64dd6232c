package persistence

import (
	"context"
	"sync"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
)

// MemoryStorage keeps the encoded cart blob in process memory.
// State does not survive a restart.
type MemoryStorage struct {
	mu   sync.RWMutex
	blob []byte
}

// NewMemoryStorage creates an empty in-memory cart storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load implements cart.Storage
func (s *MemoryStorage) Load(ctx context.Context) (*cart.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.blob == nil {
		return nil, cart.ErrSnapshotNotFound
	}
	return cart.UnmarshalSnapshot(s.blob)
}

// Save implements cart.Storage
func (s *MemoryStorage) Save(ctx context.Context, snapshot cart.Snapshot) error {
	data, err := cart.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.blob = data
	s.mu.Unlock()
	return nil
}

var _ cart.Storage = (*MemoryStorage)(nil)
