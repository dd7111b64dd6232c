package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultStorageKey is the namespace key the cart blob is stored under
const DefaultStorageKey = "ecommerce_cart"

// ErrSnapshotNotFound is returned by Storage.Load when nothing has been saved yet
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Snapshot is the durable form of a cart: {"items":[...]}
type Snapshot struct {
	Items []LineItem `json:"items"`
}

// Storage is the persistence port for the cart blob
type Storage interface {
	// Load returns the stored snapshot or ErrSnapshotNotFound
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the stored snapshot
	Save(ctx context.Context, snapshot Snapshot) error
}

// MarshalSnapshot encodes a snapshot. A nil item list is written as [].
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	if s.Items == nil {
		s.Items = []LineItem{}
	}
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a stored blob
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt cart snapshot: %w", err)
	}
	if s.Items == nil {
		s.Items = []LineItem{}
	}
	return &s, nil
}
