package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshotModel is the row that holds one cart blob
type CartSnapshotModel struct {
	Key       string    `gorm:"column:cart_key;primaryKey;size:255"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name for GORM
func (CartSnapshotModel) TableName() string {
	return "cart_snapshots"
}

// SQLStorage stores the cart blob in the cart_snapshots table
type SQLStorage struct {
	db  *gorm.DB
	key string
}

// NewSQLStorage migrates the cart_snapshots table and returns a storage for key
func NewSQLStorage(db *gorm.DB, key string) (*SQLStorage, error) {
	if key == "" {
		key = cart.DefaultStorageKey
	}
	if err := db.AutoMigrate(&CartSnapshotModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cart_snapshots: %w", err)
	}
	return &SQLStorage{db: db, key: key}, nil
}

// Load implements cart.Storage
func (s *SQLStorage) Load(ctx context.Context) (*cart.Snapshot, error) {
	var model CartSnapshotModel
	err := s.db.WithContext(ctx).Where("cart_key = ?", s.key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	return cart.UnmarshalSnapshot([]byte(model.Payload))
}

// Save implements cart.Storage
func (s *SQLStorage) Save(ctx context.Context, snapshot cart.Snapshot) error {
	data, err := cart.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	model := CartSnapshotModel{
		Key:       s.key,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	return nil
}

var _ cart.Storage = (*SQLStorage)(nil)
