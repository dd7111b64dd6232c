package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the cart blob under a single Redis key.
// Suitable when several storefront instances share one cart.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage connects to Redis and verifies the connection
func NewRedisStorage(ctx context.Context, cfg config.RedisConfig, keyPrefix, key string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStorageWithClient(client, keyPrefix, key), nil
}

// NewRedisStorageWithClient creates a storage with an existing Redis client
func NewRedisStorageWithClient(client *redis.Client, keyPrefix, key string) *RedisStorage {
	if key == "" {
		key = cart.DefaultStorageKey
	}
	return &RedisStorage{
		client: client,
		key:    keyPrefix + key,
	}
}

// Load implements cart.Storage
func (s *RedisStorage) Load(ctx context.Context) (*cart.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cart.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read cart from Redis: %w", err)
	}
	return cart.UnmarshalSnapshot(data)
}

// Save implements cart.Storage
func (s *RedisStorage) Save(ctx context.Context, snapshot cart.Snapshot) error {
	data, err := cart.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart to Redis: %w", err)
	}
	return nil
}

// Key returns the Redis key the blob is stored under
func (s *RedisStorage) Key() string {
	return s.key
}

// Close closes the Redis client
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

var _ cart.Storage = (*RedisStorage)(nil)
