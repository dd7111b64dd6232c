package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StorageFactory creates the cart storage selected by configuration
type StorageFactory struct {
	cfg            *config.Config
	logger         *zap.Logger
	memoryFallback bool
	closers        []func() error
}

// StorageFactoryOption is a functional option for configuring the factory
type StorageFactoryOption func(*StorageFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StorageFactoryOption {
	return func(f *StorageFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether an unreachable backend falls back to
// in-memory storage. Default comes from cart.fallback_to_memory.
func WithMemoryFallback(allow bool) StorageFactoryOption {
	return func(f *StorageFactory) {
		f.memoryFallback = allow
	}
}

// NewStorageFactory creates a new factory
func NewStorageFactory(cfg *config.Config, opts ...StorageFactoryOption) *StorageFactory {
	f := &StorageFactory{
		cfg:            cfg,
		logger:         zap.NewNop(),
		memoryFallback: cfg.Cart.FallbackToMemory,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStorage builds the configured storage. When the backend cannot be
// reached and fallback is allowed, a MemoryStorage is returned instead.
func (f *StorageFactory) CreateStorage(ctx context.Context) (cart.Storage, error) {
	storage, err := f.create(ctx)
	if err == nil {
		f.logger.Info("using cart storage", zap.String("storage", f.cfg.Cart.Storage))
		return storage, nil
	}

	if !f.memoryFallback {
		return nil, fmt.Errorf("cart storage %q unavailable: %w", f.cfg.Cart.Storage, err)
	}

	f.logger.Warn("cart storage unavailable, falling back to in-memory storage; the cart will not survive a restart",
		zap.String("storage", f.cfg.Cart.Storage),
		zap.Error(err),
	)
	return NewMemoryStorage(), nil
}

func (f *StorageFactory) create(ctx context.Context) (cart.Storage, error) {
	c := f.cfg.Cart
	switch c.Storage {
	case config.StorageMemory:
		return NewMemoryStorage(), nil

	case config.StorageFile:
		return NewFileStorage(c.FileDir, c.Key)

	case config.StorageRedis:
		s, err := NewRedisStorage(ctx, f.cfg.Redis, c.RedisKeyPrefix, c.Key)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, s.Close)
		return s, nil

	case config.StorageSQL:
		db, err := NewDatabase(&f.cfg.Database, f.logger)
		if err != nil {
			return nil, err
		}
		if f.cfg.Telemetry.Enabled {
			if err := db.EnableTracing(f.cfg.Database.DBName); err != nil {
				f.logger.Warn("cart storage queries will not be traced", zap.Error(err))
			}
		}
		s, err := NewSQLStorage(db.DB, c.Key)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		f.closers = append(f.closers, db.Close)
		return s, nil

	default:
		return nil, fmt.Errorf("unknown cart storage %q", c.Storage)
	}
}

// Close releases connections opened by CreateStorage
func (f *StorageFactory) Close() error {
	var errs []error
	for _, closeFn := range f.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}
