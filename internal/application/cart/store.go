package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/logger"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the process-wide cart. It restores the saved cart on creation
// and writes the whole cart back after every mutating call.
//
// Storage failures never reach the caller: a failed read starts an empty
// cart and a failed write is logged while the in-memory cart keeps the change.
type Store struct {
	mu      sync.RWMutex
	cart    *cart.Cart
	storage cart.Storage
	logger  *zap.Logger
	metrics *telemetry.StorefrontMetrics
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the logger used for persistence warnings
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records mutations and persistence failures
func WithMetrics(m *telemetry.StorefrontMetrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a Store and restores the saved cart from storage
func NewStore(ctx context.Context, storage cart.Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cart = s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) *cart.Cart {
	snapshot, err := s.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, cart.ErrSnapshotNotFound) {
			s.warn(ctx, "restore", shared.NewPersistenceWarning("failed to restore cart, starting empty", err))
		}
		return cart.New()
	}
	c := cart.Restore(*snapshot)
	logger.WithLogger(ctx, s.logger).Debug("cart restored", zap.Int("lines", len(c.Items())))
	return c
}

// Add puts one unit of product in the cart
func (s *Store) Add(ctx context.Context, product cart.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Add(product); err != nil {
		return err
	}
	s.persist(ctx, "add")
	return nil
}

// Remove drops the line for id
func (s *Store) Remove(ctx context.Context, id valueobject.ExternalID) {
	s.mutate(ctx, "remove", func(c *cart.Cart) { c.Remove(id) })
}

// SetQuantity sets the quantity for id. n <= 0 removes the line.
func (s *Store) SetQuantity(ctx context.Context, id valueobject.ExternalID, n int) {
	s.mutate(ctx, "set_quantity", func(c *cart.Cart) { c.SetQuantity(id, n) })
}

// Increment adds one to the quantity of id
func (s *Store) Increment(ctx context.Context, id valueobject.ExternalID) {
	s.mutate(ctx, "increment", func(c *cart.Cart) { c.Increment(id) })
}

// Decrement subtracts one from the quantity of id, removing it at zero
func (s *Store) Decrement(ctx context.Context, id valueobject.ExternalID) {
	s.mutate(ctx, "decrement", func(c *cart.Cart) { c.Decrement(id) })
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", func(c *cart.Cart) { c.Clear() })
}

// ClearSubmitted removes the units of a submitted order from the cart.
// Lines changed after the order was read keep the difference.
func (s *Store) ClearSubmitted(ctx context.Context, items []cart.LineItem) {
	s.mutate(ctx, "clear_submitted", func(c *cart.Cart) { c.Deduct(items) })
}

// TotalItemCount is the sum of all quantities
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalItemCount()
}

// TotalPrice is the sum of unit price times quantity
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalPrice()
}

// Contains reports whether id has a line
func (s *Store) Contains(id valueobject.ExternalID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Contains(id)
}

// QuantityOf returns the quantity of id, 0 when absent
func (s *Store) QuantityOf(id valueobject.ExternalID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.QuantityOf(id)
}

// Items returns a copy of the lines in insertion order
func (s *Store) Items() []cart.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Items()
}

// Snapshot returns the current cart in its durable form
func (s *Store) Snapshot() cart.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Snapshot()
}

// View returns the cart with its derived totals
func (s *Store) View() CartResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToCartResponse(s.cart.Items())
}

func (s *Store) mutate(ctx context.Context, op string, fn func(*cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.cart)
	s.persist(ctx, op)
}

// persist must be called with s.mu held
func (s *Store) persist(ctx context.Context, op string) {
	s.metrics.RecordCartMutation(ctx, op)
	if err := s.storage.Save(ctx, s.cart.Snapshot()); err != nil {
		s.warn(ctx, op, shared.NewPersistenceWarning("failed to save cart", err))
	}
}

func (s *Store) warn(ctx context.Context, op string, err error) {
	s.metrics.RecordPersistenceError(ctx, op)
	logger.WithLogger(ctx, s.logger).Warn("cart storage unavailable",
		zap.String("operation", op),
		zap.Error(err),
	)
}

var _ checkout.CartClearer = (*Store)(nil)
