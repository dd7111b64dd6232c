package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockStorage is a mock implementation of cart.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Load(ctx context.Context) (*cart.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Snapshot), args.Error(1)
}

func (m *MockStorage) Save(ctx context.Context, snapshot cart.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// recordingStorage keeps every saved snapshot
type recordingStorage struct {
	mu    sync.Mutex
	saved []cart.Snapshot
}

func (r *recordingStorage) Load(context.Context) (*cart.Snapshot, error) {
	return nil, cart.ErrSnapshotNotFound
}

func (r *recordingStorage) Save(_ context.Context, s cart.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, s)
	return nil
}

func (r *recordingStorage) last() cart.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[len(r.saved)-1]
}

func product(id int64, price string) cart.Product {
	return cart.Product{
		ID:    valueobject.NewNumericID(id),
		Title: "Product",
		Price: decimal.RequireFromString(price),
		Image: "img.png",
	}
}

func TestNewStore_RestoresSavedCart(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Load", mock.Anything).Return(&cart.Snapshot{Items: []cart.LineItem{
		{ProductID: valueobject.NewNumericID(1), ProductName: "A", UnitPrice: decimal.RequireFromString("10"), Quantity: 3},
	}}, nil)

	s := NewStore(context.Background(), storage)

	assert.Equal(t, 3, s.TotalItemCount())
	assert.True(t, s.Contains(valueobject.NewNumericID(1)))
	storage.AssertExpectations(t)
}

func TestNewStore_ReadFailureStartsEmpty(t *testing.T) {
	t.Run("missing snapshot is silent", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)
		storage := new(MockStorage)
		storage.On("Load", mock.Anything).Return(nil, cart.ErrSnapshotNotFound)

		s := NewStore(context.Background(), storage, WithLogger(zap.New(core)))

		assert.Equal(t, 0, s.TotalItemCount())
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("storage error is logged", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)
		storage := new(MockStorage)
		storage.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))

		s := NewStore(context.Background(), storage, WithLogger(zap.New(core)))

		assert.Empty(t, s.Items())
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "restore", recorded.All()[0].ContextMap()["operation"])
	})
}

func TestStore_PersistsAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	storage := &recordingStorage{}
	s := NewStore(ctx, storage)
	id := valueobject.NewNumericID(1)

	require.NoError(t, s.Add(ctx, product(1, "10.50")))
	require.NoError(t, s.Add(ctx, product(1, "10.50")))
	s.Increment(ctx, id)
	s.Decrement(ctx, id)
	s.SetQuantity(ctx, id, 5)
	s.Remove(ctx, valueobject.NewNumericID(404))

	assert.Len(t, storage.saved, 6)
	last := storage.last()
	require.Len(t, last.Items, 1)
	assert.Equal(t, 5, last.Items[0].Quantity)

	s.Clear(ctx)
	assert.Len(t, storage.saved, 7)
	assert.Empty(t, storage.last().Items)
}

func TestStore_ClearSubmitted(t *testing.T) {
	ctx := context.Background()
	storage := &recordingStorage{}
	s := NewStore(ctx, storage)

	require.NoError(t, s.Add(ctx, product(1, "10.50")))
	submitted := s.Snapshot().Items
	require.NoError(t, s.Add(ctx, product(2, "3.00")))

	s.ClearSubmitted(ctx, submitted)

	assert.False(t, s.Contains(valueobject.NewNumericID(1)))
	assert.Equal(t, 1, s.QuantityOf(valueobject.NewNumericID(2)))
	require.Len(t, storage.last().Items, 1)
	assert.Equal(t, "2", storage.last().Items[0].ProductID.String())
}

func TestStore_WriteFailureKeepsChange(t *testing.T) {
	ctx := context.Background()
	core, recorded := observer.New(zapcore.WarnLevel)
	storage := new(MockStorage)
	storage.On("Load", mock.Anything).Return(nil, cart.ErrSnapshotNotFound)
	storage.On("Save", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	s := NewStore(ctx, storage, WithLogger(zap.New(core)))
	require.NoError(t, s.Add(ctx, product(7, "2.00")))

	assert.Equal(t, 1, s.QuantityOf(valueobject.NewNumericID(7)))
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "add", recorded.All()[0].ContextMap()["operation"])
}

func TestStore_AddRejectsInvalidProduct(t *testing.T) {
	ctx := context.Background()
	storage := &recordingStorage{}
	s := NewStore(ctx, storage)

	err := s.Add(ctx, cart.Product{Title: "no id", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, cart.ErrProductIDRequired)
	assert.Empty(t, storage.saved)
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, &recordingStorage{})

	require.NoError(t, s.Add(ctx, product(1, "0.10")))
	require.NoError(t, s.Add(ctx, product(2, "0.20")))
	s.SetQuantity(ctx, valueobject.NewNumericID(2), 3)

	assert.Equal(t, 4, s.TotalItemCount())
	assert.True(t, s.TotalPrice().Equal(decimal.RequireFromString("0.70")))

	view := s.View()
	assert.Equal(t, 4, view.TotalItems)
	assert.Equal(t, "0.70", view.TotalPrice.StringFixed(2))
	require.Len(t, view.Items, 2)
	assert.Equal(t, "0.60", view.Items[1].LineTotal.StringFixed(2))
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, &recordingStorage{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Add(ctx, product(1, "1.00"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.QuantityOf(valueobject.NewNumericID(1)))
}
