package cart

import (
	"testing"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(widget()))
	require.NoError(t, c.Add(widget()))
	require.NoError(t, c.Add(Product{
		ID:    valueobject.NewExternalID("sku-3"),
		Title: "Thing",
		Price: decimal.RequireFromString("3.333"),
		Image: "thing.png",
	}))

	data, err := MarshalSnapshot(c.Snapshot())
	require.NoError(t, err)

	restored, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	original := c.Items()
	got := Restore(*restored).Items()
	require.Len(t, got, len(original))
	for i := range original {
		assert.Equal(t, original[i].ProductID, got[i].ProductID)
		assert.Equal(t, original[i].ProductName, got[i].ProductName)
		assert.Equal(t, original[i].ProductImage, got[i].ProductImage)
		assert.Equal(t, original[i].Quantity, got[i].Quantity)
		assert.True(t, original[i].UnitPrice.Equal(got[i].UnitPrice))
	}
}

func TestMarshalSnapshot_Empty(t *testing.T) {
	data, err := MarshalSnapshot(Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestUnmarshalSnapshot(t *testing.T) {
	t.Run("accepts numeric prices and ids", func(t *testing.T) {
		s, err := UnmarshalSnapshot([]byte(`{"items":[{"product_id":1,"product_name":"Widget","product_image":"","unit_price":9.99,"quantity":1}]}`))
		require.NoError(t, err)
		require.Len(t, s.Items, 1)
		assert.True(t, s.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
		assert.True(t, s.Items[0].ProductID.IsNumeric())
	})

	t.Run("missing items", func(t *testing.T) {
		s, err := UnmarshalSnapshot([]byte(`{}`))
		require.NoError(t, err)
		assert.NotNil(t, s.Items)
		assert.Empty(t, s.Items)
	})

	t.Run("corrupt", func(t *testing.T) {
		_, err := UnmarshalSnapshot([]byte(`{"items":`))
		assert.Error(t, err)
	})
}
