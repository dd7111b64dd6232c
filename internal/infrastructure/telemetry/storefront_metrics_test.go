package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestStorefrontMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sm, err := telemetry.NewStorefrontMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	sm.RecordCartMutation(ctx, "add")
	sm.RecordCartMutation(ctx, "remove")
	sm.RecordPersistenceError(ctx, "save")
	sm.RecordAddressLookup(ctx, telemetry.OutcomeNotFound)
	sm.RecordOrderSubmitted(ctx, telemetry.OutcomeSuccess, decimal.RequireFromString("34.99"))
	sm.RecordOrderSubmitted(ctx, telemetry.OutcomeFailed, decimal.RequireFromString("10"))
	sm.RecordOutbound(ctx, "backend", "create_order", 120*time.Millisecond)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["storefront_cart_mutations_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["storefront_cart_persistence_errors_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["storefront_address_lookups_total"]))
	assert.Equal(t, int64(2), sumOf(t, data["storefront_orders_submitted_total"]))
	assert.Equal(t, int64(3499), sumOf(t, data["storefront_order_amount_total"]))

	hist, ok := data["storefront_outbound_request_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestStorefrontMetrics_NilIsNoop(t *testing.T) {
	var sm *telemetry.StorefrontMetrics
	assert.NotPanics(t, func() {
		sm.RecordCartMutation(context.Background(), "add")
		sm.RecordOrderSubmitted(context.Background(), telemetry.OutcomeSuccess, decimal.NewFromInt(1))
	})
}

func TestNewStorefrontMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewStorefrontMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestNewMeterProvider_DisabledStorefront(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:     false,
		ServiceName: "storefront-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
