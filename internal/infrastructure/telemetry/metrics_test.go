package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newManualMeterProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider, reader
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    60 * time.Second,
		ServiceName:       "storefront",
	}

	mp, err := telemetry.NewMeterProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, mp)

	assert.False(t, mp.IsEnabled())
	assert.Equal(t, "storefront", mp.GetConfig().ServiceName)
	assert.NotNil(t, mp.Meter("storefront"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping exporter test in short mode")
	}

	ctx := context.Background()
	// the gRPC exporter dials lazily, so no collector is needed to construct it
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "storefront",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("storefront"))

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = mp.Shutdown(shutdownCtx)
}

func TestCounter(t *testing.T) {
	provider, reader := newManualMeterProvider(t)
	ctx := context.Background()

	counter, err := telemetry.NewCounter(provider.Meter("test"), "cart_items_total", "Items added", "{items}")
	require.NoError(t, err)

	counter.Add(ctx, 3, telemetry.AttrOperation.String("add"))
	counter.Inc(ctx, telemetry.AttrOperation.String("add"))
	counter.Inc(ctx, telemetry.AttrOperation.String("remove"))

	data := collect(t, reader)
	sum, ok := data["cart_items_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)

	byOp := map[string]int64{}
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(telemetry.AttrOperation)
		byOp[op.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"add": 4, "remove": 1}, byOp)
}

func TestHistogram(t *testing.T) {
	provider, reader := newManualMeterProvider(t)
	ctx := context.Background()

	t.Run("custom boundaries", func(t *testing.T) {
		h, err := telemetry.NewHistogram(provider.Meter("test"), telemetry.HistogramOpts{
			Name:        "outbound_duration_seconds",
			Description: "Outbound call duration",
			Unit:        "s",
			Boundaries:  telemetry.OutboundDurationBuckets,
		})
		require.NoError(t, err)

		h.Record(ctx, 0.02, telemetry.AttrService.String("catalog"))
		h.RecordDuration(ctx, 2*time.Second, telemetry.AttrService.String("catalog"))

		data := collect(t, reader)
		hist, ok := data["outbound_duration_seconds"].(metricdata.Histogram[float64])
		require.True(t, ok)
		require.Len(t, hist.DataPoints, 1)
		dp := hist.DataPoints[0]
		assert.Equal(t, uint64(2), dp.Count)
		assert.InDelta(t, 2.02, dp.Sum, 1e-9)
		assert.Equal(t, telemetry.OutboundDurationBuckets, dp.Bounds)
	})

	t.Run("default boundaries", func(t *testing.T) {
		h, err := telemetry.NewHistogram(provider.Meter("test"), telemetry.HistogramOpts{
			Name: "plain_histogram",
			Unit: "s",
		})
		require.NoError(t, err)
		h.Record(ctx, 1)

		data := collect(t, reader)
		hist, ok := data["plain_histogram"].(metricdata.Histogram[float64])
		require.True(t, ok)
		assert.NotEmpty(t, hist.DataPoints[0].Bounds)
	})
}

func TestCommonAttributes(t *testing.T) {
	assert.Equal(t, "operation", string(telemetry.AttrOperation))
	assert.Equal(t, "outcome", string(telemetry.AttrOutcome))
	assert.Equal(t, "service", string(telemetry.AttrService))
	assert.Equal(t, "storage", string(telemetry.AttrStorage))
	assert.Equal(t, "http_method", string(telemetry.AttrHTTPMethod))
	assert.Equal(t, "http_route", string(telemetry.AttrHTTPRoute))
	assert.Equal(t, "http_status_code", string(telemetry.AttrHTTPStatusCode))
}

func TestDefaultBuckets(t *testing.T) {
	for _, buckets := range [][]float64{telemetry.HTTPDurationBuckets, telemetry.OutboundDurationBuckets} {
		require.NotEmpty(t, buckets)
		for i := 1; i < len(buckets); i++ {
			assert.Less(t, buckets[i-1], buckets[i])
		}
	}
}
