package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// StorefrontMetrics records cart and checkout activity.
// A nil *StorefrontMetrics is valid and records nothing.
type StorefrontMetrics struct {
	cartMutations     *Counter
	persistenceErrors *Counter
	addressLookups    *Counter
	ordersSubmitted   *Counter
	orderAmountCents  *Counter
	outboundDuration  *Histogram
}

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewStorefrontMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewStorefrontMetrics creates the storefront instruments on meter.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	sm := &StorefrontMetrics{}
	var err error

	if sm.cartMutations, err = NewCounter(meter,
		"storefront_cart_mutations_total",
		"Total number of cart mutations",
		"{mutations}",
	); err != nil {
		return nil, err
	}

	if sm.persistenceErrors, err = NewCounter(meter,
		"storefront_cart_persistence_errors_total",
		"Cart storage reads or writes that failed and were recovered locally",
		"{errors}",
	); err != nil {
		return nil, err
	}

	if sm.addressLookups, err = NewCounter(meter,
		"storefront_address_lookups_total",
		"Postal code lookups by outcome",
		"{lookups}",
	); err != nil {
		return nil, err
	}

	if sm.ordersSubmitted, err = NewCounter(meter,
		"storefront_orders_submitted_total",
		"Order submissions by outcome",
		"{orders}",
	); err != nil {
		return nil, err
	}

	if sm.orderAmountCents, err = NewCounter(meter,
		"storefront_order_amount_total",
		"Total amount of submitted orders in cents",
		"{cents}",
	); err != nil {
		return nil, err
	}

	if sm.outboundDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_outbound_request_duration_seconds",
		Description: "Duration of calls to the catalog and order backend",
		Unit:        "s",
		Boundaries:  OutboundDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordCartMutation counts one cart operation (add, remove, increment...)
func (sm *StorefrontMetrics) RecordCartMutation(ctx context.Context, operation string) {
	if sm == nil {
		return
	}
	sm.cartMutations.Inc(ctx, AttrOperation.String(operation))
}

// RecordPersistenceError counts a swallowed storage failure
func (sm *StorefrontMetrics) RecordPersistenceError(ctx context.Context, operation string) {
	if sm == nil {
		return
	}
	sm.persistenceErrors.Inc(ctx, AttrOperation.String(operation))
}

// RecordAddressLookup counts a lookup by outcome
func (sm *StorefrontMetrics) RecordAddressLookup(ctx context.Context, outcome string) {
	if sm == nil {
		return
	}
	sm.addressLookups.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordOrderSubmitted counts a submission and, on success, its amount
func (sm *StorefrontMetrics) RecordOrderSubmitted(ctx context.Context, outcome string, amount decimal.Decimal) {
	if sm == nil {
		return
	}
	sm.ordersSubmitted.Inc(ctx, AttrOutcome.String(outcome))
	if outcome == OutcomeSuccess {
		sm.orderAmountCents.Add(ctx, amount.Shift(2).Round(0).IntPart())
	}
}

// RecordOutbound records the duration of a call to an external service
func (sm *StorefrontMetrics) RecordOutbound(ctx context.Context, service, operation string, d time.Duration) {
	if sm == nil {
		return
	}
	sm.outboundDuration.RecordDuration(ctx, d,
		AttrService.String(service),
		AttrOperation.String(operation),
	)
}
