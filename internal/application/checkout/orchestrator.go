// Package checkout coordinates the checkout flow: postal code resolution,
// the price summary and order submission.
package checkout

import (
	"context"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/logger"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const submissionFailedMessage = "failed to submit order, please try again"

// Orchestrator runs the checkout use cases against the address lookup and
// the order backend. On a successful submission it clears the submitted
// lines from the cart.
type Orchestrator struct {
	lookup       checkout.AddressLookup
	gateway      checkout.OrderGateway
	cart         checkout.CartClearer
	session      *checkout.Session
	withShipping bool
	logger       *zap.Logger
	metrics      *telemetry.StorefrontMetrics
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records lookups and submissions
func WithMetrics(m *telemetry.StorefrontMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithShippingQuote controls whether lookups ask for a shipping quote (default true)
func WithShippingQuote(enabled bool) Option {
	return func(o *Orchestrator) {
		o.withShipping = enabled
	}
}

// WithSession shares an existing session
func WithSession(s *checkout.Session) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.session = s
		}
	}
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	lookup checkout.AddressLookup,
	gateway checkout.OrderGateway,
	cartClearer checkout.CartClearer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		lookup:       lookup,
		gateway:      gateway,
		cart:         cartClearer,
		session:      checkout.NewSession(),
		withShipping: true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Session returns the submission session
func (o *Orchestrator) Session() *checkout.Session {
	return o.session
}

// ResolveAddress validates the postal code and asks the lookup for the
// address and shipping quote. An unknown postal code is a NotFound outcome,
// not an error. The quote of the latest lookup is kept for the summary.
func (o *Orchestrator) ResolveAddress(ctx context.Context, raw string) (*checkout.AddressResolution, error) {
	postalCode, err := valueobject.ParsePostalCode(raw)
	if err != nil {
		o.metrics.RecordAddressLookup(ctx, telemetry.OutcomeInvalid)
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "resolve_address",
		telemetry.WithAttribute(telemetry.SpanAttrPostalCode, postalCode.String()),
	)
	defer span.End()

	res, err := o.lookup.Resolve(ctx, postalCode, o.withShipping)
	if err != nil {
		telemetry.RecordError(span, err)
		o.metrics.RecordAddressLookup(ctx, telemetry.OutcomeFailed)
		logger.WithLogger(ctx, o.logger).Warn("address lookup failed",
			zap.String("postal_code", postalCode.String()),
			zap.Error(err),
		)
		return nil, shared.NewLookupError("could not look up the postal code, please try again", err)
	}
	if res == nil || !res.Found {
		res = checkout.NotFound()
	}

	if res.Found {
		telemetry.SetAttribute(span, telemetry.SpanAttrLookupResult, telemetry.OutcomeSuccess)
		o.metrics.RecordAddressLookup(ctx, telemetry.OutcomeSuccess)
		o.session.SetQuote(res.Shipping)
	} else {
		telemetry.SetAttribute(span, telemetry.SpanAttrLookupResult, telemetry.OutcomeNotFound)
		o.metrics.RecordAddressLookup(ctx, telemetry.OutcomeNotFound)
		o.session.SetQuote(nil)
	}
	telemetry.SetOK(span)
	return res, nil
}

// Summarize prices items with the shipping quote of the latest lookup
func (o *Orchestrator) Summarize(items []cart.LineItem) checkout.Summary {
	return checkout.Summarize(items, o.session.Quote())
}

// SubmitOrder validates the checkout data, sends the order to the backend and
// clears the submitted lines from the cart on success. An empty snapshot
// fails before any other check and never reaches the backend.
func (o *Orchestrator) SubmitOrder(
	ctx context.Context,
	customer checkout.CustomerInfo,
	address checkout.ShippingAddress,
	snapshot cart.Snapshot,
) (*checkout.OrderRecord, error) {
	order, err := checkout.NewOrder(customer, address, snapshot.Items)
	if err != nil {
		o.metrics.RecordOrderSubmitted(ctx, telemetry.OutcomeInvalid, decimal.Zero)
		return nil, err
	}

	summary := o.Summarize(order.Items)
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "submit_order",
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, summary.ItemCount),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, summary.Total.StringFixed(2)),
	)
	defer span.End()

	record, err := o.gateway.CreateOrder(ctx, *order)
	if err != nil {
		telemetry.RecordError(span, err)
		o.metrics.RecordOrderSubmitted(ctx, telemetry.OutcomeFailed, summary.Total.Amount())

		message := checkout.BackendMessage(err)
		if message == "" {
			message = submissionFailedMessage
		}
		logger.WithLogger(ctx, o.logger).Error("order submission failed",
			zap.Int("items", summary.ItemCount),
			zap.Error(err),
		)
		return nil, shared.NewSubmissionError(message, err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, record.ID.String(),
		telemetry.SpanAttrOrderNumber, record.OrderNumber,
	)
	telemetry.SetOK(span)
	o.metrics.RecordOrderSubmitted(ctx, telemetry.OutcomeSuccess, summary.Total.Amount())

	o.cart.ClearSubmitted(ctx, order.Items)
	telemetry.AddEvent(span, "cart_cleared", telemetry.SpanAttrItemCount, summary.ItemCount)
	o.session.SetQuote(nil)

	logger.WithLogger(ctx, o.logger).Info("order submitted",
		zap.String("order_id", record.ID.String()),
		zap.String("order_number", record.OrderNumber),
	)
	return record, nil
}
