// Package order manages orders already placed with the order backend.
package order

import (
	"context"
	"errors"
	"sort"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/logger"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrOrderNotPending is returned when confirming an order that left the pending status
var ErrOrderNotPending = shared.NewInvalidStateError("ORDER_NOT_PENDING", "only pending orders can be confirmed")

// Service handles order listing and management
type Service struct {
	gateway checkout.OrderGateway
	logger  *zap.Logger
}

// NewService creates a new Service
func NewService(gateway checkout.OrderGateway, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{gateway: gateway, logger: l}
}

// List returns all orders, newest first. Orders without a creation date go last.
func (s *Service) List(ctx context.Context) ([]checkout.OrderRecord, error) {
	orders, err := s.gateway.ListOrders(ctx)
	if err != nil {
		return nil, mapGatewayError(err, "failed to load orders")
	}
	if orders == nil {
		orders = []checkout.OrderRecord{}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i].CreatedAt, orders[j].CreatedAt
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b.Time)
	})
	return orders, nil
}

// Get returns a single order
func (s *Service) Get(ctx context.Context, id valueobject.ExternalID) (*checkout.OrderRecord, error) {
	order, err := s.gateway.GetOrder(ctx, id)
	if err != nil {
		return nil, mapGatewayError(err, "failed to load order")
	}
	return order, nil
}

// Confirm moves a pending order to confirmed, resending its customer fields
func (s *Service) Confirm(ctx context.Context, id valueobject.ExternalID) (*checkout.OrderRecord, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "confirm",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, id.String()),
	)
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderStatus, string(current.Status))
	if !current.Status.CanConfirm() {
		return nil, ErrOrderNotPending
	}

	updated, err := s.gateway.UpdateOrder(ctx, id, checkout.OrderPatch{
		CustomerName:  current.CustomerName,
		CustomerEmail: current.CustomerEmail,
		CustomerPhone: current.CustomerPhone,
		Status:        checkout.OrderStatusConfirmed,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, mapGatewayError(err, "failed to confirm order")
	}

	telemetry.SetOK(span)
	logger.WithLogger(ctx, s.logger).Info("order confirmed", zap.String("order_id", id.String()))
	return updated, nil
}

// Delete removes an order
func (s *Service) Delete(ctx context.Context, id valueobject.ExternalID) error {
	if err := s.gateway.DeleteOrder(ctx, id); err != nil {
		return mapGatewayError(err, "failed to delete order")
	}
	logger.WithLogger(ctx, s.logger).Info("order deleted", zap.String("order_id", id.String()))
	return nil
}

func mapGatewayError(err error, fallback string) error {
	if errors.Is(err, checkout.ErrOrderNotFound) {
		return shared.NewNotFoundError("order not found").WithCause(err)
	}
	message := checkout.BackendMessage(err)
	if message == "" {
		message = fallback
	}
	return shared.NewSubmissionError(message, err)
}
