package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bborisdd/AutoStyle-backend/internal/auth"
	"github.com/bborisdd/AutoStyle-backend/internal/domain"
	"github.com/bborisdd/AutoStyle-backend/internal/event"
	"github.com/bborisdd/AutoStyle-backend/internal/repository"
	apperrors "github.com/bborisdd/AutoStyle-backend/pkg/errors"
)

// OrderService implements the business logic for order operations.
type OrderService struct {
	orderRepo repository.OrderRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		producer:  producer,
		logger:    logger,
	}
}

// CreateOrderInput holds the parameters for placing a new order.
type CreateOrderInput struct {
	Items           []domain.OrderItem
	Total           int64
	DeliveryAddress string
}

// CreateOrder places a new order for the given user. New orders always start
// in the pending status.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}
	if input.Total <= 0 {
		return nil, apperrors.InvalidInput("total must be greater than zero")
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           input.Items,
		Total:           input.Total,
		Status:          domain.OrderStatusPending,
		DeliveryAddress: input.DeliveryAddress,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Publish order created event (non-blocking on failure).
	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

// GetOrder retrieves an order, enforcing that the caller owns it. A missing
// order reports not found before ownership is considered, so a caller cannot
// distinguish another user's order from a nonexistent one by status code
// ordering.
func (s *OrderService) GetOrder(ctx context.Context, claims *auth.Claims, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := auth.AuthorizeOwner(claims, order.UserID); err != nil {
		s.logger.WarnContext(ctx, "order access denied",
			slog.Int64("order_id", orderID),
			slog.Int64("owner_id", order.UserID),
			slog.Int64("caller_id", claims.UserID),
		)
		return nil, err
	}

	return order, nil
}

// ListMyOrders returns all orders owned by the caller, newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListAllOrders returns orders across all users with owner details. This is
// the operator view and applies no ownership check.
func (s *OrderService) ListAllOrders(ctx context.Context, filter repository.OrderFilter) ([]repository.OrderWithUser, error) {
	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("status must be one of: %v", domain.ValidStatuses()))
	}

	orders, err := s.orderRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status. Any authenticated user may
// update any order's status; the transition itself is validated but ownership
// is not.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.ApplyStatus(status); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return nil, err
	}

	// Publish status change event (non-blocking on failure).
	if err := s.producer.PublishOrderStatusChanged(ctx, order, oldStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.Int64("order_id", order.ID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", order.Status),
	)

	return order, nil
}

// DeleteOrder removes an order, enforcing that the caller owns it. Like
// GetOrder, a missing order reports not found before ownership.
func (s *OrderService) DeleteOrder(ctx context.Context, claims *auth.Claims, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := auth.AuthorizeOwner(claims, order.UserID); err != nil {
		s.logger.WarnContext(ctx, "order delete denied",
			slog.Int64("order_id", orderID),
			slog.Int64("owner_id", order.UserID),
			slog.Int64("caller_id", claims.UserID),
		)
		return err
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order deleted",
		slog.Int64("order_id", orderID),
		slog.Int64("user_id", order.UserID),
	)

	return nil
}
