package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bborisdd/AutoStyle-backend/internal/domain"
	pkgkafka "github.com/bborisdd/AutoStyle-backend/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicUserRegistered     = "autostyle.user.registered"
	TopicUserUpdated        = "autostyle.user.updated"
	TopicOrderCreated       = "autostyle.order.created"
	TopicOrderStatusChanged = "autostyle.order.status_changed"
)

// Aggregate type constants.
const (
	AggregateTypeUser  = "user"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this service.
const SourceAPI = "autostyle-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserUpdatedData is the payload for a user.updated event.
type UserUpdatedData struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Total     int64  `json:"total"`
	Status    string `json:"status"`
	ItemCount int    `json:"item_count"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, strconv.FormatInt(user.ID, 10), AggregateTypeUser, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	data := UserUpdatedData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
	}

	event, err := pkgkafka.NewEvent(TopicUserUpdated, strconv.FormatInt(user.ID, 10), AggregateTypeUser, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create user.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserUpdated, event); err != nil {
		return fmt.Errorf("publish user.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.updated event",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:        order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    order.Status,
		ItemCount: len(order.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, strconv.FormatInt(order.ID, 10), AggregateTypeOrder, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", order.UserID),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, oldStatus string) error {
	data := OrderStatusChangedData{
		ID:        order.ID,
		UserID:    order.UserID,
		OldStatus: oldStatus,
		NewStatus: order.Status,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, strconv.FormatInt(order.ID, 10), AggregateTypeOrder, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.Int64("order_id", order.ID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", order.Status),
	)

	return nil
}
