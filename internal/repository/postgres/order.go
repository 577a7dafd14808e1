package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bborisdd/AutoStyle-backend/internal/domain"
	"github.com/bborisdd/AutoStyle-backend/internal/repository"
	"github.com/bborisdd/AutoStyle-backend/pkg/database"
	apperrors "github.com/bborisdd/AutoStyle-backend/pkg/errors"
)

// OrderRepository implements repository.OrderRepository backed by PostgreSQL.
// Order items are stored denormalized as a JSONB column.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	query := `
		INSERT INTO orders (user_id, items, total, status, delivery_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		order.UserID,
		items,
		order.Total,
		order.Status,
		order.DeliveryAddress,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, user_id, items, total, status, delivery_address, created_at, updated_at
		FROM orders
		WHERE id = $1`

	var (
		order domain.Order
		items []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&items,
		&order.Total,
		&order.Status,
		&order.DeliveryAddress,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("order", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling order items: %w", err)
	}

	return &order, nil
}

func (r *OrderRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, items, total, status, delivery_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			items []byte
		)
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&items,
			&order.Total,
			&order.Status,
			&order.DeliveryAddress,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshaling order items: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", fmt.Sprintf("%d", id))
	}

	return nil
}

func (r *OrderRepository) ListAll(ctx context.Context, filter repository.OrderFilter) ([]repository.OrderWithUser, error) {
	query := `
		SELECT o.id, o.user_id, o.items, o.total, o.status, o.delivery_address,
		       o.created_at, o.updated_at, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id`

	args := make([]any, 0, 3)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" WHERE o.status = $%d", len(args))
	}
	query += " ORDER BY o.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := make([]repository.OrderWithUser, 0)
	for rows.Next() {
		var (
			order repository.OrderWithUser
			items []byte
		)
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&items,
			&order.Total,
			&order.Status,
			&order.DeliveryAddress,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.UserName,
			&order.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshaling order items: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", fmt.Sprintf("%d", id))
	}

	return nil
}
