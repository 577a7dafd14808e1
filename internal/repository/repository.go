package repository

import (
	"context"

	"github.com/bborisdd/AutoStyle-backend/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
// Email lookups are case-insensitive; callers lower-case before querying.
type UserRepository interface {
	// Create inserts a new user and sets the assigned ID on the value.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists the user's mutable profile fields (name, phone).
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id int64) error
}

// OrderFilter narrows the operator order listing.
type OrderFilter struct {
	Status *string
	Limit  int
	Offset int
}

// OrderWithUser is an order joined with its owner's name and email, used by
// the operator listing.
type OrderWithUser struct {
	domain.Order
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and sets the assigned ID on the value.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByUserID returns all orders owned by the given user, newest first.
	ListByUserID(ctx context.Context, userID int64) ([]domain.Order, error)

	// UpdateStatus persists a new status for the order and refreshes its
	// updated_at timestamp.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// ListAll returns orders across all users with owner details, newest
	// first, optionally filtered by status.
	ListAll(ctx context.Context, filter OrderFilter) ([]OrderWithUser, error)

	// Delete removes an order from the store by its identifier.
	Delete(ctx context.Context, id int64) error
}
