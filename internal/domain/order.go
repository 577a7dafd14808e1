package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/bborisdd/AutoStyle-backend/pkg/errors"
)

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a customer order. An order is owned exclusively by the
// user that created it; ownership never transfers.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	Items           []OrderItem `json:"items"`
	Total           int64       `json:"total"`
	Status          string      `json:"status"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem represents a line item in an order. Prices are integer minor units.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the total price for this line item.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidStatus checks if a status string is an exact member of the
// enumerated set. Comparison is case-sensitive and whitespace-sensitive.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ApplyStatus validates the requested status and applies it to the order,
// refreshing UpdatedAt. Any enumerated status is accepted from any current
// state; there is no transition graph.
func (o *Order) ApplyStatus(status string) error {
	if !IsValidStatus(status) {
		return apperrors.InvalidInput(fmt.Sprintf(
			"invalid status %q, must be one of: %s",
			status, strings.Join(ValidStatuses(), ", "),
		))
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}
