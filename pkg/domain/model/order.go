package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderItem is the requested (product, quantity) pair of an incoming order.
type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderProduct is one line item of a placed order. PriceCents captures the
// product price at order time and is decoupled from later price changes.
type OrderProduct struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	PriceCents int64
	Quantity   int
}

type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Products   []OrderProduct
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	// Create persists the order and its line items as a single unit,
	// assigning an id to every line item that has none yet.
	Create(ctx context.Context, order *Order) error
	Find(ctx context.Context, id uuid.UUID) (*Order, error)
}
