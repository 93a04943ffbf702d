package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNameTaken  = errors.New("product name is already taken")
	ErrInsufficientStock = errors.New("insufficient stock quantity")
)

type Product struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	Quantity   int
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, product *Product) error
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	// FindAllByIDs returns the subset of products matching the given ids.
	// Ids with no matching product are silently absent from the result.
	FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	// DecrementStock subtracts each item's quantity from its product's
	// quantity-on-hand as an atomic conditional update: a product is only
	// decremented while its quantity still covers the request. The whole
	// call fails with ErrInsufficientStock if any guard does not hold.
	// Returns the updated products with post-decrement quantities.
	DecrementStock(ctx context.Context, items []OrderItem) ([]*Product, error)
}
