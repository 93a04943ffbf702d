package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
)

var (
	ErrEmptyOrder      = errors.New("cannot place an order without items")
	ErrInvalidQuantity = errors.New("item quantity must be a positive number")
	ErrDuplicateItem   = errors.New("order lists the same product more than once")
)

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, customerID uuid.UUID, items []model.OrderItem) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
}

func NewOrderService(
	customers model.CustomerRepository,
	products model.ProductRepository,
	orders model.OrderRepository,
	trans model.TransactionalClient,
	dispatcher EventDispatcher,
) OrderService {
	return &orderService{
		customers:  customers,
		products:   products,
		orders:     orders,
		trans:      trans,
		dispatcher: dispatcher,
	}
}

type orderService struct {
	customers  model.CustomerRepository
	products   model.ProductRepository
	orders     model.OrderRepository
	trans      model.TransactionalClient
	dispatcher EventDispatcher
}

// PlaceOrder validates the request against current stock, decrements the
// products' quantity-on-hand and persists the order with its line items.
// The decrement and the order insert commit as one transaction; the
// sufficiency guard is re-evaluated inside the conditional decrement, so two
// concurrent calls racing for the last units cannot both succeed.
func (s *orderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, items []model.OrderItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]uuid.UUID, 0, len(items))
	requested := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
		if _, ok := requested[item.ProductID]; ok {
			return nil, fmt.Errorf("%w: product %s", ErrDuplicateItem, item.ProductID)
		}
		requested[item.ProductID] = item.Quantity
		ids = append(ids, item.ProductID)
	}

	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}

	found, err := s.products.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	foundByID := make(map[uuid.UUID]*model.Product, len(found))
	for _, product := range found {
		foundByID[product.ID] = product
	}

	var missing []string
	for _, id := range ids {
		if _, ok := foundByID[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, strings.Join(missing, ", "))
	}

	for _, id := range ids {
		product := foundByID[id]
		if requested[id] > product.Quantity {
			return nil, fmt.Errorf("%w: product %q has %d left, %d requested",
				model.ErrInsufficientStock, product.Name, product.Quantity, requested[id])
		}
	}

	orderID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}

	var (
		order   *model.Order
		updated []*model.Product
	)
	err = s.trans.WithinTransaction(ctx, func(ctx context.Context) error {
		// The conditional decrement re-checks sufficiency against current
		// rows; the pre-check above may have read stale quantities.
		updated, err = s.products.DecrementStock(ctx, items)
		if err != nil {
			return err
		}

		updatedByID := make(map[uuid.UUID]*model.Product, len(updated))
		for _, product := range updated {
			updatedByID[product.ID] = product
		}

		now := time.Now().UTC()
		order = &model.Order{
			ID:         orderID,
			CustomerID: customer.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, item := range items {
			product := updatedByID[item.ProductID]
			order.Products = append(order.Products, model.OrderProduct{
				ProductID:  product.ID,
				PriceCents: product.PriceCents,
				Quantity:   item.Quantity,
			})
		}

		return s.orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	var total int64
	for _, lineItem := range order.Products {
		total += lineItem.PriceCents * int64(lineItem.Quantity)
	}
	_ = s.dispatcher.Dispatch(model.OrderPlaced{OrderID: order.ID, CustomerID: customer.ID, TotalCents: total})
	for _, product := range updated {
		_ = s.dispatcher.Dispatch(model.ProductStockReserved{
			ProductID: product.ID,
			Quantity:  requested[product.ID],
			Remaining: product.Quantity,
		})
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.orders.Find(ctx, orderID)
}
