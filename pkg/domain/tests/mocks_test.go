package tests

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/service"
)

var _ model.CustomerRepository = &mockCustomerRepository{}

type mockCustomerRepository struct {
	store map[uuid.UUID]*model.Customer
}

func (m *mockCustomerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockCustomerRepository) Create(_ context.Context, customer *model.Customer) error {
	stored := *customer
	m.store[customer.ID] = &stored
	return nil
}

func (m *mockCustomerRepository) Find(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	if customer, ok := m.store[id]; ok {
		clone := *customer
		return &clone, nil
	}
	return nil, model.ErrCustomerNotFound
}

func (m *mockCustomerRepository) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, customer := range m.store {
		if customer.Email == email {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, model.ErrCustomerNotFound
}

var _ model.ProductRepository = &mockProductRepository{}

type mockProductRepository struct {
	mu    sync.Mutex
	store map[uuid.UUID]*model.Product
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockProductRepository) Create(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *product
	m.store[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Find(_ context.Context, id uuid.UUID) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.store[id]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) FindByName(_ context.Context, name string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, product := range m.store {
		if product.Name == name {
			clone := *product
			return &clone, nil
		}
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) FindAllByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []*model.Product
	for _, id := range ids {
		if product, ok := m.store[id]; ok {
			clone := *product
			products = append(products, &clone)
		}
	}
	return products, nil
}

func (m *mockProductRepository) DecrementStock(_ context.Context, items []model.OrderItem) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All guards are checked before any row changes, mirroring the
	// all-or-nothing contract of the storage implementation.
	for _, item := range items {
		product, ok := m.store[item.ProductID]
		if !ok || product.Quantity < item.Quantity {
			return nil, fmt.Errorf("%w: product %s", model.ErrInsufficientStock, item.ProductID)
		}
	}

	var updated []*model.Product
	for _, item := range items {
		product := m.store[item.ProductID]
		product.Quantity -= item.Quantity
		product.Version++
		clone := *product
		updated = append(updated, &clone)
	}
	return updated, nil
}

func (m *mockProductRepository) quantityOf(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[id].Quantity
}

func (m *mockProductRepository) snapshot() map[uuid.UUID]model.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uuid.UUID]model.Product, len(m.store))
	for id, product := range m.store {
		snap[id] = *product
	}
	return snap
}

func (m *mockProductRepository) restore(snap map[uuid.UUID]model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[uuid.UUID]*model.Product, len(snap))
	for id := range snap {
		product := snap[id]
		m.store[id] = &product
	}
}

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	mu         sync.Mutex
	store      map[uuid.UUID]*model.Order
	failCreate error
}

func (m *mockOrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockOrderRepository) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	for i := range order.Products {
		if order.Products[i].ID == uuid.Nil {
			itemID, err := uuid.NewRandom()
			if err != nil {
				return err
			}
			order.Products[i].ID = itemID
		}
	}
	stored := *order
	stored.Products = append([]model.OrderProduct(nil), order.Products...)
	m.store[order.ID] = &stored
	return nil
}

func (m *mockOrderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.store[id]; ok {
		clone := *order
		clone.Products = append([]model.OrderProduct(nil), order.Products...)
		return &clone, nil
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

var _ model.TransactionalClient = &mockTransactionalClient{}

// mockTransactionalClient serializes transactions and restores the product
// store on failure, imitating commit/rollback of a serializable transaction.
type mockTransactionalClient struct {
	mu       sync.Mutex
	products *mockProductRepository
}

func (m *mockTransactionalClient) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.products.snapshot()
	if err := fn(ctx); err != nil {
		m.products.restore(snap)
		return err
	}
	return nil
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Events() []service.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Event(nil), m.events...)
}

func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
