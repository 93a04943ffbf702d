package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
)

func NewOrderRepository(db *sqlx.DB) model.OrderRepository {
	return &orderRepository{db: db}
}

type orderRepository struct {
	db *sqlx.DB
}

type orderRow struct {
	ID         string    `db:"id"`
	CustomerID string    `db:"customer_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type orderProductRow struct {
	ID         string `db:"id"`
	ProductID  string `db:"product_id"`
	PriceCents int64  `db:"price_cents"`
	Quantity   int    `db:"quantity"`
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	ex := executor(ctx, r.db)

	const insertOrder = `
		INSERT INTO orders (id, customer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)`
	_, err := ex.ExecContext(ctx, insertOrder,
		order.ID.String(), order.CustomerID.String(), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	const insertItem = `
		INSERT INTO order_products (id, order_id, product_id, price_cents, quantity)
		VALUES (?, ?, ?, ?, ?)`
	for i := range order.Products {
		lineItem := &order.Products[i]
		if lineItem.ID == uuid.Nil {
			itemID, err := uuid.NewRandom()
			if err != nil {
				return errors.Wrap(err, "generate line item id")
			}
			lineItem.ID = itemID
		}

		_, err := ex.ExecContext(ctx, insertItem,
			lineItem.ID.String(), order.ID.String(), lineItem.ProductID.String(),
			lineItem.PriceCents, lineItem.Quantity)
		if err != nil {
			return errors.Wrap(err, "insert order line item")
		}
	}
	return nil
}

func (r *orderRepository) Find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	ex := executor(ctx, r.db)

	const selectOrder = `SELECT id, customer_id, created_at, updated_at FROM orders WHERE id = ?`
	var row orderRow
	err := sqlx.GetContext(ctx, ex, &row, selectOrder, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}

	orderID, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order id")
	}
	customerID, err := uuid.Parse(row.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order customer id")
	}

	const selectItems = `
		SELECT id, product_id, price_cents, quantity
		FROM order_products
		WHERE order_id = ?
		ORDER BY id`
	var itemRows []orderProductRow
	if err := sqlx.SelectContext(ctx, ex, &itemRows, selectItems, id.String()); err != nil {
		return nil, errors.Wrap(err, "select order line items")
	}

	order := &model.Order{
		ID:         orderID,
		CustomerID: customerID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	for _, itemRow := range itemRows {
		itemID, err := uuid.Parse(itemRow.ID)
		if err != nil {
			return nil, errors.Wrap(err, "parse line item id")
		}
		productID, err := uuid.Parse(itemRow.ProductID)
		if err != nil {
			return nil, errors.Wrap(err, "parse line item product id")
		}
		order.Products = append(order.Products, model.OrderProduct{
			ID:         itemID,
			ProductID:  productID,
			PriceCents: itemRow.PriceCents,
			Quantity:   itemRow.Quantity,
		})
	}
	return order, nil
}
