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

func NewProductRepository(db *sqlx.DB) model.ProductRepository {
	return &productRepository{db: db}
}

type productRepository struct {
	db *sqlx.DB
}

type productRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	PriceCents int64     `db:"price_cents"`
	Quantity   int       `db:"quantity"`
	Version    int       `db:"version"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r productRow) toModel() (*model.Product, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse product id")
	}
	return &model.Product{
		ID:         id,
		Name:       r.Name,
		PriceCents: r.PriceCents,
		Quantity:   r.Quantity,
		Version:    r.Version,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

const productColumns = `id, name, price_cents, quantity, version, created_at, updated_at`

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `
		INSERT INTO products (id, name, price_cents, quantity, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		product.ID.String(), product.Name, product.PriceCents, product.Quantity,
		product.Version, product.CreatedAt, product.UpdatedAt)
	return errors.Wrap(err, "insert product")
}

func (r *productRepository) Find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id.String())
}

func (r *productRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = ?`, name)
}

func (r *productRepository) FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id.String())
	}

	query, inArgs, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, args)
	if err != nil {
		return nil, errors.Wrap(err, "build product lookup query")
	}

	var rows []productRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, inArgs...); err != nil {
		return nil, errors.Wrap(err, "select products")
	}

	products := make([]*model.Product, 0, len(rows))
	for _, row := range rows {
		product, err := row.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// DecrementStock applies one conditional UPDATE per item: the row is only
// touched while its quantity still covers the request, so the sufficiency
// guard and the subtraction happen as a single indivisible statement. Run it
// inside WithinTransaction so a failed item rolls back the ones before it.
func (r *productRepository) DecrementStock(ctx context.Context, items []model.OrderItem) ([]*model.Product, error) {
	ex := executor(ctx, r.db)
	now := time.Now().UTC()

	const query = `
		UPDATE products
		SET quantity = quantity - ?, version = version + 1, updated_at = ?
		WHERE id = ? AND quantity >= ?`
	for _, item := range items {
		res, err := ex.ExecContext(ctx, query, item.Quantity, now, item.ProductID.String(), item.Quantity)
		if err != nil {
			return nil, errors.Wrap(err, "decrement product stock")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, errors.Wrap(err, "decrement product stock")
		}
		if affected == 0 {
			return nil, errors.Wrapf(model.ErrInsufficientStock, "product %s", item.ProductID)
		}
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return r.FindAllByIDs(ctx, ids)
}

func (r *productRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	return row.toModel()
}
