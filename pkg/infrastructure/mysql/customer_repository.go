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

func NewCustomerRepository(db *sqlx.DB) model.CustomerRepository {
	return &customerRepository{db: db}
}

type customerRepository struct {
	db *sqlx.DB
}

type customerRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r customerRow) toModel() (*model.Customer, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse customer id")
	}
	return &model.Customer{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (r *customerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	const query = `
		INSERT INTO customers (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		customer.ID.String(), customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt)
	return errors.Wrap(err, "insert customer")
}

func (r *customerRepository) Find(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	const query = `SELECT id, name, email, created_at, updated_at FROM customers WHERE id = ?`
	return r.findOne(ctx, query, id.String())
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	const query = `SELECT id, name, email, created_at, updated_at FROM customers WHERE email = ?`
	return r.findOne(ctx, query, email)
}

func (r *customerRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Customer, error) {
	var row customerRow
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer")
	}
	return row.toModel()
}
