package service

import (
	"context"
	"errors"
	"time"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
)

var (
	ErrNegativePrice        = errors.New("product price cannot be negative")
	ErrInvalidStockQuantity = errors.New("stock quantity cannot be negative")
	ErrInvalidProductName   = errors.New("product name must not be empty")
)

type ProductService interface {
	AddProduct(ctx context.Context, name string, priceCents int64, quantity int) (*model.Product, error)
}

func NewProductService(repo model.ProductRepository, dispatcher EventDispatcher) ProductService {
	return &productService{repo: repo, dispatcher: dispatcher}
}

type productService struct {
	repo       model.ProductRepository
	dispatcher EventDispatcher
}

func (s *productService) AddProduct(ctx context.Context, name string, priceCents int64, quantity int) (*model.Product, error) {
	if name == "" {
		return nil, ErrInvalidProductName
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if quantity < 0 {
		return nil, ErrInvalidStockQuantity
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, model.ErrProductNameTaken
	} else if !errors.Is(err, model.ErrProductNotFound) {
		return nil, err
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:         productID,
		Name:       name,
		PriceCents: priceCents,
		Quantity:   quantity,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductAdded{ProductID: productID, Name: name})
	return product, nil
}
