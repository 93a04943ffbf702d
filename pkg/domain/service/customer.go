package service

import (
	"context"
	"errors"
	"time"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
)

var ErrInvalidCustomer = errors.New("customer name and email must not be empty")

type CustomerService interface {
	RegisterCustomer(ctx context.Context, name, email string) (*model.Customer, error)
}

func NewCustomerService(repo model.CustomerRepository, dispatcher EventDispatcher) CustomerService {
	return &customerService{repo: repo, dispatcher: dispatcher}
}

type customerService struct {
	repo       model.CustomerRepository
	dispatcher EventDispatcher
}

func (s *customerService) RegisterCustomer(ctx context.Context, name, email string) (*model.Customer, error) {
	if name == "" || email == "" {
		return nil, ErrInvalidCustomer
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrCustomerNotFound) {
		return nil, err
	}

	customerID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &model.Customer{
		ID:        customerID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.CustomerRegistered{CustomerID: customerID, Email: email})
	return customer, nil
}
