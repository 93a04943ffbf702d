package model

import "github.com/google/uuid"

type CustomerRegistered struct {
	CustomerID uuid.UUID
	Email      string
}

func (e CustomerRegistered) Type() string { return "CustomerRegistered" }

type ProductAdded struct {
	ProductID uuid.UUID
	Name      string
}

func (e ProductAdded) Type() string { return "ProductAdded" }

type OrderPlaced struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	TotalCents int64
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }

type ProductStockReserved struct {
	ProductID uuid.UUID
	Quantity  int
	Remaining int
}

func (e ProductStockReserved) Type() string { return "ProductStockReserved" }
