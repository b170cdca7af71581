// Package products holds the product catalog the sales domain snapshots
// prices from. Products are owned elsewhere; sales only read them.
package products

import (
	"context"
	"time"
)

// ProductStatus marks whether a product can still be sold.
type ProductStatus string

const (
	StatusActive ProductStatus = "active"
	StatusSold   ProductStatus = "sold"
)

// Product is a catalog entry. The sales domain treats it as read-only and
// snapshots Price at line-item creation time.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Quantity    int           `json:"quantity"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Storage is the product lookup boundary used to resolve and price line
// items. Implemented in-memory and over HTTP.
type Storage interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetManyByID(ctx context.Context, ids []string) ([]*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
}
