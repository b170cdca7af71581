package sales

import (
	"time"

	"sales_service/internal/apperr"
)

// SaleStatus is the sale-level workflow state. It is distinct from the
// per-line-item status: a cancelled item does not cancel the order.
type SaleStatus string

const (
	StatusActive    SaleStatus = "active"
	StatusPayed     SaleStatus = "payed"
	StatusDelivery  SaleStatus = "delivery"
	StatusFinished  SaleStatus = "finished"
	StatusCancelled SaleStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s SaleStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// valid reports whether s is one of the known workflow states.
func (s SaleStatus) valid() bool {
	switch s {
	case StatusActive, StatusPayed, StatusDelivery, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// next returns the following step on the active->payed->delivery->finished
// path, or "" when s is not on it.
func (s SaleStatus) next() SaleStatus {
	switch s {
	case StatusActive:
		return StatusPayed
	case StatusPayed:
		return StatusDelivery
	case StatusDelivery:
		return StatusFinished
	}
	return ""
}

// ProductSaleStatus is the line-item state.
type ProductSaleStatus string

const (
	ProductSaleActive    ProductSaleStatus = "active"
	ProductSaleCancelled ProductSaleStatus = "cancelled"
)

// ProductSale is one line item of a sale: a product reference with the
// unit price snapshotted at creation time and a derived discount/total.
// It is owned exclusively by its Sale; at most one line item exists per
// product per sale.
type ProductSale struct {
	ProductID   string            `json:"product_id"`
	Quantity    int               `json:"quantity"`
	UnitPrice   float64           `json:"unit_price"`
	Discount    float64           `json:"discount"`
	TotalAmount float64           `json:"total_amount"`
	Status      ProductSaleStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

// NewProductSale creates a line item with the given price snapshot and
// computes its discount and total.
func NewProductSale(productID string, quantity int, unitPrice float64) (*ProductSale, error) {
	if productID == "" {
		return nil, apperr.Validation("product ID must be informed")
	}
	if quantity < 1 {
		return nil, apperr.Validation("product quantity must be at least 1, got %d", quantity)
	}

	ps := &ProductSale{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Status:    ProductSaleActive,
		CreatedAt: time.Now().UTC(),
	}
	ps.Recalculate()

	if ps.TotalAmount < 0 {
		return nil, apperr.Validation("total amount must be zero or greater")
	}
	return ps, nil
}

// Recalculate applies the discount schedule to the current quantity and
// derives the total. Idempotent; a no-op on cancelled line items so their
// snapshot stays stable for audit.
func (ps *ProductSale) Recalculate() {
	if ps.Status == ProductSaleCancelled {
		return
	}
	ps.Discount = DiscountFor(ps.Quantity)
	ps.TotalAmount = float64(ps.Quantity) * ps.UnitPrice * (1 - ps.Discount/100)
}

// ChangeQuantity updates the quantity and re-derives discount and total.
func (ps *ProductSale) ChangeQuantity(quantity int) error {
	if quantity < 1 {
		return apperr.Validation("product quantity must be at least 1, got %d", quantity)
	}
	if ps.Status == ProductSaleCancelled {
		return apperr.InvalidState("product sale '%s' is cancelled", ps.ProductID)
	}
	ps.Quantity = quantity
	ps.touch()
	ps.Recalculate()
	return nil
}

// Cancel removes the line item from the aggregate total. The item stays
// in the collection for history.
func (ps *ProductSale) Cancel() error {
	if ps.Status == ProductSaleCancelled {
		return apperr.InvalidState("product sale '%s' is already cancelled", ps.ProductID)
	}
	ps.Status = ProductSaleCancelled
	ps.touch()
	return nil
}

// reactivate brings a cancelled line item back with a fresh quantity.
// Used when a patch targets a product whose line item was removed; the
// composite key allows only one line item per product.
func (ps *ProductSale) reactivate(quantity int) error {
	if quantity < 1 {
		return apperr.Validation("product quantity must be at least 1, got %d", quantity)
	}
	ps.Status = ProductSaleActive
	ps.Quantity = quantity
	ps.touch()
	ps.Recalculate()
	return nil
}

func (ps *ProductSale) touch() {
	now := time.Now().UTC()
	ps.UpdatedAt = &now
}

// Sale is the aggregate root: an ordered set of line items, a derived
// total, and the status workflow.
type Sale struct {
	ID             string         `json:"id"`
	SequenceNumber int64          `json:"sequence_number"`
	UserID         string         `json:"user_id"`
	Status         SaleStatus     `json:"status"`
	TotalAmount    float64        `json:"total_amount"`
	Products       []*ProductSale `json:"products"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}

// FindProduct returns the line item for productID, or nil.
func (s *Sale) FindProduct(productID string) *ProductSale {
	for _, ps := range s.Products {
		if ps.ProductID == productID {
			return ps
		}
	}
	return nil
}

// HasActiveProducts reports whether at least one line item is active.
func (s *Sale) HasActiveProducts() bool {
	for _, ps := range s.Products {
		if ps.Status == ProductSaleActive {
			return true
		}
	}
	return false
}

// RecalculateTotal derives the aggregate total as the sum of active line
// item totals. The total is never trusted after a line-item mutation; it
// is always recomputed here.
func (s *Sale) RecalculateTotal() {
	var total float64
	for _, ps := range s.Products {
		if ps.Status == ProductSaleActive {
			total += ps.TotalAmount
		}
	}
	s.TotalAmount = total
}

// Advance moves the sale exactly one step along
// active->payed->delivery->finished.
func (s *Sale) Advance() error {
	if s.Status.Terminal() {
		return apperr.InvalidState("sale '%s' is %s and cannot advance", s.ID, s.Status)
	}
	if s.Status == StatusActive && !s.HasActiveProducts() {
		return apperr.InvalidState("sale '%s' has no active products and cannot advance", s.ID)
	}
	s.Status = s.Status.next()
	s.touch()
	return nil
}

// Cancel moves the sale to the cancelled terminal state. Legal from any
// non-terminal state.
func (s *Sale) Cancel() error {
	if s.Status.Terminal() {
		return apperr.InvalidState("sale '%s' is %s and cannot be cancelled", s.ID, s.Status)
	}
	s.Status = StatusCancelled
	s.touch()
	return nil
}

func (s *Sale) touch() {
	now := time.Now().UTC()
	s.UpdatedAt = &now
}
