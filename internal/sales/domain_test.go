package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_service/internal/apperr"
)

func TestNewProductSale_ComputesDiscountAndTotal(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		price    float64
		discount float64
		total    float64
	}{
		{"twenty percent tier", 10, 100.00, 20, 800.00},
		{"ten percent tier", 5, 40.00, 10, 180.00},
		{"no discount", 2, 15.00, 0, 30.00},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ps, err := NewProductSale("product-1", tc.quantity, tc.price)
			require.NoError(t, err)
			assert.Equal(t, tc.discount, ps.Discount)
			assert.Equal(t, tc.total, ps.TotalAmount)
			assert.Equal(t, ProductSaleActive, ps.Status)
		})
	}
}

func TestNewProductSale_Validation(t *testing.T) {
	_, err := NewProductSale("", 1, 10)
	assert.True(t, apperr.IsValidation(err), "empty product ID should fail validation")

	_, err = NewProductSale("product-1", 0, 10)
	assert.True(t, apperr.IsValidation(err), "zero quantity should fail validation")

	_, err = NewProductSale("product-1", -3, 10)
	assert.True(t, apperr.IsValidation(err), "negative quantity should fail validation")
}

func TestProductSale_RecalculateIsIdempotent(t *testing.T) {
	ps, err := NewProductSale("product-1", 10, 100.00)
	require.NoError(t, err)

	first := ps.TotalAmount
	ps.Recalculate()
	ps.Recalculate()
	assert.Equal(t, first, ps.TotalAmount)
	assert.Equal(t, 20.0, ps.Discount)
}

func TestProductSale_ChangeQuantity(t *testing.T) {
	ps, err := NewProductSale("product-1", 2, 15.00)
	require.NoError(t, err)
	assert.Equal(t, 30.00, ps.TotalAmount)
	assert.Nil(t, ps.UpdatedAt)

	require.NoError(t, ps.ChangeQuantity(10))
	assert.Equal(t, 20.0, ps.Discount)
	assert.Equal(t, 120.00, ps.TotalAmount)
	assert.NotNil(t, ps.UpdatedAt)

	err = ps.ChangeQuantity(0)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 10, ps.Quantity, "failed change must leave quantity untouched")
}

func TestProductSale_Cancel(t *testing.T) {
	ps, err := NewProductSale("product-1", 4, 10.00)
	require.NoError(t, err)

	require.NoError(t, ps.Cancel())
	assert.Equal(t, ProductSaleCancelled, ps.Status)

	err = ps.Cancel()
	assert.True(t, apperr.IsInvalidState(err), "double cancel should fail")

	err = ps.ChangeQuantity(5)
	assert.True(t, apperr.IsInvalidState(err), "quantity change on cancelled item should fail")

	total := ps.TotalAmount
	ps.Recalculate()
	assert.Equal(t, total, ps.TotalAmount, "recalculate on cancelled item is a no-op")
}

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	first, err := NewProductSale("product-1", 10, 100.00)
	require.NoError(t, err)
	second, err := NewProductSale("product-2", 2, 15.00)
	require.NoError(t, err)

	sale := &Sale{
		ID:       "sale-1",
		UserID:   "user-1",
		Status:   StatusActive,
		Products: []*ProductSale{first, second},
	}
	sale.RecalculateTotal()
	return sale
}

func TestSale_TotalSumsActiveProductsOnly(t *testing.T) {
	sale := newTestSale(t)
	assert.Equal(t, 830.00, sale.TotalAmount)

	require.NoError(t, sale.Products[1].Cancel())
	sale.RecalculateTotal()
	assert.Equal(t, 800.00, sale.TotalAmount)
	assert.Equal(t, 800.00, sale.Products[0].TotalAmount, "other line items stay untouched")

	require.NoError(t, sale.Products[0].Cancel())
	sale.RecalculateTotal()
	assert.Equal(t, 0.00, sale.TotalAmount)
}

func TestSale_AdvanceWalksTheFullPath(t *testing.T) {
	sale := newTestSale(t)

	for _, want := range []SaleStatus{StatusPayed, StatusDelivery, StatusFinished} {
		require.NoError(t, sale.Advance())
		assert.Equal(t, want, sale.Status)
	}

	err := sale.Advance()
	assert.True(t, apperr.IsInvalidState(err), "advance from finished should fail")
}

func TestSale_AdvanceRequiresActiveProducts(t *testing.T) {
	sale := newTestSale(t)
	for _, ps := range sale.Products {
		require.NoError(t, ps.Cancel())
	}
	sale.RecalculateTotal()

	err := sale.Advance()
	assert.True(t, apperr.IsInvalidState(err))
	assert.Equal(t, StatusActive, sale.Status)
}

func TestSale_CancelFromEachState(t *testing.T) {
	for _, from := range []SaleStatus{StatusActive, StatusPayed, StatusDelivery} {
		sale := newTestSale(t)
		sale.Status = from
		require.NoError(t, sale.Cancel(), "cancel from %s should succeed", from)
		assert.Equal(t, StatusCancelled, sale.Status)
	}

	for _, from := range []SaleStatus{StatusFinished, StatusCancelled} {
		sale := newTestSale(t)
		sale.Status = from
		err := sale.Cancel()
		assert.True(t, apperr.IsInvalidState(err), "cancel from %s should fail", from)
	}
}

func TestSale_AdvanceFromCancelledFails(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.Cancel())

	err := sale.Advance()
	assert.True(t, apperr.IsInvalidState(err))
}
