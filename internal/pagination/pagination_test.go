package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_service/internal/apperr"
)

func source(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginate_Windows(t *testing.T) {
	items := source(25)

	first, err := Paginate(items, 1, 10)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Items[0])
	assert.Equal(t, 10, first.Items[9])
	assert.Equal(t, 25, first.TotalCount)
	assert.Equal(t, 3, first.TotalPages)

	last, err := Paginate(items, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.Equal(t, 21, last.Items[0])

	beyond, err := Paginate(items, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 25, beyond.TotalCount)
	assert.Equal(t, 3, beyond.TotalPages)
}

func TestPaginate_ExactFit(t *testing.T) {
	page, err := Paginate(source(20), 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPaginate_HugePageNumber(t *testing.T) {
	for _, pageNumber := range []int{1844674407370955162, math.MaxInt} {
		page, err := Paginate(source(3), pageNumber, 10)
		require.NoError(t, err, "page %d past the end must not fail", pageNumber)
		assert.Empty(t, page.Items)
		assert.Equal(t, 3, page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, pageNumber, page.PageNumber)
	}
}

func TestPaginate_EmptySource(t *testing.T) {
	page, err := Paginate([]int{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPaginate_Validation(t *testing.T) {
	_, err := Paginate(source(5), 0, 10)
	assert.True(t, apperr.IsValidation(err))

	_, err = Paginate(source(5), 1, 0)
	assert.True(t, apperr.IsValidation(err))

	_, err = Paginate(source(5), -1, -1)
	assert.True(t, apperr.IsValidation(err))
}

func TestPaginate_WindowIsACopy(t *testing.T) {
	items := source(5)
	page, err := Paginate(items, 1, 3)
	require.NoError(t, err)

	page.Items[0] = 99
	assert.Equal(t, 1, items[0], "mutating the window must not touch the source")
}
