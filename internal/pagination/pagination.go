// Package pagination provides generic page windowing over ordered
// collections. A Page is a view, recomputed per query, never stored.
package pagination

import "sales_service/internal/apperr"

// Page is one window over an ordered collection, carrying the totals the
// caller needs to render navigation.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the window [(pageNumber-1)*pageSize, pageNumber*pageSize)
// of items, clamped to the available range. A page number past the end
// yields an empty window with correct totals; the caller decides whether
// that is an error condition.
func Paginate[T any](items []T, pageNumber, pageSize int) (*Page[T], error) {
	if pageNumber < 1 {
		return nil, apperr.Validation("page number must be at least 1, got %d", pageNumber)
	}
	if pageSize < 1 {
		return nil, apperr.Validation("page size must be at least 1, got %d", pageSize)
	}

	totalCount := len(items)
	totalPages := (totalCount + pageSize - 1) / pageSize

	// Compare against totalPages before deriving offsets: computing
	// (pageNumber-1)*pageSize for an arbitrary page number can overflow.
	if pageNumber > totalPages {
		return &Page[T]{
			Items:      []T{},
			PageNumber: pageNumber,
			PageSize:   pageSize,
			TotalCount: totalCount,
			TotalPages: totalPages,
		}, nil
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return &Page[T]{
		Items:      window,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}
