package sales

import (
	"context"
	"sort"
	"sync"

	"sales_service/internal/apperr"
)

// ListFilter narrows a sale listing. Zero values mean "no filter".
type ListFilter struct {
	UserID string
	Status SaleStatus
}

// Storage is the persistence boundary for sale aggregates. Implementations
// must be atomic with respect to a single aggregate and must allocate the
// sequence number on Create as a serialized, monotonically increasing
// value.
type Storage interface {
	Create(ctx context.Context, sale *Sale) (*Sale, error)
	GetByID(ctx context.Context, id string) (*Sale, error)
	Update(ctx context.Context, sale *Sale) (*Sale, error)
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
// Aggregates are copied on the way in and out so a failed mutation on a
// snapshot never leaks into the store.
type LocalStorage struct {
	mu      sync.Mutex
	m       map[string]*Sale
	nextSeq int64
}

// NewLocalStorage instantiates a new LocalStorage with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[string]*Sale{}}
}

// Create stores a new sale and assigns its sequence number.
func (l *LocalStorage) Create(_ context.Context, sale *Sale) (*Sale, error) {
	if sale.ID == "" {
		return nil, apperr.Validation("sale ID must not be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSeq++
	sale.SequenceNumber = l.nextSeq
	l.m[sale.ID] = cloneSale(sale)
	return cloneSale(sale), nil
}

// GetByID retrieves a sale snapshot by ID.
func (l *LocalStorage) GetByID(_ context.Context, id string) (*Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.m[id]
	if !ok {
		return nil, apperr.NotFound("sale", id)
	}
	return cloneSale(s), nil
}

// Update replaces a stored sale with the mutated snapshot.
func (l *LocalStorage) Update(_ context.Context, sale *Sale) (*Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[sale.ID]; !ok {
		return nil, apperr.NotFound("sale", sale.ID)
	}
	l.m[sale.ID] = cloneSale(sale)
	return cloneSale(sale), nil
}

// List retrieves all sales matching the filter, ordered by sequence
// number so pagination windows are stable.
func (l *LocalStorage) List(_ context.Context, filter ListFilter) ([]*Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	matched := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		matched = append(matched, cloneSale(s))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SequenceNumber < matched[j].SequenceNumber
	})
	return matched, nil
}

func cloneSale(s *Sale) *Sale {
	out := *s
	out.Products = make([]*ProductSale, len(s.Products))
	for i, ps := range s.Products {
		cp := *ps
		out.Products[i] = &cp
	}
	return &out
}
