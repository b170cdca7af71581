package products

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sales_service/internal/apperr"
)

// LocalStorage provides an in-memory product catalog.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]*Product
}

// NewLocalStorage instantiates an empty in-memory catalog.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[string]*Product{}}
}

// Set stores a product, keyed by ID.
func (l *LocalStorage) Set(product *Product) error {
	if product.ID == "" {
		return apperr.Validation("product ID must not be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[product.ID] = product
	return nil
}

// GetByID retrieves one product. Returns a NotFoundError for unknown ids.
func (l *LocalStorage) GetByID(_ context.Context, id string) (*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.m[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	return cloneProduct(p), nil
}

// GetManyByID retrieves the products for the given ids. Unknown ids are
// simply absent from the result; the caller decides whether that is fatal.
func (l *LocalStorage) GetManyByID(_ context.Context, ids []string) ([]*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	found := make([]*Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := l.m[id]; ok {
			found = append(found, cloneProduct(p))
		}
	}
	return found, nil
}

// GetAll retrieves the whole catalog ordered by name, stable for paging.
func (l *LocalStorage) GetAll(_ context.Context) ([]*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]*Product, 0, len(l.m))
	for _, p := range l.m {
		all = append(all, cloneProduct(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// Reads hand out copies so a caller mutating a result cannot corrupt the
// shared catalog.
func cloneProduct(p *Product) *Product {
	cp := *p
	return &cp
}

// Seed loads a small beverage catalog so the service is usable without an
// external product service.
func Seed(storage *LocalStorage) {
	now := time.Now().UTC()
	for _, p := range []*Product{
		{Name: "Pilsen Lager 350ml", Description: "Six pack of pilsen lager cans", Price: 15.00, Quantity: 240},
		{Name: "IPA 473ml", Description: "American IPA single can", Price: 12.50, Quantity: 180},
		{Name: "Stout 500ml", Description: "Dry stout bottle", Price: 18.90, Quantity: 96},
		{Name: "Wheat Ale 355ml", Description: "Unfiltered wheat ale bottle", Price: 40.00, Quantity: 120},
		{Name: "Zero Lager 350ml", Description: "Alcohol-free lager can", Price: 100.00, Quantity: 300},
	} {
		p.ID = uuid.NewString()
		p.Status = StatusActive
		p.CreatedAt = now
		_ = storage.Set(p)
	}
}
