package products

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_service/internal/apperr"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	catalog := map[string]*Product{
		"beer-1": {ID: "beer-1", Name: "Pilsen", Price: 100.00, Quantity: 500, Status: StatusActive},
		"beer-2": {ID: "beer-2", Name: "IPA", Price: 40.00, Quantity: 500, Status: StatusActive},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/products/"):]
		product, ok := catalog[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(product)
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		all := []*Product{catalog["beer-1"], catalog["beer-2"]}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(all)
	})
	return httptest.NewServer(mux)
}

func TestRestClient_GetByID(t *testing.T) {
	server := newCatalogServer(t)
	defer server.Close()

	client := NewRestClient(server.URL)
	defer client.Close()

	product, err := client.GetByID(context.Background(), "beer-1")
	require.NoError(t, err)
	assert.Equal(t, "Pilsen", product.Name)
	assert.Equal(t, 100.00, product.Price)

	_, err = client.GetByID(context.Background(), "unknown")
	assert.True(t, apperr.IsNotFound(err))
}

func TestRestClient_GetManyByID_SkipsUnknown(t *testing.T) {
	server := newCatalogServer(t)
	defer server.Close()

	client := NewRestClient(server.URL)
	defer client.Close()

	found, err := client.GetManyByID(context.Background(), []string{"beer-1", "unknown", "beer-2"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "beer-1", found[0].ID)
	assert.Equal(t, "beer-2", found[1].ID)
}

func TestRestClient_GetAll(t *testing.T) {
	server := newCatalogServer(t)
	defer server.Close()

	client := NewRestClient(server.URL)
	defer client.Close()

	all, err := client.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLocalStorage(t *testing.T) {
	storage := NewLocalStorage()
	require.NoError(t, storage.Set(&Product{ID: "p-1", Name: "B", Price: 10}))
	require.NoError(t, storage.Set(&Product{ID: "p-2", Name: "A", Price: 20}))

	product, err := storage.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "B", product.Name)

	_, err = storage.GetByID(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))

	many, err := storage.GetManyByID(context.Background(), []string{"p-2", "missing"})
	require.NoError(t, err)
	assert.Len(t, many, 1)

	all, err := storage.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name, "catalog listing is ordered by name")

	err = storage.Set(&Product{Name: "no id"})
	assert.True(t, apperr.IsValidation(err))
}

func TestLocalStorage_ReadsAreCopies(t *testing.T) {
	storage := NewLocalStorage()
	require.NoError(t, storage.Set(&Product{ID: "p-1", Name: "Pilsen", Price: 10}))

	product, err := storage.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	product.Price = 999

	reread, err := storage.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, reread.Price, "mutating a returned product must not touch the catalog")

	many, err := storage.GetManyByID(context.Background(), []string{"p-1"})
	require.NoError(t, err)
	many[0].Name = "changed"

	all, err := storage.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Pilsen", all[0].Name)
}

func TestSeed(t *testing.T) {
	storage := NewLocalStorage()
	Seed(storage)

	all, err := storage.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, all)
	for _, p := range all {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, StatusActive, p.Status)
		assert.Greater(t, p.Price, 0.0)
	}
}
