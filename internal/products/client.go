package products

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	"sales_service/internal/apperr"
)

// RestClient implements Storage against a remote product service, for
// deployments where the catalog is owned by another team.
type RestClient struct {
	client *resty.Client
}

// NewRestClient builds a product client rooted at baseURL.
func NewRestClient(baseURL string) *RestClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)
	return &RestClient{client: client}
}

// Close releases the underlying HTTP client resources.
func (c *RestClient) Close() {
	c.client.Close()
}

// GetByID fetches a single product. A 404 from the remote service is
// mapped to the local NotFoundError type.
func (c *RestClient) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	res, err := c.client.R().
		SetContext(ctx).
		SetResult(&product).
		Get("/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("error making request to product API: %w", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, apperr.NotFound("product", id)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("product API returned unexpected status: %d", res.StatusCode())
	}
	return &product, nil
}

// GetManyByID fetches each product in turn, skipping unknown ids the same
// way the in-memory storage does.
func (c *RestClient) GetManyByID(ctx context.Context, ids []string) ([]*Product, error) {
	found := make([]*Product, 0, len(ids))
	for _, id := range ids {
		product, err := c.GetByID(ctx, id)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		found = append(found, product)
	}
	return found, nil
}

// GetAll fetches the full catalog.
func (c *RestClient) GetAll(ctx context.Context) ([]*Product, error) {
	var all []*Product
	res, err := c.client.R().
		SetContext(ctx).
		SetResult(&all).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("error making request to product API: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("product API returned unexpected status: %d", res.StatusCode())
	}
	return all, nil
}
