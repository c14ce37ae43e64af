package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/jcmexdev/pos-counter/internal/catalog"
	"github.com/jcmexdev/pos-counter/internal/domain"
)

var _ catalog.ProductSource = (*Client)(nil)

// DateRange is the optional filter the service accepts on list endpoints.
// The counter passes it through untouched; filtering semantics belong to the
// backend.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) query() string {
	if r.From.IsZero() && r.To.IsZero() {
		return ""
	}
	q := url.Values{}
	if !r.From.IsZero() {
		q.Set("startDate", r.From.Format("2006-01-02"))
	}
	if !r.To.IsZero() {
		q.Set("endDate", r.To.Format("2006-01-02"))
	}
	return "?" + q.Encode()
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.ListProductsRange(ctx, DateRange{})
}

// ListProductsRange fetches the catalog with the date filter passed through.
func (c *Client) ListProductsRange(ctx context.Context, r DateRange) ([]domain.Product, error) {
	var docs []productDoc
	if err := c.do(ctx, "GET", "/products"+r.query(), nil, &docs, "", ""); err != nil {
		return nil, err
	}
	return productsToDomain(docs), nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var doc productDoc
	if err := c.do(ctx, "GET", "/products/"+id, nil, &doc, "product", id); err != nil {
		return domain.Product{}, err
	}
	return doc.toDomain(), nil
}

// CreateProduct registers a new catalog entry.
func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var doc productDoc
	if err := c.do(ctx, "POST", "/products", productToDoc(p), &doc, "", ""); err != nil {
		return domain.Product{}, err
	}
	return doc.toDomain(), nil
}

// UpdateProduct replaces a catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	var doc productDoc
	if err := c.do(ctx, "PUT", "/products/"+id, productToDoc(p), &doc, "product", id); err != nil {
		return domain.Product{}, err
	}
	return doc.toDomain(), nil
}

// DeleteProduct removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/products/"+id, nil, nil, "product", id)
}
