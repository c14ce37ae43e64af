package backend

import (
	"context"

	"github.com/jcmexdev/pos-counter/internal/checkout"
	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/draft"
)

var (
	_ draft.SaleWriter   = (*Client)(nil)
	_ checkout.Finalizer = (*Client)(nil)
)

// ListSales fetches every sale. The service exposes no finished filter;
// open-tab vs completed splitting happens client-side over the full list.
func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var docs []saleDoc
	if err := c.do(ctx, "GET", "/sales", nil, &docs, "", ""); err != nil {
		return nil, err
	}
	return salesToDomain(docs), nil
}

// GetSale fetches one sale by id.
func (c *Client) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	var doc saleDoc
	if err := c.do(ctx, "GET", "/sales/"+id, nil, &doc, "sale", id); err != nil {
		return domain.Sale{}, err
	}
	return doc.toDomain(), nil
}

// CreateSale persists a new sale (the create flow's submit).
func (c *Client) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	var doc saleDoc
	if err := c.do(ctx, "POST", "/sales", saleToDoc(sale), &doc, "", ""); err != nil {
		return domain.Sale{}, err
	}
	return doc.toDomain(), nil
}

// UpdateSale patches an existing sale (the edit flow's submit).
func (c *Client) UpdateSale(ctx context.Context, id string, sale domain.Sale) (domain.Sale, error) {
	var doc saleDoc
	if err := c.do(ctx, "PATCH", "/sales/"+id, saleToDoc(sale), &doc, "sale", id); err != nil {
		return domain.Sale{}, err
	}
	return doc.toDomain(), nil
}

// ReplaceSale fully replaces a sale document.
func (c *Client) ReplaceSale(ctx context.Context, id string, sale domain.Sale) (domain.Sale, error) {
	var doc saleDoc
	if err := c.do(ctx, "PUT", "/sales/"+id, saleToDoc(sale), &doc, "sale", id); err != nil {
		return domain.Sale{}, err
	}
	return doc.toDomain(), nil
}

// FinalizeSale attaches the payment method and flips finished=true. This is
// the irreversible transition; it exists as its own endpoint on the service.
func (c *Client) FinalizeSale(ctx context.Context, id string, method domain.PaymentMethod) (domain.Sale, error) {
	var doc saleDoc
	body := finalizeBody{PaymentMethod: string(method)}
	if err := c.do(ctx, "PATCH", "/sales/finalize/"+id, body, &doc, "sale", id); err != nil {
		return domain.Sale{}, err
	}
	return doc.toDomain(), nil
}

// CreateClient registers a customer.
func (c *Client) CreateClient(ctx context.Context, client domain.Client) error {
	doc := clientDoc{Name: client.Name, Phone: client.Phone, Address: client.Address}
	return c.do(ctx, "POST", "/clients", doc, nil, "", "")
}
