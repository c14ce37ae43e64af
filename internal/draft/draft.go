// Package draft owns the sale-in-progress: the aggregate a counter screen
// edits before it is persisted. A draft is created empty (create flow) or
// hydrated from an existing unfinished sale (edit flow); every mutation goes
// through the cart builder and is immediately followed by a total
// recomputation, so a stale total is never observable.
package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/jcmexdev/pos-counter/internal/cart"
	"github.com/jcmexdev/pos-counter/internal/domain"
)

// SaleWriter is the slice of the backend a draft needs to persist itself.
type SaleWriter interface {
	CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
	UpdateSale(ctx context.Context, id string, sale domain.Sale) (domain.Sale, error)
}

// Draft is the order being edited. Not safe for concurrent use; the Store
// serializes access.
type Draft struct {
	SaleID      string // original sale id when editing, empty when creating
	TableNumber string
	Items       []domain.LineItem
	Total       float64
	Editing     bool
	CreatedAt   time.Time

	catalog cart.PriceFunc
}

// New returns an empty draft in the creating state.
func New(catalog cart.PriceFunc) *Draft {
	return &Draft{
		catalog:   catalog,
		CreatedAt: time.Now(),
	}
}

// Hydrate builds an editing draft from a persisted sale. Line items that come
// back without a quantity are normalized to 1; persisted data has been seen
// with the field missing, and a zero quantity would violate the cart floor.
// The stored total is discarded and recomputed from the items.
func Hydrate(sale domain.Sale, catalog cart.PriceFunc) *Draft {
	items := make([]domain.LineItem, len(sale.Items))
	copy(items, sale.Items)
	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
	}

	d := &Draft{
		SaleID:      sale.ID,
		TableNumber: sale.TableNumber,
		Items:       items,
		Editing:     true,
		CreatedAt:   time.Now(),
		catalog:     catalog,
	}
	d.recompute()
	return d
}

// AddProduct puts the product in the cart, incrementing quantity on repeat.
func (d *Draft) AddProduct(p domain.Product) {
	d.Items = cart.Add(d.Items, p)
	d.recompute()
}

// SetQuantity replaces an item's quantity. Invalid quantities (< 1) leave the
// draft unchanged, silently, matching the quantity input's behavior.
func (d *Draft) SetQuantity(productID string, quantity int) {
	d.Items = cart.SetQuantity(d.Items, productID, quantity)
	d.recompute()
}

// Increment raises an item's quantity by one.
func (d *Draft) Increment(productID string) {
	d.Items = cart.Increment(d.Items, productID)
	d.recompute()
}

// Decrement lowers an item's quantity by one, flooring at one.
func (d *Draft) Decrement(productID string) {
	d.Items = cart.Decrement(d.Items, productID)
	d.recompute()
}

// RemoveProduct drops an item entirely. Only the edit-existing flow offers
// removal; the create flow floors quantities at one instead.
func (d *Draft) RemoveProduct(productID string) error {
	if !d.Editing {
		return domain.ErrRemoveNotAllowed
	}
	d.Items = cart.Remove(d.Items, productID)
	d.recompute()
	return nil
}

// Validate checks the draft is submittable. Both rules are enforced here,
// before any network call: the backend accepts empty carts and blank tables,
// and relying on it would persist unusable sales.
func (d *Draft) Validate() error {
	if d.TableNumber == "" {
		return domain.ErrTableNumberRequired
	}
	if len(d.Items) == 0 {
		return domain.ErrEmptyCart
	}
	return nil
}

// Submit persists the draft: an update keyed by the original sale id when
// editing, a create otherwise. On failure the draft is left intact so nothing
// the user typed is lost.
func (d *Draft) Submit(ctx context.Context, svc SaleWriter) (domain.Sale, error) {
	if err := d.Validate(); err != nil {
		return domain.Sale{}, err
	}

	sale := domain.Sale{
		ID:          d.SaleID,
		TableNumber: d.TableNumber,
		Items:       d.Items,
		Total:       d.Total,
		Date:        time.Now(),
	}

	if d.Editing {
		updated, err := svc.UpdateSale(ctx, d.SaleID, sale)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("update sale %s: %w", d.SaleID, err)
		}
		return updated, nil
	}

	created, err := svc.CreateSale(ctx, sale)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("create sale: %w", err)
	}
	return created, nil
}

func (d *Draft) recompute() {
	d.Total = cart.Total(d.Items, cart.SnapshotFirst(d.Items, d.catalog))
}
