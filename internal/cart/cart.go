// Package cart implements the pure operations that build and mutate a
// collection of line items. Every function returns a new slice and leaves its
// input untouched, so callers can treat carts as values and recompute the
// total after each step.
package cart

import "github.com/jcmexdev/pos-counter/internal/domain"

// PriceFunc resolves a unit price for a product id. ok is false when the
// product is unknown to the lookup.
type PriceFunc func(productID string) (price float64, ok bool)

// Add returns a cart with the product added. If a line item for the product
// already exists its quantity is incremented by one; a product id never
// appears twice. New items capture the catalog price as their snapshot.
func Add(items []domain.LineItem, p domain.Product) []domain.LineItem {
	for i, it := range items {
		if it.ProductID == p.ID {
			out := clone(items)
			out[i].Quantity++
			return out
		}
	}
	out := clone(items)
	return append(out, domain.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  1,
		UnitPrice: p.Price,
	})
}

// SetQuantity replaces the quantity of the matching line item. Quantities
// below one are invalid and leave the cart unchanged.
func SetQuantity(items []domain.LineItem, productID string, quantity int) []domain.LineItem {
	if quantity < 1 {
		return items
	}
	for i, it := range items {
		if it.ProductID == productID {
			out := clone(items)
			out[i].Quantity = quantity
			return out
		}
	}
	return items
}

// Increment raises the matching item's quantity by one.
func Increment(items []domain.LineItem, productID string) []domain.LineItem {
	for i, it := range items {
		if it.ProductID == productID {
			out := clone(items)
			out[i].Quantity++
			return out
		}
	}
	return items
}

// Decrement lowers the matching item's quantity by one. Quantity never drops
// below one: at the floor the call is a no-op, the item is not removed.
func Decrement(items []domain.LineItem, productID string) []domain.LineItem {
	for i, it := range items {
		if it.ProductID == productID {
			if it.Quantity <= 1 {
				return items
			}
			out := clone(items)
			out[i].Quantity--
			return out
		}
	}
	return items
}

// Remove drops the line item entirely. Only the edit-existing-sale flow uses
// this; the create flow has no remove, just the quantity floor.
func Remove(items []domain.LineItem, productID string) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

// Total sums quantity times unit price over all items. Prices the lookup
// cannot resolve count as zero so one bad record never poisons the total.
func Total(items []domain.LineItem, lookup PriceFunc) float64 {
	var total float64
	for _, it := range items {
		price, ok := lookup(it.ProductID)
		if !ok {
			price = 0
		}
		total += float64(it.Quantity) * price
	}
	return total
}

// SnapshotFirst builds a PriceFunc that prefers the line items' own price
// snapshots and falls back to the given catalog lookup for items without one.
func SnapshotFirst(items []domain.LineItem, catalog PriceFunc) PriceFunc {
	snapshots := make(map[string]float64, len(items))
	for _, it := range items {
		if it.UnitPrice > 0 {
			snapshots[it.ProductID] = it.UnitPrice
		}
	}
	return func(productID string) (float64, bool) {
		if p, ok := snapshots[productID]; ok {
			return p, true
		}
		if catalog == nil {
			return 0, false
		}
		return catalog(productID)
	}
}

func clone(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
