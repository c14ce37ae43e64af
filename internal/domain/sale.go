package domain

import "time"

// LineItem is one product-quantity pairing inside a cart or sale.
// UnitPrice is the price snapshot captured when the item was added;
// zero means the snapshot is unknown and the catalog must be consulted.
type LineItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

func (i LineItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Sale is the persisted form of an order, owned by the external sales
// service. Finished separates completed sales from open tabs.
type Sale struct {
	ID            string
	TableNumber   string
	Items         []LineItem
	Total         float64
	PaymentMethod PaymentMethod
	Finished      bool
	Date          time.Time
}

// Client is a customer record, created through the clients endpoint.
type Client struct {
	Name    string
	Phone   string
	Address string
}
