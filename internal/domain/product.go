package domain

// Supplier is the optional provenance info attached to a product.
type Supplier struct {
	Name  string
	Phone string
}

// Product is a catalog entry owned by the external products service.
// The counter only ever holds read-only copies of it.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	Category      string
	Image         string
	Supplier      *Supplier
}
