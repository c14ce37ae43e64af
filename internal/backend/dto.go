package backend

import (
	"time"

	"github.com/jcmexdev/pos-counter/internal/domain"
)

// Wire documents mirror the external service's JSON, Mongo-style _id
// included. Mapping to domain types happens at this boundary so nothing
// upstream depends on the backend's field names.

type supplierDoc struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type productDoc struct {
	ID            string       `json:"_id,omitempty"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Price         float64      `json:"price"`
	StockQuantity int          `json:"stockQuantity"`
	Category      string       `json:"category,omitempty"`
	Image         string       `json:"image,omitempty"`
	Supplier      *supplierDoc `json:"supplier,omitempty"`
}

type saleItemDoc struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	// Quantity is a pointer: persisted sales have been observed without the
	// field, and absent must be distinguishable from zero so hydration can
	// default it.
	Quantity *int    `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

type saleDoc struct {
	ID            string        `json:"_id,omitempty"`
	TableNumber   string        `json:"tableNumber"`
	Products      []saleItemDoc `json:"products"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Finished      bool          `json:"finished"`
	Date          time.Time     `json:"date"`
}

type clientDoc struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type finalizeBody struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (d productDoc) toDomain() domain.Product {
	p := domain.Product{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		StockQuantity: d.StockQuantity,
		Category:      d.Category,
		Image:         d.Image,
	}
	if d.Supplier != nil {
		p.Supplier = &domain.Supplier{Name: d.Supplier.Name, Phone: d.Supplier.Phone}
	}
	return p
}

func productToDoc(p domain.Product) productDoc {
	d := productDoc{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		Image:         p.Image,
	}
	if p.Supplier != nil {
		d.Supplier = &supplierDoc{Name: p.Supplier.Name, Phone: p.Supplier.Phone}
	}
	return d
}

func (d saleDoc) toDomain() domain.Sale {
	items := make([]domain.LineItem, len(d.Products))
	for i, it := range d.Products {
		qty := 0
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items[i] = domain.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  qty,
			UnitPrice: it.Price,
		}
	}
	return domain.Sale{
		ID:            d.ID,
		TableNumber:   d.TableNumber,
		Items:         items,
		Total:         d.Total,
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		Finished:      d.Finished,
		Date:          d.Date,
	}
}

func saleToDoc(s domain.Sale) saleDoc {
	products := make([]saleItemDoc, len(s.Items))
	for i, it := range s.Items {
		qty := it.Quantity
		products[i] = saleItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  &qty,
			Price:     it.UnitPrice,
		}
	}
	return saleDoc{
		ID:            s.ID,
		TableNumber:   s.TableNumber,
		Products:      products,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Finished:      s.Finished,
		Date:          s.Date,
	}
}

func salesToDomain(docs []saleDoc) []domain.Sale {
	out := make([]domain.Sale, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out
}

func productsToDomain(docs []productDoc) []domain.Product {
	out := make([]domain.Product, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out
}
