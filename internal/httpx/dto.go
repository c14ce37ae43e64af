package httpx

import (
	"encoding/json"
	"time"

	"github.com/jcmexdev/pos-counter/internal/checkout"
	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/draft"
)

type CatalogResponse struct {
	Products []ProductResponse `json:"products"`
	LoadedAt string            `json:"loaded_at,omitempty"`
}

type ProductResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Price         float64           `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	Category      string            `json:"category,omitempty"`
	Image         string            `json:"image,omitempty"`
	Supplier      *SupplierResponse `json:"supplier,omitempty"`
}

type SupplierResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type ProductRequest struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	Category      string            `json:"category"`
	Image         string            `json:"image"`
	Supplier      *SupplierResponse `json:"supplier"`
}

type ClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CreateDraftRequest struct {
	TableNumber string `json:"table_number"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// UpdateItemRequest carries either an absolute quantity or a relative op
// ("increment" / "decrement"). Quantity is any because front-ends send it
// both as a number and as a string.
type UpdateItemRequest struct {
	Quantity any    `json:"quantity"`
	Op       string `json:"op"`
}

type DraftResponse struct {
	ID          string         `json:"id"`
	SaleID      string         `json:"sale_id,omitempty"`
	TableNumber string         `json:"table_number"`
	Items       []ItemResponse `json:"items"`
	Total       float64        `json:"total"`
	Editing     bool           `json:"editing"`
	CreatedAt   string         `json:"created_at"`
}

type ItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type SaleResponse struct {
	ID            string         `json:"id"`
	TableNumber   string         `json:"table_number"`
	Items         []ItemResponse `json:"items"`
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"payment_method,omitempty"`
	Finished      bool           `json:"finished"`
	Date          string         `json:"date,omitempty"`
}

type PaymentRequest struct {
	Method string `json:"method"`
}

type CheckoutResponse struct {
	SaleID string `json:"sale_id"`
	State  string `json:"state"`
	Method string `json:"method,omitempty"`
}

type ReceiptResponse struct {
	Receipt  checkout.Receipt `json:"receipt"`
	Rendered string           `json:"rendered"`
}

type PaymentMethodResponse struct {
	Method string `json:"method"`
	Label  string `json:"label"`
}

type ReceiptLogResponse struct {
	SaleID        string          `json:"sale_id"`
	TableNumber   string          `json:"table_number"`
	PaymentMethod string          `json:"payment_method"`
	Total         float64         `json:"total"`
	Items         json.RawMessage `json:"items"`
	IssuedAt      string          `json:"issued_at"`
	TraceID       string          `json:"trace_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProductToResponse(p domain.Product) ProductResponse {
	out := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		Image:         p.Image,
	}
	if p.Supplier != nil {
		out.Supplier = &SupplierResponse{Name: p.Supplier.Name, Phone: p.Supplier.Phone}
	}
	return out
}

func mapProducts(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProductToResponse(p)
	}
	return out
}

func mapItems(items []domain.LineItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = ItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		}
	}
	return out
}

func mapDraftToResponse(id string, d *draft.Draft) DraftResponse {
	return DraftResponse{
		ID:          id,
		SaleID:      d.SaleID,
		TableNumber: d.TableNumber,
		Items:       mapItems(d.Items),
		Total:       d.Total,
		Editing:     d.Editing,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

func mapSaleToResponse(s domain.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		TableNumber:   s.TableNumber,
		Items:         mapItems(s.Items),
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Finished:      s.Finished,
	}
	if !s.Date.IsZero() {
		out.Date = s.Date.Format(time.RFC3339)
	}
	return out
}

func mapReceiptEntry(e *receiptlog.Entry) ReceiptLogResponse {
	return ReceiptLogResponse{
		SaleID:        e.SaleID,
		TableNumber:   e.TableNumber,
		PaymentMethod: e.PaymentMethod,
		Total:         e.Total,
		Items:         json.RawMessage(e.Items),
		IssuedAt:      e.IssuedAt.Format(time.RFC3339),
		TraceID:       e.TraceID,
	}
}

func mapSales(sales []domain.Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = mapSaleToResponse(s)
	}
	return out
}
