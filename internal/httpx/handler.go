package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/pos-counter/internal/backend"
	"github.com/jcmexdev/pos-counter/internal/catalog"
	"github.com/jcmexdev/pos-counter/internal/checkout"
	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/draft"
)

// Backend is the slice of the sales service the handlers talk to.
type Backend interface {
	draft.SaleWriter
	checkout.Finalizer
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsRange(ctx context.Context, r backend.DateRange) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSale(ctx context.Context, id string) (domain.Sale, error)
	CreateClient(ctx context.Context, client domain.Client) error
}

// ReceiptReader looks up previously printed receipts for reprints.
type ReceiptReader interface {
	LatestForSale(ctx context.Context, saleID string) (*receiptlog.Entry, error)
}

// Catalog is the read surface of the product cache the handlers use.
type Catalog interface {
	Load(ctx context.Context) error
	Products() []domain.Product
	Lookup(id string) (domain.Product, bool)
	PriceFor(id string) (float64, bool)
	LoadedAt() time.Time
}

var (
	_ Backend = (*backend.Client)(nil)
	_ Catalog = (*catalog.Cache)(nil)
)

// Handler serves the counter API: catalog, drafts, checkout, and reports.
type Handler struct {
	catalog   Catalog
	backend   Backend
	drafts    *draft.Store
	checkouts *checkout.Store
	receipts  receiptlog.Repository // nil-safe: auditing skipped if nil
	reprints  ReceiptReader         // nil disables the reprint endpoint
	printer   checkout.Printer      // nil means no physical printer attached
}

func NewHandler(cat Catalog, be Backend, drafts *draft.Store, checkouts *checkout.Store, receipts receiptlog.Repository, reprints ReceiptReader, printer checkout.Printer) *Handler {
	return &Handler{
		catalog:   cat,
		backend:   be,
		drafts:    drafts,
		checkouts: checkouts,
		receipts:  receipts,
		reprints:  reprints,
		printer:   printer,
	}
}

// GetCatalog serves the cached product list without touching the network.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	resp := CatalogResponse{Products: mapProducts(h.catalog.Products())}
	if t := h.catalog.LoadedAt(); !t.IsZero() {
		resp.LoadedAt = t.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReloadCatalog refetches the product list. On failure the previous
// snapshot keeps serving and the error is reported.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "catalog reload failed", "error", err)
		writeDomainError(w, err)
		return
	}
	slog.InfoContext(r.Context(), "catalog reloaded", "products", len(h.catalog.Products()))
	h.GetCatalog(w, r)
}

// ListProducts passes through to the service, forwarding an optional
// ?from / ?to window untouched; range semantics belong to the backend.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		return
	}
	products, err := h.backend.ListProductsRange(r.Context(), backend.DateRange{From: rng.From, To: rng.To})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProducts(products))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.backend.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	created, err := h.backend.CreateProduct(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProductToResponse(created))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	updated, err := h.backend.UpdateProduct(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(updated))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Name == "" {
		writeDomainError(w, domain.ErrNameRequired)
		return
	}
	client := domain.Client{Name: req.Name, Phone: req.Phone, Address: req.Address}
	if err := h.backend.CreateClient(r.Context(), client); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

// ListPaymentMethods serves the accepted methods so front-ends do not
// hardcode them.
func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods := domain.PaymentMethods()
	out := make([]PaymentMethodResponse, len(methods))
	for i, m := range methods {
		out[i] = PaymentMethodResponse{Method: string(m), Label: m.Label()}
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (domain.Product, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return domain.Product{}, false
	}
	if req.Name == "" {
		writeDomainError(w, domain.ErrNameRequired)
		return domain.Product{}, false
	}
	if req.Price < 0 {
		writeDomainError(w, domain.ErrInvalidPrice)
		return domain.Product{}, false
	}
	p := domain.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Image:         req.Image,
	}
	if req.Supplier != nil {
		p.Supplier = &domain.Supplier{Name: req.Supplier.Name, Phone: req.Supplier.Phone}
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError maps the error taxonomy to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDraftNotFound), domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrTableNumberRequired),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrProductRequired),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrUnknownPaymentMethod),
		errors.Is(err, domain.ErrNoPaymentMethod):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrRemoveNotAllowed),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyFinalized):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case domain.IsTransport(err):
		writeError(w, http.StatusBadGateway, "backend_unreachable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
