package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/draft"
)

// CreateDraft opens a new cart. With ?from=<saleID> it loads that sale for
// editing instead, re-opening line items that were saved without a quantity.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var d *draft.Draft

	if saleID := r.URL.Query().Get("from"); saleID != "" {
		sale, err := h.backend.GetSale(r.Context(), saleID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		d = draft.Hydrate(sale, h.catalog.PriceFor)
	} else {
		d = draft.New(h.catalog.PriceFor)
		var req CreateDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			d.TableNumber = strings.TrimSpace(req.TableNumber)
		}
	}

	id := h.drafts.Put(d)
	slog.InfoContext(r.Context(), "draft opened", "draft_id", id, "sale_id", d.SaleID, "editing", d.Editing)
	writeJSON(w, http.StatusCreated, mapDraftToResponse(id, d))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.drafts.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDraftToResponse(id, d))
}

// UpdateDraft sets the table number.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	err := h.drafts.Update(id, func(d *draft.Draft) error {
		d.TableNumber = strings.TrimSpace(req.TableNumber)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetDraft(w, r)
}

// AddDraftItem puts one unit of a catalog product in the cart. Adding a
// product already present bumps its quantity instead of duplicating the line.
func (h *Handler) AddDraftItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" {
		writeDomainError(w, domain.ErrProductRequired)
		return
	}
	product, ok := h.catalog.Lookup(req.ProductID)
	if !ok {
		writeDomainError(w, &domain.NotFoundError{Kind: "product", ID: req.ProductID})
		return
	}

	id := chi.URLParam(r, "id")
	err := h.drafts.Update(id, func(d *draft.Draft) error {
		d.AddProduct(product)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetDraft(w, r)
}

// UpdateDraftItem adjusts a line. The body carries either an absolute
// quantity (number or string, front-ends send both) or op increment /
// decrement. Decrementing never drops below one unit.
func (h *Handler) UpdateDraftItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productID")

	err := h.drafts.Update(id, func(d *draft.Draft) error {
		switch req.Op {
		case "increment":
			d.Increment(productID)
		case "decrement":
			d.Decrement(productID)
		case "":
			qty, err := cast.ToIntE(req.Quantity)
			if err != nil || qty < 1 {
				return domain.ErrInvalidQuantity
			}
			d.SetQuantity(productID, qty)
		default:
			return domain.ErrInvalidQuantity
		}
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetDraft(w, r)
}

// RemoveDraftItem deletes a line. Only allowed when editing a saved sale;
// new carts adjust quantities instead.
func (h *Handler) RemoveDraftItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productID")

	err := h.drafts.Update(id, func(d *draft.Draft) error {
		return d.RemoveProduct(productID)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetDraft(w, r)
}

// SubmitDraft validates locally and sends the sale to the sales service.
// On failure the draft stays in the store so nothing typed is lost.
func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.drafts.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sale, err := d.Submit(r.Context(), h.backend)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.drafts.Delete(id)
	slog.InfoContext(r.Context(), "draft submitted", "draft_id", id, "sale_id", sale.ID, "total", sale.Total)
	writeJSON(w, http.StatusOK, mapSaleToResponse(sale))
}
