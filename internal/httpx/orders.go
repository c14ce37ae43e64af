package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/pos-counter/internal/checkout"
	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/draft"
)

// ListOrders serves the open tabs: sales the backend still holds as
// unfinished. The sales service has no finished filter, so it happens here.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sales, err := h.backend.ListSales(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	open := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if !s.Finished {
			open = append(open, s)
		}
	}
	writeJSON(w, http.StatusOK, mapSales(open))
}

// SelectPayment opens (or resumes) the checkout session for a sale and
// records the chosen payment method.
func (h *Handler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	saleID := chi.URLParam(r, "id")
	sale, err := h.backend.GetSale(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	c, err := h.checkouts.Begin(sale, h.backend, h.printer, h.receipts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := c.SelectPaymentMethod(domain.PaymentMethod(req.Method)); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "payment method selected", "sale_id", saleID, "method", req.Method)
	writeJSON(w, http.StatusOK, checkoutResponse(c))
}

// ConfirmOrder finalizes the sale with the selected method. Success returns
// the receipt and closes the session; failure keeps the session alive so the
// cashier can retry or cancel.
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "id")

	var receipt checkout.Receipt
	err := h.checkouts.Update(saleID, func(c *checkout.Checkout) error {
		var err error
		receipt, err = c.Confirm(r.Context())
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.checkouts.End(saleID)
	slog.InfoContext(r.Context(), "sale finalized", "sale_id", saleID, "method", string(receipt.Method), "total", receipt.Total)
	writeJSON(w, http.StatusOK, ReceiptResponse{Receipt: receipt, Rendered: receipt.Render()})
}

// CancelCheckout drops the chosen method and returns the session to open.
func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "id")

	var state checkout.State
	err := h.checkouts.Update(saleID, func(c *checkout.Checkout) error {
		if err := c.Cancel(); err != nil {
			return err
		}
		state = c.State()
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckoutResponse{SaleID: saleID, State: string(state)})
}

// EditOrder abandons the checkout and opens the sale as an editing draft.
// A pending payment selection is discarded on the way out.
func (h *Handler) EditOrder(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "id")

	fetched, err := h.backend.GetSale(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if _, err := h.checkouts.Begin(fetched, h.backend, h.printer, h.receipts); err != nil {
		writeDomainError(w, err)
		return
	}

	var sale domain.Sale
	err = h.checkouts.Update(saleID, func(c *checkout.Checkout) error {
		if c.State() == checkout.StateAwaitingConfirmation {
			if err := c.Cancel(); err != nil {
				return err
			}
		}
		var err error
		sale, err = c.EditInstead()
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.checkouts.End(saleID)
	d := draft.Hydrate(sale, h.catalog.PriceFor)
	id := h.drafts.Put(d)
	slog.InfoContext(r.Context(), "checkout switched to edit", "sale_id", saleID, "draft_id", id)
	writeJSON(w, http.StatusCreated, mapDraftToResponse(id, d))
}

// ReprintReceipt serves the latest logged receipt for a finalized sale.
// Only sales finalized on this counter have one.
func (h *Handler) ReprintReceipt(w http.ResponseWriter, r *http.Request) {
	if h.reprints == nil {
		writeError(w, http.StatusNotFound, "not_found", "receipt log disabled")
		return
	}
	saleID := chi.URLParam(r, "id")
	entry, err := h.reprints.LatestForSale(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapReceiptEntry(entry))
}

func checkoutResponse(c *checkout.Checkout) CheckoutResponse {
	return CheckoutResponse{
		SaleID: c.Sale().ID,
		State:  string(c.State()),
		Method: string(c.Method()),
	}
}
