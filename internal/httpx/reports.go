package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/report"
)

const dateLayout = "2006-01-02"

// ListSales serves the finished sales, optionally filtered by ?from / ?to
// (inclusive, YYYY-MM-DD). Filtering is done here.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, rng, ok := h.fetchSales(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mapSales(report.Filter(sales, rng)))
}

// GetSummary serves the dashboard aggregates.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sales, rng, ok := h.fetchSales(w, r)
	if !ok {
		return
	}
	products, err := h.backend.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Build(sales, products, rng))
}

// ExportSalesCSV streams the finished sales as a CSV download.
func (h *Handler) ExportSalesCSV(w http.ResponseWriter, r *http.Request) {
	sales, rng, ok := h.fetchSales(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", exportFilename("csv"))
	if err := report.WriteCSV(w, report.Records(sales, rng)); err != nil {
		// Headers are already out, nothing sensible left to report.
		return
	}
}

// ExportSalesExcel streams the finished sales as an xlsx download.
func (h *Handler) ExportSalesExcel(w http.ResponseWriter, r *http.Request) {
	sales, rng, ok := h.fetchSales(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", exportFilename("xlsx"))
	_ = report.WriteExcel(w, report.Records(sales, rng))
}

func (h *Handler) fetchSales(w http.ResponseWriter, r *http.Request) ([]domain.Sale, report.Range, bool) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		return nil, report.Range{}, false
	}
	sales, err := h.backend.ListSales(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return nil, report.Range{}, false
	}
	return sales, rng, true
}

func parseRange(r *http.Request) (report.Range, error) {
	var rng report.Range
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return rng, fmt.Errorf("from: %w", err)
		}
		rng.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return rng, fmt.Errorf("to: %w", err)
		}
		rng.To = t
	}
	return rng, nil
}

func exportFilename(ext string) string {
	return fmt.Sprintf(`attachment; filename="sales-%s.%s"`, time.Now().Format(dateLayout), ext)
}
