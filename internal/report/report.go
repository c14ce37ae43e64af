// Package report derives the dashboard numbers from the raw sale and product
// lists. The service has no reporting endpoints; everything here is computed
// client-side over full fetches, including the date filter.
package report

import (
	"sort"
	"time"

	"github.com/jcmexdev/pos-counter/internal/domain"
)

// Range is an optional inclusive date window. Zero bounds are open ends.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}

// TableRevenue is one bar of the sales-by-table chart.
type TableRevenue struct {
	TableNumber string  `json:"table_number"`
	Revenue     float64 `json:"revenue"`
	Sales       int     `json:"sales"`
}

// Summary is the dashboard payload.
type Summary struct {
	SaleCount int            `json:"sale_count"`
	Revenue   float64        `json:"revenue"`
	ByTable   []TableRevenue `json:"by_table"`
	TopStock  []StockLevel   `json:"top_stock"`
	LowStock  []StockLevel   `json:"low_stock"`
}

// StockLevel pairs a product with its stock for the top/low charts.
type StockLevel struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

const stockChartSize = 5

// Build computes the summary over finished sales within the range.
func Build(sales []domain.Sale, products []domain.Product, rng Range) Summary {
	var s Summary
	byTable := make(map[string]*TableRevenue)

	for _, sale := range Filter(sales, rng) {
		s.SaleCount++
		s.Revenue += sale.Total

		t, ok := byTable[sale.TableNumber]
		if !ok {
			t = &TableRevenue{TableNumber: sale.TableNumber}
			byTable[sale.TableNumber] = t
		}
		t.Revenue += sale.Total
		t.Sales++
	}

	for _, t := range byTable {
		s.ByTable = append(s.ByTable, *t)
	}
	sort.Slice(s.ByTable, func(i, j int) bool {
		return s.ByTable[i].Revenue > s.ByTable[j].Revenue
	})

	s.TopStock, s.LowStock = stockExtremes(products)
	return s
}

// Filter keeps the finished sales whose date falls in the range.
func Filter(sales []domain.Sale, rng Range) []domain.Sale {
	out := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if !sale.Finished {
			continue
		}
		if !rng.contains(sale.Date) {
			continue
		}
		out = append(out, sale)
	}
	return out
}

func stockExtremes(products []domain.Product) (top, low []StockLevel) {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StockQuantity > sorted[j].StockQuantity
	})

	n := len(sorted)
	for i := 0; i < n && i < stockChartSize; i++ {
		top = append(top, StockLevel{ProductID: sorted[i].ID, Name: sorted[i].Name, Stock: sorted[i].StockQuantity})
	}
	start := n - stockChartSize
	if start < 0 {
		start = 0
	}
	for i := start; i < n; i++ {
		low = append(low, StockLevel{ProductID: sorted[i].ID, Name: sorted[i].Name, Stock: sorted[i].StockQuantity})
	}
	return top, low
}
