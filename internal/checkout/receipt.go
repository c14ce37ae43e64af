package checkout

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jcmexdev/pos-counter/internal/domain"
)

// ReceiptLine is one printed row: quantity, name, unit price, line total.
type ReceiptLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Receipt is a value object composed from sale data at print time; it is
// never persisted as-is, only appended to the audit log.
type Receipt struct {
	SaleID      string               `json:"sale_id"`
	TableNumber string               `json:"table_number"`
	Method      domain.PaymentMethod `json:"payment_method"`
	IssuedAt    time.Time            `json:"issued_at"`
	Lines       []ReceiptLine        `json:"lines"`
	Total       float64              `json:"total"`
}

// buildReceipt prices every line from the item's own snapshot. Finalized
// receipts must reflect what was charged, not whatever the catalog says now.
func buildReceipt(sale domain.Sale, method domain.PaymentMethod) Receipt {
	lines := make([]ReceiptLine, len(sale.Items))
	for i, it := range sale.Items {
		name := it.Name
		if name == "" {
			name = it.ProductID
		}
		lines[i] = ReceiptLine{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.Subtotal(),
		}
	}
	return Receipt{
		SaleID:      sale.ID,
		TableNumber: sale.TableNumber,
		Method:      method,
		IssuedAt:    time.Now(),
		Lines:       lines,
		Total:       sale.Total,
	}
}

const receiptWidth = 38

// Render formats the receipt as fixed-width text for a thermal printer.
func (r Receipt) Render() string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	b.WriteString(center("RECEIPT") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Date:  %s\n", r.IssuedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Table: %s\n", r.TableNumber)
	b.WriteString(rule + "\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%dx %s\n", l.Quantity, l.Name)
		fmt.Fprintf(&b, "%*s\n", receiptWidth, fmt.Sprintf("%.2f each = %.2f", l.UnitPrice, l.LineTotal))
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-*s%*.2f\n", 10, "TOTAL", receiptWidth-10, r.Total)
	fmt.Fprintf(&b, "Paid by %s\n", r.Method.Label())
	b.WriteString(rule + "\n")
	b.WriteString(center("Thank you for your purchase!") + "\n")
	return b.String()
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	pad := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// TextPrinter writes rendered receipts to an io.Writer, usually the process
// stdout or a spool file handed to the actual printer daemon.
type TextPrinter struct {
	W io.Writer
}

func (p TextPrinter) Print(r Receipt) error {
	_, err := io.WriteString(p.W, r.Render()+"\n")
	return err
}
