package report

import (
	"fmt"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"

	"github.com/jcmexdev/pos-counter/internal/domain"
)

// SaleRecord is the flat row shape shared by the CSV and Excel exports.
type SaleRecord struct {
	SaleID        string  `csv:"sale_id"`
	TableNumber   string  `csv:"table_number"`
	Date          string  `csv:"date"`
	Items         int     `csv:"items"`
	Total         float64 `csv:"total"`
	PaymentMethod string  `csv:"payment_method"`
}

// Records flattens the finished sales in the range into export rows.
func Records(sales []domain.Sale, rng Range) []SaleRecord {
	filtered := Filter(sales, rng)
	out := make([]SaleRecord, 0, len(filtered))
	for _, sale := range filtered {
		items := 0
		for _, it := range sale.Items {
			items += it.Quantity
		}
		out = append(out, SaleRecord{
			SaleID:        sale.ID,
			TableNumber:   sale.TableNumber,
			Date:          sale.Date.Format(time.RFC3339),
			Items:         items,
			Total:         sale.Total,
			PaymentMethod: sale.PaymentMethod.Label(),
		})
	}
	return out
}

// WriteCSV renders the rows as CSV with a header line.
func WriteCSV(w io.Writer, records []SaleRecord) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	return nil
}

var excelHeader = []string{"Sale ID", "Table", "Date", "Items", "Total", "Payment"}

// WriteExcel renders the rows as a single-sheet workbook.
func WriteExcel(w io.Writer, records []SaleRecord) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	for col, title := range excelHeader {
		f.SetCellValue(sheet, axis(col, 1), title)
	}
	for i, r := range records {
		row := i + 2
		f.SetCellValue(sheet, axis(0, row), r.SaleID)
		f.SetCellValue(sheet, axis(1, row), r.TableNumber)
		f.SetCellValue(sheet, axis(2, row), r.Date)
		f.SetCellValue(sheet, axis(3, row), r.Items)
		f.SetCellValue(sheet, axis(4, row), r.Total)
		f.SetCellValue(sheet, axis(5, row), r.PaymentMethod)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func axis(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
