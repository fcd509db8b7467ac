package view

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/shopspring/decimal"
)

// Row is a projected product decorated for display.
type Row struct {
	model.Product
	PriceLabel string
	StockLabel string
	LowStock   bool
	// Badge is "danger" for low stock and "success" otherwise.
	Badge string
}

// Rows decorates projected products.
func Rows(products []model.Product) []Row {
	rows := make([]Row, len(products))
	for i, p := range products {
		badge := "success"
		if p.LowStock() {
			badge = "danger"
		}
		rows[i] = Row{
			Product:    p,
			PriceLabel: FormatPrice(p.Price),
			StockLabel: fmt.Sprintf("%d Units", p.Quantity),
			LowStock:   p.LowStock(),
			Badge:      badge,
		}
	}
	return rows
}

// FormatPrice renders a price with a dollar sign and two decimals.
func FormatPrice(price float64) string {
	return "$" + decimal.NewFromFloat(price).StringFixed(2)
}

// CountLabel is the heading tag above the table, e.g. "4 Products".
func CountLabel(n int) string {
	return fmt.Sprintf("%d Products", n)
}

type csvRow struct {
	ID          int    `csv:"id"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Price       string `csv:"price"`
	Quantity    int    `csv:"quantity"`
	LowStock    bool   `csv:"low_stock"`
}

// WriteCSV writes rows, in order, as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	out := make([]csvRow, len(rows))
	for i, r := range rows {
		out[i] = csvRow{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       decimal.NewFromFloat(r.Price).StringFixed(2),
			Quantity:    r.Quantity,
			LowStock:    r.LowStock,
		}
	}
	if err := gocsv.Marshal(out, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
