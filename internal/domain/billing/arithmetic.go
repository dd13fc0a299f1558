// Package billing holds the invoice arithmetic and the draft model that
// turns loosely typed input into a consistent InvoiceRecord.
package billing

import (
	"math"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// Totals are the derived header amounts of an invoice
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// LineAmount returns quantity * unitPrice using native float multiplication.
// Negative or non-finite inputs propagate unchanged.
func LineAmount(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// ComputeTotals sums line amounts in item order and applies the tax rate.
// Tax is floored, never rounded: subtotal 1005 at 10% gives tax 100.
func ComputeTotals(items []entity.LineItem, taxRate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += LineAmount(item.Quantity, item.UnitPrice)
	}

	tax := math.Floor(subtotal * taxRate / 100)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Recompute rewrites every derived field of record from its items and tax rate
func Recompute(record *entity.InvoiceRecord) {
	for i := range record.Items {
		record.Items[i].Amount = LineAmount(record.Items[i].Quantity, record.Items[i].UnitPrice)
	}

	totals := ComputeTotals(record.Items, record.TaxRate)
	record.Subtotal = totals.Subtotal
	record.Tax = totals.Tax
	record.Total = totals.Total
}
