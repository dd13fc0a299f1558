// Package export projects invoice records into tabular sheets, backup files
// and printable documents. Nothing here performs persistence.
package export

import (
	"time"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// DateTimeLayout formats createdAt/updatedAt cells
const DateTimeLayout = "2006-01-02 15:04"

// InvoiceColumns is the fixed column order of the invoice sheet
var InvoiceColumns = []string{
	"Invoice Number",
	"Issue Date",
	"Due Date",
	"Customer Name",
	"Customer Address",
	"Customer Phone",
	"Subtotal",
	"Tax Rate",
	"Tax Amount",
	"Total",
	"Created At",
	"Updated At",
}

// ItemColumns is the fixed column order of the item sheet
var ItemColumns = []string{
	"Invoice Number",
	"Description",
	"Quantity",
	"Unit Price",
	"Amount",
}

// Sheet is a named header plus rows. Cells are string or float64.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Tabular is the two-sheet projection of a record collection
type Tabular struct {
	Invoices Sheet
	Items    Sheet
}

// Projector builds tabular views with timestamps rendered in loc
type Projector struct {
	loc *time.Location
}

// NewProjector creates a projector. A nil loc means time.Local.
func NewProjector(loc *time.Location) *Projector {
	if loc == nil {
		loc = time.Local
	}
	return &Projector{loc: loc}
}

// ToTabular flattens records in the given order
func (p *Projector) ToTabular(records []entity.InvoiceRecord) Tabular {
	out := Tabular{
		Invoices: Sheet{Name: "Invoices", Header: InvoiceColumns, Rows: make([][]interface{}, 0, len(records))},
		Items:    Sheet{Name: "Items", Header: ItemColumns, Rows: [][]interface{}{}},
	}

	for _, r := range records {
		out.Invoices.Rows = append(out.Invoices.Rows, []interface{}{
			r.InvoiceNumber,
			r.Date,
			r.DueDate,
			r.Customer.Name,
			r.Customer.Address,
			r.Customer.Phone,
			r.Subtotal,
			r.TaxRate,
			r.Tax,
			r.Total,
			p.formatTime(r.CreatedAt),
			p.formatTime(r.UpdatedAt),
		})

		for _, item := range r.Items {
			out.Items.Rows = append(out.Items.Rows, []interface{}{
				r.InvoiceNumber,
				item.Description,
				item.Quantity,
				item.UnitPrice,
				item.Amount,
			})
		}
	}

	return out
}

func (p *Projector) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(p.loc).Format(DateTimeLayout)
}
