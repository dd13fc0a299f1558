package billing

import "time"

// IssueDateLayout is the calendar date layout used for date and dueDate
const IssueDateLayout = "2006-01-02"

// Draft is an invoice as submitted by a client, before normalisation.
// Derived fields sent by the client (amount, subtotal, tax, total) are not
// part of the draft and are always recomputed.
type Draft struct {
	InvoiceNumber string          `json:"invoiceNumber" validate:"required"`
	Date          string          `json:"date"`
	DueDate       string          `json:"dueDate"`
	Customer      CustomerDraft   `json:"customer"`
	Items         []LineItemDraft `json:"items" validate:"required,min=1,dive"`
	TaxRate       LenientNumber   `json:"taxRate"`
}

// CustomerDraft is the billed party as submitted
type CustomerDraft struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItemDraft is one submitted line; numeric fields are read leniently
type LineItemDraft struct {
	Description string        `json:"description" validate:"required"`
	Quantity    LenientNumber `json:"quantity"`
	UnitPrice   LenientNumber `json:"unitPrice"`
}

// CalculateDueDate returns date plus days in IssueDateLayout.
// An unparseable date is returned unchanged.
func CalculateDueDate(date string, days int) string {
	t, err := time.Parse(IssueDateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(IssueDateLayout)
}
