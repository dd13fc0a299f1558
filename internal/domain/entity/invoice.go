package entity

import "time"

// InvoiceRecord is one billable document with its line items and derived totals
type InvoiceRecord struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          string     `json:"date"`
	DueDate       string     `json:"dueDate"`
	Customer      Customer   `json:"customer"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	TaxRate       float64    `json:"taxRate"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Customer is the billed party of an invoice
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItem is one billed entry; Amount is always quantity * unit price
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// Clone returns a copy that shares no slices with r
func (r InvoiceRecord) Clone() InvoiceRecord {
	out := r
	if r.Items != nil {
		out.Items = make([]LineItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	return out
}
