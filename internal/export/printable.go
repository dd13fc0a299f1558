package export

import (
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// Field is one labelled value on a printed document
type Field struct {
	Label string
	Value string
}

// PartyBlock is a name followed by contact lines
type PartyBlock struct {
	Name  string
	Lines []string
}

// ItemRow is a line item with display-formatted cells
type ItemRow struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// TotalRow is one row of the totals table. Grand marks the final total.
type TotalRow struct {
	Label string
	Value string
	Grand bool
}

// Document is the render-ready content of a printed invoice
type Document struct {
	Title         string
	InvoiceNumber string
	Logo          string
	Company       PartyBlock
	BillToTitle   string
	BillTo        PartyBlock
	Meta          []Field
	ItemHeader    [4]string
	Items         []ItemRow
	Totals        []TotalRow
	BankTitle     string
	Bank          []Field
}

// HasBank reports whether the payment block should be printed
func (d Document) HasBank() bool {
	return len(d.Bank) > 0
}

// DocumentBuilder assembles printable documents
type DocumentBuilder struct {
	currency *CurrencyFormatter
}

// NewDocumentBuilder creates a builder formatting money with currency
func NewDocumentBuilder(currency *CurrencyFormatter) *DocumentBuilder {
	return &DocumentBuilder{currency: currency}
}

// ToPrintable builds the document for record issued by company. It has no side effects.
func (b *DocumentBuilder) ToPrintable(record entity.InvoiceRecord, company entity.CompanyInfo) Document {
	money := b.currency.Format

	doc := Document{
		Title:         "INVOICE",
		InvoiceNumber: record.InvoiceNumber,
		Logo:          company.Logo,
		Company: PartyBlock{
			Name:  company.Name,
			Lines: contactLines(company.Address, company.Phone, company.Email),
		},
		BillToTitle: "Bill To",
		BillTo: PartyBlock{
			Name:  record.Customer.Name,
			Lines: contactLines(record.Customer.Address, record.Customer.Phone, ""),
		},
		Meta: []Field{
			{Label: "Invoice No.", Value: record.InvoiceNumber},
			{Label: "Issue Date", Value: record.Date},
			{Label: "Due Date", Value: record.DueDate},
		},
		ItemHeader: [4]string{"Description", "Qty", "Unit Price", "Amount"},
		Items:      make([]ItemRow, 0, len(record.Items)),
		Totals: []TotalRow{
			{Label: "Subtotal", Value: money(record.Subtotal)},
			{Label: "Tax (" + formatPlain(record.TaxRate) + "%)", Value: money(record.Tax)},
			{Label: "Total", Value: money(record.Total), Grand: true},
		},
	}

	for _, item := range record.Items {
		doc.Items = append(doc.Items, ItemRow{
			Description: item.Description,
			Quantity:    formatPlain(item.Quantity),
			UnitPrice:   money(item.UnitPrice),
			Amount:      money(item.Amount),
		})
	}

	if company.HasBank() {
		doc.BankTitle = "Payment Details"
		doc.Bank = []Field{
			{Label: "Bank", Value: company.Bank.Name},
			{Label: "Branch", Value: company.Bank.Branch},
			{Label: "Account No.", Value: company.Bank.AccountNumber},
			{Label: "Account Name", Value: company.Bank.AccountName},
		}
	}

	return doc
}

func contactLines(address, phone, email string) []string {
	var lines []string
	if address != "" {
		lines = append(lines, address)
	}
	if phone != "" {
		lines = append(lines, "TEL: "+phone)
	}
	if email != "" {
		lines = append(lines, "Email: "+email)
	}
	return lines
}
