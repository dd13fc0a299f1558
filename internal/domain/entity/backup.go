package entity

import "time"

// Backup is the full-data export document.
// Nil sections are left untouched on import.
type Backup struct {
	Invoices    []InvoiceRecord `json:"invoices"`
	CompanyInfo *CompanyInfo    `json:"companyInfo"`
	ExportDate  time.Time       `json:"exportDate"`
}
