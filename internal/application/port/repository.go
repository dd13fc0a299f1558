package port

import (
	"context"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// InvoiceRepository is the local record store keyed by invoice number
type InvoiceRepository interface {
	// Save upserts by invoice number. It reports whether a new record was created.
	Save(ctx context.Context, record entity.InvoiceRecord) (entity.InvoiceRecord, bool, error)

	// Get returns nil when no record has the number
	Get(ctx context.Context, invoiceNumber string) (*entity.InvoiceRecord, error)

	// List returns all records, newest createdAt first
	List(ctx context.Context) ([]entity.InvoiceRecord, error)

	// Delete reports false when no record had the number
	Delete(ctx context.Context, invoiceNumber string) (bool, error)

	// Search filters List by case-insensitive substring of number or customer name
	Search(ctx context.Context, term string) ([]entity.InvoiceRecord, error)

	// ReplaceAll swaps the whole collection as-is
	ReplaceAll(ctx context.Context, records []entity.InvoiceRecord) error

	Clear(ctx context.Context) error
}

// CompanyRepository stores the company info singleton
type CompanyRepository interface {
	// Load returns the default empty shape when nothing is stored
	Load(ctx context.Context) (entity.CompanyInfo, error)
	Save(ctx context.Context, info entity.CompanyInfo) error
	Clear(ctx context.Context) error
}

// SettingsRepository stores scalar application settings
type SettingsRepository interface {
	SinkURLSource
	SetSinkURL(ctx context.Context, url string) error
	// SeedSinkURL stores url only when no sink URL was ever persisted. It reports whether it wrote.
	SeedSinkURL(ctx context.Context, url string) (bool, error)
	LastInvoiceNumber(ctx context.Context) (string, error)
	SetLastInvoiceNumber(ctx context.Context, number string) error
}

// SinkURLSource yields the currently configured sink endpoint, empty when unset
type SinkURLSource interface {
	SinkURL(ctx context.Context) (string, error)
}
