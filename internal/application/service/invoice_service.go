package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/billing"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/garyjia/invoice-desk/internal/export"
)

// InvoiceService manages the invoice record lifecycle
type InvoiceService interface {
	// NewDraft starts a blank invoice with a freshly issued number
	NewDraft(ctx context.Context) (billing.Draft, error)

	// Save validates draft, recomputes its totals and upserts it.
	// created reports whether the invoice number was new.
	Save(ctx context.Context, draft billing.Draft) (record entity.InvoiceRecord, created bool, err error)

	// Update saves draft as the invoice invoiceNumber; both numbers must match
	Update(ctx context.Context, invoiceNumber string, draft billing.Draft) (entity.InvoiceRecord, error)

	Get(ctx context.Context, invoiceNumber string) (entity.InvoiceRecord, error)
	List(ctx context.Context) ([]entity.InvoiceRecord, error)
	Search(ctx context.Context, term string) ([]entity.InvoiceRecord, error)
	Delete(ctx context.Context, invoiceNumber string) error

	// Preview builds the printed document of an unsaved draft
	Preview(ctx context.Context, draft billing.Draft) (export.Document, error)

	// Printable builds the printed document of a stored invoice
	Printable(ctx context.Context, invoiceNumber string) (export.Document, error)
}

// InvoiceDefaults are the values a new draft starts with
type InvoiceDefaults struct {
	TaxRate float64
	DueDays int
}

type invoiceServiceImpl struct {
	invoices  port.InvoiceRepository
	companies port.CompanyRepository
	sequencer Sequencer
	validator *billing.Validator
	documents *export.DocumentBuilder
	publisher port.MutationPublisher
	defaults  InvoiceDefaults
	now       Clock
	logger    Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices port.InvoiceRepository,
	companies port.CompanyRepository,
	sequencer Sequencer,
	validator *billing.Validator,
	documents *export.DocumentBuilder,
	publisher port.MutationPublisher,
	defaults InvoiceDefaults,
	now Clock,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		invoices:  invoices,
		companies: companies,
		sequencer: sequencer,
		validator: validator,
		documents: documents,
		publisher: publisher,
		defaults:  defaults,
		now:       orNow(now),
		logger:    logger,
	}
}

func (s *invoiceServiceImpl) NewDraft(ctx context.Context) (billing.Draft, error) {
	number, err := s.sequencer.Next(ctx)
	if err != nil {
		s.logger.Error("Failed to issue invoice number", "error", err)
		return billing.Draft{}, err
	}

	today := s.now().Format(billing.IssueDateLayout)
	return billing.Draft{
		InvoiceNumber: number,
		Date:          today,
		DueDate:       billing.CalculateDueDate(today, s.defaults.DueDays),
		Items:         []billing.LineItemDraft{{Quantity: 1}},
		TaxRate:       billing.LenientNumber(s.defaults.TaxRate),
	}, nil
}

func (s *invoiceServiceImpl) Save(ctx context.Context, draft billing.Draft) (entity.InvoiceRecord, bool, error) {
	record, err := s.validator.Validate(draft)
	if err != nil {
		s.logger.Warn("Invoice rejected", "invoice_number", draft.InvoiceNumber, "error", err)
		return entity.InvoiceRecord{}, false, err
	}

	saved, created, err := s.invoices.Save(ctx, record)
	if err != nil {
		s.logger.Error("Failed to save invoice", "invoice_number", record.InvoiceNumber, "error", err)
		return entity.InvoiceRecord{}, false, err
	}

	s.publisher.Publish(port.SaveInvoiceMutation(saved))

	s.logger.Info("Invoice saved",
		"invoice_number", saved.InvoiceNumber,
		"created", created,
		"total", saved.Total)
	return saved, created, nil
}

func (s *invoiceServiceImpl) Update(ctx context.Context, invoiceNumber string, draft billing.Draft) (entity.InvoiceRecord, error) {
	if draft.InvoiceNumber != invoiceNumber {
		return entity.InvoiceRecord{}, fmt.Errorf("%w: %q vs %q", entity.ErrNumberMismatch, invoiceNumber, draft.InvoiceNumber)
	}
	saved, _, err := s.Save(ctx, draft)
	return saved, err
}

func (s *invoiceServiceImpl) Get(ctx context.Context, invoiceNumber string) (entity.InvoiceRecord, error) {
	record, err := s.invoices.Get(ctx, invoiceNumber)
	if err != nil {
		s.logger.Error("Failed to get invoice", "invoice_number", invoiceNumber, "error", err)
		return entity.InvoiceRecord{}, err
	}
	if record == nil {
		return entity.InvoiceRecord{}, &entity.NotFoundError{InvoiceNumber: invoiceNumber}
	}
	return *record, nil
}

func (s *invoiceServiceImpl) List(ctx context.Context) ([]entity.InvoiceRecord, error) {
	return s.invoices.List(ctx)
}

func (s *invoiceServiceImpl) Search(ctx context.Context, term string) ([]entity.InvoiceRecord, error) {
	return s.invoices.Search(ctx, strings.TrimSpace(term))
}

func (s *invoiceServiceImpl) Delete(ctx context.Context, invoiceNumber string) error {
	found, err := s.invoices.Delete(ctx, invoiceNumber)
	if err != nil {
		s.logger.Error("Failed to delete invoice", "invoice_number", invoiceNumber, "error", err)
		return err
	}
	if !found {
		return &entity.NotFoundError{InvoiceNumber: invoiceNumber}
	}

	s.publisher.Publish(port.DeleteInvoiceMutation(invoiceNumber))

	s.logger.Info("Invoice deleted", "invoice_number", invoiceNumber)
	return nil
}

func (s *invoiceServiceImpl) Preview(ctx context.Context, draft billing.Draft) (export.Document, error) {
	record, err := s.validator.Validate(draft)
	if err != nil {
		return export.Document{}, err
	}
	return s.printable(ctx, record)
}

func (s *invoiceServiceImpl) Printable(ctx context.Context, invoiceNumber string) (export.Document, error) {
	record, err := s.Get(ctx, invoiceNumber)
	if err != nil {
		return export.Document{}, err
	}
	return s.printable(ctx, record)
}

func (s *invoiceServiceImpl) printable(ctx context.Context, record entity.InvoiceRecord) (export.Document, error) {
	company, err := s.companies.Load(ctx)
	if err != nil {
		return export.Document{}, fmt.Errorf("load company info: %w", err)
	}
	return s.documents.ToPrintable(record, company), nil
}
