package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// SyncReport tallies a bulk sync
type SyncReport struct {
	Total       int                 `json:"total"`
	Succeeded   int                 `json:"succeeded"`
	Failed      int                 `json:"failed"`
	CompanyInfo port.DispatchStatus `json:"-"`
}

// SyncService pushes every local record to the sink
type SyncService interface {
	// SyncAll forwards the company info and then every invoice, one at a time.
	// It runs to completion even if ctx is cancelled.
	SyncAll(ctx context.Context) (SyncReport, error)
}

type syncServiceImpl struct {
	invoices  port.InvoiceRepository
	companies port.CompanyRepository
	settings  port.SinkURLSource
	sink      port.ReplicationSink
	delay     time.Duration
	logger    Logger
}

// NewSyncService creates a new SyncService waiting delay between invoice forwards
func NewSyncService(
	invoices port.InvoiceRepository,
	companies port.CompanyRepository,
	settings port.SinkURLSource,
	sink port.ReplicationSink,
	delay time.Duration,
	logger Logger,
) SyncService {
	return &syncServiceImpl{
		invoices:  invoices,
		companies: companies,
		settings:  settings,
		sink:      sink,
		delay:     delay,
		logger:    logger,
	}
}

func (s *syncServiceImpl) SyncAll(ctx context.Context) (SyncReport, error) {
	ctx = context.WithoutCancel(ctx)

	url, err := s.settings.SinkURL(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("read sink url: %w", err)
	}
	if url == "" {
		return SyncReport{}, entity.ErrSinkNotConfigured
	}

	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	if len(invoices) == 0 {
		return SyncReport{}, entity.ErrNothingToSync
	}

	company, err := s.companies.Load(ctx)
	if err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{Total: len(invoices)}

	out := s.sink.Forward(ctx, port.SaveCompanyInfoMutation(company))
	report.CompanyInfo = out.Status
	if !out.OK() {
		s.logger.Warn("Company info sync failed", "error", out.Err)
	}

	for i, invoice := range invoices {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}

		out := s.sink.Forward(ctx, port.SaveInvoiceMutation(invoice))
		if out.OK() {
			report.Succeeded++
		} else {
			report.Failed++
			s.logger.Warn("Invoice sync failed", "invoice_number", invoice.InvoiceNumber, "error", out.Err)
		}
	}

	s.logger.Info("Sync completed",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", report.Failed)
	return report, nil
}
