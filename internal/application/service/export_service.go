package service

import (
	"context"
	"io"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/garyjia/invoice-desk/internal/export"
)

// ExportService writes the invoice collection as spreadsheet files
type ExportService interface {
	// WriteXLSX writes the invoice and item sheets and returns the download filename
	WriteXLSX(ctx context.Context, w io.Writer) (string, error)

	// WriteCSV writes the invoice sheet and returns the download filename
	WriteCSV(ctx context.Context, w io.Writer) (string, error)
}

type exportServiceImpl struct {
	invoices  port.InvoiceRepository
	projector *export.Projector
	now       Clock
	logger    Logger
}

// NewExportService creates a new ExportService
func NewExportService(invoices port.InvoiceRepository, projector *export.Projector, now Clock, logger Logger) ExportService {
	return &exportServiceImpl{
		invoices:  invoices,
		projector: projector,
		now:       orNow(now),
		logger:    logger,
	}
}

func (s *exportServiceImpl) tabular(ctx context.Context) (export.Tabular, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return export.Tabular{}, err
	}
	if len(invoices) == 0 {
		return export.Tabular{}, entity.ErrNothingToExport
	}
	return s.projector.ToTabular(invoices), nil
}

func (s *exportServiceImpl) WriteXLSX(ctx context.Context, w io.Writer) (string, error) {
	t, err := s.tabular(ctx)
	if err != nil {
		return "", err
	}
	if err := export.WriteXLSX(w, t); err != nil {
		s.logger.Error("Failed to write workbook", "error", err)
		return "", err
	}
	return export.WorkbookFilename(s.now()), nil
}

func (s *exportServiceImpl) WriteCSV(ctx context.Context, w io.Writer) (string, error) {
	t, err := s.tabular(ctx)
	if err != nil {
		return "", err
	}
	if err := export.WriteCSV(w, t.Invoices); err != nil {
		s.logger.Error("Failed to write csv", "error", err)
		return "", err
	}
	return export.CSVFilename(s.now()), nil
}
