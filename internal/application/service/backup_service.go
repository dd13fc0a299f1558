package service

import (
	"context"
	"fmt"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// BackupService exports, restores and clears all local data
type BackupService interface {
	Export(ctx context.Context) (entity.Backup, error)

	// Import replaces each section present in backup; absent sections are kept
	Import(ctx context.Context, backup entity.Backup) error

	// ClearAll removes invoices and company info. Settings and the number sequence survive.
	ClearAll(ctx context.Context) error
}

type backupServiceImpl struct {
	invoices  port.InvoiceRepository
	companies port.CompanyRepository
	txManager port.TransactionManager
	now       Clock
	logger    Logger
}

// NewBackupService creates a new BackupService
func NewBackupService(
	invoices port.InvoiceRepository,
	companies port.CompanyRepository,
	txManager port.TransactionManager,
	now Clock,
	logger Logger,
) BackupService {
	return &backupServiceImpl{
		invoices:  invoices,
		companies: companies,
		txManager: txManager,
		now:       orNow(now),
		logger:    logger,
	}
}

func (s *backupServiceImpl) Export(ctx context.Context) (entity.Backup, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return entity.Backup{}, err
	}
	company, err := s.companies.Load(ctx)
	if err != nil {
		return entity.Backup{}, err
	}

	return entity.Backup{
		Invoices:    invoices,
		CompanyInfo: &company,
		ExportDate:  s.now(),
	}, nil
}

func (s *backupServiceImpl) Import(ctx context.Context, backup entity.Backup) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if backup.Invoices != nil {
			if err := s.invoices.ReplaceAll(txCtx, backup.Invoices); err != nil {
				return fmt.Errorf("replace invoices: %w", err)
			}
		}
		if backup.CompanyInfo != nil {
			if err := s.companies.Save(txCtx, *backup.CompanyInfo); err != nil {
				return fmt.Errorf("replace company info: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to import backup", "error", err)
		return err
	}

	s.logger.Info("Backup imported",
		"invoices", len(backup.Invoices),
		"company_info", backup.CompanyInfo != nil)
	return nil
}

func (s *backupServiceImpl) ClearAll(ctx context.Context) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.invoices.Clear(txCtx); err != nil {
			return fmt.Errorf("clear invoices: %w", err)
		}
		if err := s.companies.Clear(txCtx); err != nil {
			return fmt.Errorf("clear company info: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to clear data", "error", err)
		return err
	}

	s.logger.Warn("All invoices and company info cleared")
	return nil
}
