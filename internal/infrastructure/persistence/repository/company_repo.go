package repository

import (
	"context"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// CompanyRepository implements port.CompanyRepository
type CompanyRepository struct {
	kv     port.KVStore
	logger *zap.Logger
}

// NewCompanyRepository creates a new company info repository
func NewCompanyRepository(kv port.KVStore, logger *zap.Logger) *CompanyRepository {
	return &CompanyRepository{
		kv:     kv,
		logger: logger,
	}
}

// Load returns the stored company info, or the zero value when none was saved
func (r *CompanyRepository) Load(ctx context.Context) (entity.CompanyInfo, error) {
	var info entity.CompanyInfo
	if _, err := readJSON(ctx, r.kv, KeyCompanyInfo, &info); err != nil {
		r.logger.Error("Failed to load company info", zap.Error(err))
		return entity.CompanyInfo{}, err
	}
	return info, nil
}

// Save replaces the company info wholesale
func (r *CompanyRepository) Save(ctx context.Context, info entity.CompanyInfo) error {
	if err := writeJSON(ctx, r.kv, KeyCompanyInfo, info); err != nil {
		r.logger.Error("Failed to persist company info", zap.Error(err))
		return err
	}
	return nil
}

func (r *CompanyRepository) Clear(ctx context.Context) error {
	return deleteKey(ctx, r.kv, KeyCompanyInfo)
}

var _ port.CompanyRepository = (*CompanyRepository)(nil)
