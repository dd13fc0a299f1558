package service

import (
	"context"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// CompanyService manages the issuing company info
type CompanyService interface {
	// Load returns the stored info, or the empty shape
	Load(ctx context.Context) (entity.CompanyInfo, error)

	// Save replaces the info wholesale and mirrors it to the sink
	Save(ctx context.Context, info entity.CompanyInfo) (entity.CompanyInfo, error)

	// SetLogo validates and normalises an uploaded image, then saves it as the logo
	SetLogo(ctx context.Context, data []byte) (entity.CompanyInfo, error)
}

type companyServiceImpl struct {
	companies port.CompanyRepository
	txManager port.TransactionManager
	publisher port.MutationPublisher
	logo      LogoConfig
	logger    Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companies port.CompanyRepository,
	txManager port.TransactionManager,
	publisher port.MutationPublisher,
	logo LogoConfig,
	logger Logger,
) CompanyService {
	return &companyServiceImpl{
		companies: companies,
		txManager: txManager,
		publisher: publisher,
		logo:      logo,
		logger:    logger,
	}
}

func (s *companyServiceImpl) Load(ctx context.Context) (entity.CompanyInfo, error) {
	info, err := s.companies.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load company info", "error", err)
		return entity.CompanyInfo{}, err
	}
	return info, nil
}

func (s *companyServiceImpl) Save(ctx context.Context, info entity.CompanyInfo) (entity.CompanyInfo, error) {
	if err := s.companies.Save(ctx, info); err != nil {
		s.logger.Error("Failed to save company info", "error", err)
		return entity.CompanyInfo{}, err
	}

	s.publisher.Publish(port.SaveCompanyInfoMutation(info))

	s.logger.Info("Company info saved", "name", info.Name, "has_logo", info.Logo != "")
	return info, nil
}

func (s *companyServiceImpl) SetLogo(ctx context.Context, data []byte) (entity.CompanyInfo, error) {
	logo, err := normalizeLogo(data, s.logo)
	if err != nil {
		s.logger.Warn("Logo rejected", "bytes", len(data), "error", err)
		return entity.CompanyInfo{}, err
	}

	// load and save in one transaction
	var info entity.CompanyInfo
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.companies.Load(txCtx)
		if err != nil {
			return err
		}
		current.Logo = logo
		if err := s.companies.Save(txCtx, current); err != nil {
			return err
		}
		info = current
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to save company logo", "error", err)
		return entity.CompanyInfo{}, err
	}

	s.publisher.Publish(port.SaveCompanyInfoMutation(info))

	s.logger.Info("Company logo updated", "name", info.Name)
	return info, nil
}
