package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// SettingsService manages the replication sink endpoint
type SettingsService interface {
	SinkURL(ctx context.Context) (string, error)

	// SetSinkURL stores the endpoint; an empty value disables replication
	SetSinkURL(ctx context.Context, rawURL string) (string, error)

	// Seed stores rawURL only when no endpoint was ever saved
	Seed(ctx context.Context, rawURL string) error
}

type settingsServiceImpl struct {
	settings port.SettingsRepository
	logger   Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings port.SettingsRepository, logger Logger) SettingsService {
	return &settingsServiceImpl{
		settings: settings,
		logger:   logger,
	}
}

func (s *settingsServiceImpl) SinkURL(ctx context.Context) (string, error) {
	return s.settings.SinkURL(ctx)
}

func (s *settingsServiceImpl) SetSinkURL(ctx context.Context, rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed != "" {
		if err := checkSinkURL(trimmed); err != nil {
			return "", err
		}
	}

	if err := s.settings.SetSinkURL(ctx, trimmed); err != nil {
		s.logger.Error("Failed to save sink url", "error", err)
		return "", err
	}

	s.logger.Info("Sink url updated", "enabled", trimmed != "")
	return trimmed, nil
}

func (s *settingsServiceImpl) Seed(ctx context.Context, rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil
	}
	if err := checkSinkURL(trimmed); err != nil {
		return err
	}

	seeded, err := s.settings.SeedSinkURL(ctx, trimmed)
	if err != nil {
		return err
	}
	if seeded {
		s.logger.Info("Sink url seeded from configuration")
	}
	return nil
}

func checkSinkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", entity.ErrInvalidSinkURL, raw)
	}
	return nil
}
