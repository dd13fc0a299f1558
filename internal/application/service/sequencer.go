package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/garyjia/invoice-desk/internal/application/port"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// Sequencer issues invoice numbers
type Sequencer interface {
	// Next persists and returns the number after the last issued one.
	// An issued number is never handed out again, whether or not an invoice uses it.
	Next(ctx context.Context) (string, error)
}

// SequencerConfig holds the invoice number format
type SequencerConfig struct {
	Prefix string
	Width  int
}

type sequencerImpl struct {
	settings  port.SettingsRepository
	txManager port.TransactionManager
	config    SequencerConfig
	mu        sync.Mutex
}

// NewSequencer creates a sequencer keeping its high-water mark in settings.
// Each read-increment-write runs in one transaction so separate processes never issue the same number.
func NewSequencer(settings port.SettingsRepository, txManager port.TransactionManager, config SequencerConfig) Sequencer {
	return &sequencerImpl{
		settings:  settings,
		txManager: txManager,
		config:    config,
	}
}

func (s *sequencerImpl) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var number string
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		last, err := s.settings.LastInvoiceNumber(txCtx)
		if err != nil {
			return fmt.Errorf("read last invoice number: %w", err)
		}

		next := 1
		if digits := trailingDigits.FindString(last); digits != "" {
			if n, err := strconv.Atoi(digits); err == nil {
				next = n + 1
			}
		}

		number = fmt.Sprintf("%s-%0*d", s.config.Prefix, s.config.Width, next)
		if err := s.settings.SetLastInvoiceNumber(txCtx, number); err != nil {
			return fmt.Errorf("persist invoice number: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return number, nil
}
