package repository

import (
	"context"
	"strings"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// SettingsRepository stores plain string settings under their own keys
type SettingsRepository struct {
	kv port.KVStore
	tx port.TransactionManager
}

// NewSettingsRepository creates a new settings repository.
// A nil tx runs SeedSinkURL without a transaction.
func NewSettingsRepository(kv port.KVStore, tx port.TransactionManager) *SettingsRepository {
	return &SettingsRepository{kv: kv, tx: orInline(tx)}
}

func (r *SettingsRepository) getString(ctx context.Context, key string) (string, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return "", &entity.StorageError{Op: "read " + key, Err: err}
	}
	if !ok {
		return "", nil
	}
	return string(raw), nil
}

func (r *SettingsRepository) putString(ctx context.Context, key, value string) error {
	if err := r.kv.Put(ctx, key, []byte(value)); err != nil {
		return &entity.StorageError{Op: "write " + key, Err: err}
	}
	return nil
}

// SinkURL returns the persisted sink endpoint, empty when unset
func (r *SettingsRepository) SinkURL(ctx context.Context) (string, error) {
	return r.getString(ctx, KeySinkURL)
}

// SetSinkURL persists the trimmed endpoint. An empty value disables forwarding.
func (r *SettingsRepository) SetSinkURL(ctx context.Context, url string) error {
	return r.putString(ctx, KeySinkURL, strings.TrimSpace(url))
}

// SeedSinkURL writes url unless a sink URL, even an empty one, is already stored
func (r *SettingsRepository) SeedSinkURL(ctx context.Context, url string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, nil
	}

	var seeded bool
	err := r.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		_, ok, err := r.kv.Get(txCtx, KeySinkURL)
		if err != nil {
			return &entity.StorageError{Op: "read " + KeySinkURL, Err: err}
		}
		if ok {
			return nil
		}
		if err := r.putString(txCtx, KeySinkURL, url); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

// LastInvoiceNumber returns the high-water mark of the sequencer
func (r *SettingsRepository) LastInvoiceNumber(ctx context.Context) (string, error) {
	return r.getString(ctx, KeyLastInvoiceNumber)
}

func (r *SettingsRepository) SetLastInvoiceNumber(ctx context.Context, number string) error {
	return r.putString(ctx, KeyLastInvoiceNumber, number)
}

var _ port.SettingsRepository = (*SettingsRepository)(nil)
