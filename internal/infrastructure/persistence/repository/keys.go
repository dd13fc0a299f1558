package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// Keys of the local persisted state
const (
	KeyInvoices          = "invoices"
	KeyCompanyInfo       = "company_info"
	KeySinkURL           = "sink_url"
	KeyLastInvoiceNumber = "last_invoice_number"
)

// Clock returns the current time
type Clock func() time.Time

// readJSON decodes key into dst. It reports false when the key is absent.
func readJSON(ctx context.Context, kv port.KVStore, key string, dst interface{}) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, &entity.StorageError{Op: "read " + key, Err: err}
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, &entity.StorageError{Op: "decode " + key, Err: err}
	}
	return true, nil
}

// writeJSON serialises v whole and stores it under key
func writeJSON(ctx context.Context, kv port.KVStore, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &entity.StorageError{Op: "encode " + key, Err: err}
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return &entity.StorageError{Op: "write " + key, Err: err}
	}
	return nil
}

func deleteKey(ctx context.Context, kv port.KVStore, key string) error {
	if err := kv.Delete(ctx, key); err != nil {
		return &entity.StorageError{Op: "delete " + key, Err: err}
	}
	return nil
}

// inlineTx runs fn on the caller's context without a transaction
type inlineTx struct{}

func (inlineTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func orInline(tx port.TransactionManager) port.TransactionManager {
	if tx == nil {
		return inlineTx{}
	}
	return tx
}
