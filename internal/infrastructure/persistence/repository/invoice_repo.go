package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// InvoiceRepository implements port.InvoiceRepository over a single KV entry
// holding the whole collection. Every mutation rewrites that entry inside a
// transaction, so it cannot interleave with an import or clear.
type InvoiceRepository struct {
	kv     port.KVStore
	tx     port.TransactionManager
	now    Clock
	logger *zap.Logger

	// mu guards the collection within the process; tx orders writers across connections
	mu sync.Mutex
}

// NewInvoiceRepository creates a new invoice repository.
// A nil tx runs mutations without a transaction.
func NewInvoiceRepository(kv port.KVStore, tx port.TransactionManager, now Clock, logger *zap.Logger) *InvoiceRepository {
	if now == nil {
		now = time.Now
	}
	return &InvoiceRepository{
		kv:     kv,
		tx:     orInline(tx),
		now:    now,
		logger: logger,
	}
}

func (r *InvoiceRepository) load(ctx context.Context) ([]entity.InvoiceRecord, error) {
	var records []entity.InvoiceRecord
	if _, err := readJSON(ctx, r.kv, KeyInvoices, &records); err != nil {
		r.logger.Error("Failed to load invoices", zap.Error(err))
		return nil, err
	}
	return records, nil
}

func (r *InvoiceRepository) store(ctx context.Context, records []entity.InvoiceRecord) error {
	if records == nil {
		records = []entity.InvoiceRecord{}
	}
	if err := writeJSON(ctx, r.kv, KeyInvoices, records); err != nil {
		r.logger.Error("Failed to persist invoices", zap.Int("count", len(records)), zap.Error(err))
		return err
	}
	return nil
}

// Save upserts record by invoice number
func (r *InvoiceRepository) Save(ctx context.Context, record entity.InvoiceRecord) (entity.InvoiceRecord, bool, error) {
	var (
		saved   entity.InvoiceRecord
		created bool
	)
	err := r.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		records, err := r.load(txCtx)
		if err != nil {
			return err
		}

		now := r.now()
		saved = record.Clone()
		saved.UpdatedAt = now

		created = true
		for i := range records {
			if records[i].InvoiceNumber == record.InvoiceNumber {
				saved.CreatedAt = records[i].CreatedAt
				records[i] = saved
				created = false
				break
			}
		}
		if created {
			saved.CreatedAt = now
			records = append(records, saved)
		}

		return r.store(txCtx, records)
	})
	if err != nil {
		return entity.InvoiceRecord{}, false, err
	}

	r.logger.Debug("Invoice saved",
		zap.String("invoice_number", saved.InvoiceNumber),
		zap.Bool("created", created))
	return saved.Clone(), created, nil
}

// Get returns the record with the number, or nil
func (r *InvoiceRepository) Get(ctx context.Context, invoiceNumber string) (*entity.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.InvoiceNumber == invoiceNumber {
			out := rec.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

// List returns all records ordered by createdAt, newest first
func (r *InvoiceRepository) List(ctx context.Context) ([]entity.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.list(ctx)
}

func (r *InvoiceRepository) list(ctx context.Context) ([]entity.InvoiceRecord, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entity.InvoiceRecord{}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes the record with the number and reports whether one existed
func (r *InvoiceRepository) Delete(ctx context.Context, invoiceNumber string) (bool, error) {
	var found bool
	err := r.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		records, err := r.load(txCtx)
		if err != nil {
			return err
		}

		kept := make([]entity.InvoiceRecord, 0, len(records))
		for _, rec := range records {
			if rec.InvoiceNumber != invoiceNumber {
				kept = append(kept, rec)
			}
		}
		if len(kept) == len(records) {
			return nil
		}

		found = true
		return r.store(txCtx, kept)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Search returns the List records whose number or customer name contains term, ignoring case
func (r *InvoiceRepository) Search(ctx context.Context, term string) ([]entity.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.list(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	if needle == "" {
		return records, nil
	}

	matched := make([]entity.InvoiceRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.InvoiceNumber), needle) ||
			strings.Contains(strings.ToLower(rec.Customer.Name), needle) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// ReplaceAll stores records as the whole collection, timestamps untouched
func (r *InvoiceRepository) ReplaceAll(ctx context.Context, records []entity.InvoiceRecord) error {
	copied := make([]entity.InvoiceRecord, len(records))
	for i, rec := range records {
		copied[i] = rec.Clone()
	}

	return r.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.store(txCtx, copied)
	})
}

// Clear removes the whole collection
func (r *InvoiceRepository) Clear(ctx context.Context) error {
	return r.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		return deleteKey(txCtx, r.kv, KeyInvoices)
	})
}

var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
