package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-desk/internal/application/port"
)

type contextKey string

const txKey contextKey = "tx"

const (
	defaultBeginAttempts = 5
	defaultRetryDelay    = 50 * time.Millisecond
)

// DB wraps sql.DB and implements port.TransactionManager.
//
// Write transactions from this process run one at a time. The DSN's
// immediate lock mode takes the SQLite write lock at BEGIN, which orders
// them against other processes sharing the file (the CLI and the server).
// Every read-modify-write of a stored collection runs inside one.
type DB struct {
	*sql.DB
	logger *zap.Logger

	writeMu       sync.Mutex
	beginAttempts int
	retryDelay    time.Duration
}

// NewDB creates a new database wrapper
func NewDB(sqlDB *sql.DB, logger *zap.Logger) *DB {
	return &DB{
		DB:            sqlDB,
		logger:        logger,
		beginAttempts: defaultBeginAttempts,
		retryDelay:    defaultRetryDelay,
	}
}

// WithTransaction runs fn inside a write transaction carried on the context.
// A ctx that already carries one joins it, so repository calls made from
// inside an outer transaction commit or roll back with it.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.begin(ctx)
	if err != nil {
		db.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			db.logger.Error("Transaction panicked, rolled back", zap.Any("panic", p))
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		db.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// begin retries when another process still holds the write lock after the busy timeout
func (db *DB) begin(ctx context.Context) (*sql.Tx, error) {
	var lastErr error
	for attempt := 1; attempt <= db.beginAttempts; attempt++ {
		tx, err := db.BeginTx(ctx, nil)
		if err == nil {
			return tx, nil
		}
		if !isBusy(err) {
			return nil, err
		}
		lastErr = err
		db.logger.Debug("Database busy, retrying begin", zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(db.retryDelay * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// inTransaction reports whether ctx carries a transaction from WithTransaction
func inTransaction(ctx context.Context) bool {
	return extractTx(ctx) != nil
}

func extractTx(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey).(*sql.Tx)
	return tx
}

// getExecutor returns the context's transaction, or the pool when there is none
func (db *DB) getExecutor(ctx context.Context) executor {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return db.DB
}

// executor covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var _ port.TransactionManager = (*DB)(nil)
