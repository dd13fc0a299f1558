package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_WithTransactionSerializesWriters(t *testing.T) {
	ctx := context.Background()
	db := newPooledTestDB(t, 4)
	store := NewKVStore(db)
	require.NoError(t, store.Put(ctx, "counter", []byte("0")))

	increment := func() error {
		return db.WithTransaction(ctx, func(txCtx context.Context) error {
			value, _, err := store.Get(txCtx, "counter")
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(string(value))
			if err != nil {
				return err
			}
			time.Sleep(20 * time.Millisecond)
			return store.Put(txCtx, "counter", []byte(strconv.Itoa(n+1)))
		})
	}

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- increment()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	value, _, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(writers), string(value))
}

func TestDB_WithTransactionReturnsFnError(t *testing.T) {
	db := newTestDB(t)
	boom := errors.New("boom")

	err := db.WithTransaction(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	// the write lock is released after a rollback
	err = db.WithTransaction(context.Background(), func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestDB_BeginHonoursCancelledContext(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := db.WithTransaction(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"locked wrapped", fmt.Errorf("begin: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), true},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"other", errors.New("disk full"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBusy(tt.err))
		})
	}
}
