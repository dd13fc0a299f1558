package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_Save(t *testing.T) {
	base := filepath.Join(t.TempDir(), "exports")
	fs := NewLocalFileStorage(base, zap.NewNop())

	require.NoError(t, fs.Save(context.Background(), "invoices_20240501.csv", []byte("a,b\n")))

	content, err := os.ReadFile(filepath.Join(base, "invoices_20240501.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestLocalFileStorage_Overwrite(t *testing.T) {
	base := t.TempDir()
	fs := NewLocalFileStorage(base, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, "out.json", []byte("old")))
	require.NoError(t, fs.Save(ctx, "out.json", []byte("new")))

	content, err := os.ReadFile(fs.GetFullPath("out.json"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestLocalFileStorage_RejectsEscape(t *testing.T) {
	fs := NewLocalFileStorage(t.TempDir(), zap.NewNop())

	assert.Error(t, fs.Save(context.Background(), "../outside.csv", []byte("x")))
	assert.Error(t, fs.Save(context.Background(), ".", []byte("x")))
}

func TestLocalFileStorage_CancelledContext(t *testing.T) {
	fs := NewLocalFileStorage(t.TempDir(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, fs.Save(ctx, "x.csv", []byte("x")), context.Canceled)
}
