package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "INV", cfg.App.InvoicePrefix)
	assert.Equal(t, 4, cfg.App.InvoiceNumberWidth)
	assert.Equal(t, 10.0, cfg.App.DefaultTaxRate)
	assert.Equal(t, 30, cfg.App.DefaultDueDays)
	assert.Equal(t, "¥", cfg.App.CurrencySymbol)
	assert.Equal(t, 100*time.Millisecond, cfg.Sink.SyncDelay)
	assert.Equal(t, int64(2<<20), cfg.Export.LogoMaxBytes)
	assert.Equal(t, time.Second, cfg.Export.LogoLoadTimeout)
	assert.Empty(t, cfg.Sink.URL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
app:
  invoice_prefix: BILL
  timezone: Asia/Tokyo
sink:
  sync_delay: 250ms
logger:
  format: console
`), 0644))

	t.Setenv("INVOICE_SINK_URL", "https://script.example/exec")
	t.Setenv("INVOICE_DB_PATH", filepath.Join(dir, "x.db"))
	t.Setenv("INVOICE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "BILL", cfg.App.InvoicePrefix)
	assert.Equal(t, 250*time.Millisecond, cfg.Sink.SyncDelay)
	assert.Equal(t, "https://script.example/exec", cfg.Sink.URL)
	assert.Equal(t, filepath.Join(dir, "x.db"), cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logger.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INVOICE_SERVER_PORT=7001\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("INVOICE_SERVER_PORT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Path: "x.db"},
			App:      AppConfig{InvoicePrefix: "INV", InvoiceNumberWidth: 4},
			Sink:     SinkConfig{QueueSize: 1},
			Export:   ExportConfig{LogoMaxBytes: 1},
			Logger:   LoggerConfig{Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no db path", func(c *Config) { c.Database.Path = "" }},
		{"no prefix", func(c *Config) { c.App.InvoicePrefix = "" }},
		{"zero width", func(c *Config) { c.App.InvoiceNumberWidth = 0 }},
		{"negative tax", func(c *Config) { c.App.DefaultTaxRate = -1 }},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }},
		{"zero queue", func(c *Config) { c.Sink.QueueSize = 0 }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestToContainerConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INVOICE_SINK_URL", "https://sink.example/exec")

	cfg, err := Load("")
	require.NoError(t, err)

	cc := cfg.ToContainerConfig()
	require.NoError(t, cc.Validate())
	assert.Equal(t, cfg.Database.Path, cc.Database.Path)
	assert.Equal(t, "INV", cc.Invoice.Prefix)
	assert.Equal(t, 4, cc.Invoice.NumberWidth)
	assert.Equal(t, time.Local, cc.Invoice.Location)
	assert.Equal(t, "https://sink.example/exec", cc.Sink.URL)
	assert.Equal(t, 64, cc.Sink.QueueSize)
	assert.Equal(t, cfg.Export.LogoMaxBytes, cc.Export.LogoMaxBytes)
}
