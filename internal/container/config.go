// Package container provides dependency injection and lifecycle management
// for the invoice desk.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Invoice  InvoiceConfig
	Sink     SinkConfig
	Export   ExportConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// InvoiceConfig holds numbering and draft defaults.
type InvoiceConfig struct {
	Prefix         string
	NumberWidth    int
	TaxRate        float64
	DueDays        int
	CurrencySymbol string

	// Location is used for the date columns of exports
	Location *time.Location
}

// SinkConfig holds replication settings.
type SinkConfig struct {
	// URL seeds the stored sink URL on first start
	URL string

	Timeout   time.Duration
	SyncDelay time.Duration
	QueueSize int
}

// ExportConfig holds document rendering settings.
type ExportConfig struct {
	// PDFFontPath is an optional TTF font; empty falls back to Helvetica
	PDFFontPath     string
	LogoMaxBytes    int64
	LogoLoadTimeout time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/invoices.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Invoice: InvoiceConfig{
			Prefix:         "INV",
			NumberWidth:    4,
			TaxRate:        10,
			DueDays:        30,
			CurrencySymbol: "¥",
			Location:       time.Local,
		},
		Sink: SinkConfig{
			Timeout:   10 * time.Second,
			SyncDelay: 100 * time.Millisecond,
			QueueSize: 64,
		},
		Export: ExportConfig{
			LogoMaxBytes:    2 << 20,
			LogoLoadTimeout: time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Invoice.Prefix == "" {
		return fmt.Errorf("invoice prefix is required")
	}
	if c.Invoice.NumberWidth < 1 {
		return fmt.Errorf("invoice number width must be positive")
	}
	if c.Export.LogoMaxBytes < 1 {
		return fmt.Errorf("logo max bytes must be positive")
	}
	return nil
}
