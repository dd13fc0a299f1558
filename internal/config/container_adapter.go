package config

import (
	"time"

	"github.com/garyjia/invoice-desk/internal/container"
)

// ToContainerConfig converts the loaded Config to a container.Config.
// Location must already validate; an unknown zone falls back to local time.
func (c *Config) ToContainerConfig() *container.Config {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}

	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Invoice: container.InvoiceConfig{
			Prefix:         c.App.InvoicePrefix,
			NumberWidth:    c.App.InvoiceNumberWidth,
			TaxRate:        c.App.DefaultTaxRate,
			DueDays:        c.App.DefaultDueDays,
			CurrencySymbol: c.App.CurrencySymbol,
			Location:       loc,
		},
		Sink: container.SinkConfig{
			URL:       c.Sink.URL,
			Timeout:   c.Sink.Timeout,
			SyncDelay: c.Sink.SyncDelay,
			QueueSize: c.Sink.QueueSize,
		},
		Export: container.ExportConfig{
			PDFFontPath:     c.Export.PDFFontPath,
			LogoMaxBytes:    c.Export.LogoMaxBytes,
			LogoLoadTimeout: c.Export.LogoLoadTimeout,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
	}
}
