package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	App      AppConfig      `mapstructure:"app"`
	Sink     SinkConfig     `mapstructure:"sink"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AppConfig holds invoice defaults
type AppConfig struct {
	InvoicePrefix      string  `mapstructure:"invoice_prefix"`
	InvoiceNumberWidth int     `mapstructure:"invoice_number_width"`
	DefaultTaxRate     float64 `mapstructure:"default_tax_rate"`
	DefaultDueDays     int     `mapstructure:"default_due_days"`
	CurrencySymbol     string  `mapstructure:"currency_symbol"`
	Timezone           string  `mapstructure:"timezone"`
}

// SinkConfig holds replication sink configuration.
// URL only seeds the stored setting; once a URL is saved the stored value wins.
type SinkConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	SyncDelay time.Duration `mapstructure:"sync_delay"`
	QueueSize int           `mapstructure:"queue_size"`
}

// ExportConfig holds document and logo configuration
type ExportConfig struct {
	PDFFontPath     string        `mapstructure:"pdf_font_path"`
	LogoMaxBytes    int64         `mapstructure:"logo_max_bytes"`
	LogoLoadTimeout time.Duration `mapstructure:"logo_load_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configPath (optional) and the environment.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || fileExists(configPath) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("database.path", "data/invoices.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("app.invoice_prefix", "INV")
	v.SetDefault("app.invoice_number_width", 4)
	v.SetDefault("app.default_tax_rate", 10)
	v.SetDefault("app.default_due_days", 30)
	v.SetDefault("app.currency_symbol", "¥")
	v.SetDefault("app.timezone", "Local")

	v.SetDefault("sink.url", "")
	v.SetDefault("sink.timeout", 10*time.Second)
	v.SetDefault("sink.sync_delay", 100*time.Millisecond)
	v.SetDefault("sink.queue_size", 64)

	v.SetDefault("export.pdf_font_path", "")
	v.SetDefault("export.logo_max_bytes", 2<<20)
	v.SetDefault("export.logo_load_timeout", time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the short environment names
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("sink.url", "INVOICE_SINK_URL")
	_ = v.BindEnv("database.path", "INVOICE_DB_PATH")
	_ = v.BindEnv("server.port", "INVOICE_SERVER_PORT")
	_ = v.BindEnv("logger.level", "INVOICE_LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.App.InvoicePrefix == "" {
		return fmt.Errorf("app.invoice_prefix is required")
	}
	if c.App.InvoiceNumberWidth < 1 {
		return fmt.Errorf("app.invoice_number_width must be positive")
	}
	if c.App.DefaultTaxRate < 0 {
		return fmt.Errorf("app.default_tax_rate must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	if c.Sink.QueueSize < 1 {
		return fmt.Errorf("sink.queue_size must be positive")
	}
	if c.Export.LogoMaxBytes < 1 {
		return fmt.Errorf("export.logo_max_bytes must be positive")
	}
	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console")
	}
	return nil
}

// Location resolves app.timezone
func (c *Config) Location() (*time.Location, error) {
	switch c.App.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.App.Timezone)
	}
}
