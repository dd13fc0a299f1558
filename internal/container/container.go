package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/application/service"
	"github.com/garyjia/invoice-desk/internal/export"
	"github.com/garyjia/invoice-desk/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/invoice-desk/internal/infrastructure/worker"
	httpapi "github.com/garyjia/invoice-desk/internal/interfaces/http"
	"github.com/garyjia/invoice-desk/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialised in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	conn         *database.DB
	db           *sqlite.DB
	kv           port.KVStore
	repositories *RepositoryBundle

	// Infrastructure - External
	replication *ReplicationBundle
	pdf         *export.PDFRenderer

	// Application
	services *ServiceBundle

	// Workers
	workers *worker.WorkerManager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Invoice  port.InvoiceRepository
	Company  port.CompanyRepository
	Settings port.SettingsRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Invoice  service.InvoiceService
	Company  service.CompanyService
	Settings service.SettingsService
	Sync     service.SyncService
	Backup   service.BackupService
	Export   service.ExportService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database and repositories
// 2. Replication sink
// 3. Application services
// 4. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize database: %w", err))
	}
	c.logger.Info("Database initialized")

	if err := c.initReplication(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize replication: %w", err))
	}
	c.logger.Info("Replication initialized")

	if err := c.initServices(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize services: %w", err))
	}
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		return c.abort(fmt.Errorf("failed to initialize workers: %w", err))
	}
	c.logger.Info("Workers initialized and started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// abort releases the database after a failed start
func (c *Container) abort(err error) error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	return err
}

// Close gracefully shuts down all components in reverse order.
// Workers drain their queues before the database closes.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.conn != nil {
		if err := c.conn.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	if c.workers != nil {
		status.Components["workers"] = ComponentHealth{
			Healthy: c.workers.IsRunning(),
			Message: fmt.Sprintf("worker count: %d", c.workers.WorkerCount()),
		}
		if !c.workers.IsRunning() {
			status.Overall = false
		}
	} else {
		status.Components["workers"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	if c.replication != nil {
		dispatched, failed, dropped := c.replication.Worker.Stats()
		status.Components["replication"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("dispatched: %d, failed: %d, dropped: %d", dispatched, failed, dropped),
		}
	}

	return status
}

// initDatabase opens the database and builds the repositories.
func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.conn = dbBundle.Conn
	c.db = dbBundle.TransactionMgr
	c.kv = dbBundle.KV

	repos, err := ProvideRepositories(c.kv, c.db, c.logger)
	if err != nil {
		return err
	}

	c.repositories = repos
	return nil
}

// initReplication builds the sink and its queue worker.
func (c *Container) initReplication() error {
	replication, err := ProvideReplication(&c.config.Sink, c.repositories.Settings, c.logger)
	if err != nil {
		return err
	}
	c.replication = replication
	c.pdf = ProvidePDFRenderer(&c.config.Export, c.logger)
	return nil
}

// initServices builds the application services and seeds the sink URL.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:       c.repositories,
		TxManager:   c.db,
		Replication: c.replication,
		InvoiceCfg:  &c.config.Invoice,
		SinkCfg:     &c.config.Sink,
		ExportCfg:   &c.config.Export,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}

	if err := services.Settings.Seed(c.ctx, c.config.Sink.URL); err != nil {
		return fmt.Errorf("failed to seed sink url: %w", err)
	}

	c.services = services
	return nil
}

// initWorkers registers and starts the background workers.
func (c *Container) initWorkers() error {
	workers, err := ProvideWorkers(c.replication, c.logger)
	if err != nil {
		return err
	}
	c.workers = workers

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	return nil
}

// Getters for accessing container components

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// HTTPServer builds the API server over the container's services.
func (c *Container) HTTPServer() *httpapi.Server {
	logger := &zapLoggerAdapter{logger: c.logger}
	handlers := httpapi.NewHandlers(httpapi.Services{
		Invoices: c.services.Invoice,
		Company:  c.services.Company,
		Settings: c.services.Settings,
		Sync:     c.services.Sync,
		Backup:   c.services.Backup,
		Export:   c.services.Export,
	}, c.pdf, logger)

	return httpapi.NewServer(httpapi.ServerConfig{
		Host:         c.config.Server.Host,
		Port:         c.config.Server.Port,
		ReadTimeout:  c.config.Server.ReadTimeout,
		WriteTimeout: c.config.Server.WriteTimeout,
	}, handlers, logger)
}

// zapLoggerAdapter adapts zap.Logger to the service and HTTP Logger interfaces.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
