package container

import (
	"fmt"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/application/service"
	"github.com/garyjia/invoice-desk/internal/domain/billing"
	"github.com/garyjia/invoice-desk/internal/export"
	"github.com/garyjia/invoice-desk/internal/infrastructure/external/sink"
	"github.com/garyjia/invoice-desk/internal/infrastructure/persistence/repository"
	"github.com/garyjia/invoice-desk/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/invoice-desk/internal/infrastructure/worker"
	"github.com/garyjia/invoice-desk/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Conn           *database.DB
	TransactionMgr *sqlite.DB
	KV             port.KVStore
}

// ReplicationBundle holds the sink and the worker feeding it.
type ReplicationBundle struct {
	Sink   port.ReplicationSink
	Worker *worker.ReplicationWorker
}

// ProvideDatabase opens the database, applies the embedded migrations
// and wraps the connection in a transaction manager and KV store.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(conn, logger).Run(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db := sqlite.NewDB(conn.DB, logger)

	return &DatabaseBundle{
		Conn:           conn,
		TransactionMgr: db,
		KV:             sqlite.NewKVStore(db),
	}, nil
}

// ProvideRepositories creates all repositories over one KV store.
// Read-modify-write operations run in transactions from tx.
func ProvideRepositories(kv port.KVStore, tx port.TransactionManager, logger *zap.Logger) (*RepositoryBundle, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Invoice:  repository.NewInvoiceRepository(kv, tx, time.Now, logger),
		Company:  repository.NewCompanyRepository(kv, logger),
		Settings: repository.NewSettingsRepository(kv, tx),
	}, nil
}

// ProvideReplication creates the HTTP sink and the queue worker in front of it.
// The worker is not started.
func ProvideReplication(cfg *SinkConfig, settings port.SinkURLSource, logger *zap.Logger) (*ReplicationBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sink config is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("sink url source is required")
	}

	httpSink := sink.NewHTTPSink(settings, cfg.Timeout, logger)
	replication := worker.NewReplicationWorker(
		worker.ReplicationWorkerConfig{QueueSize: cfg.QueueSize},
		httpSink,
		logger,
	)

	return &ReplicationBundle{
		Sink:   httpSink,
		Worker: replication,
	}, nil
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos       *RepositoryBundle
	TxManager   port.TransactionManager
	Replication *ReplicationBundle
	InvoiceCfg  *InvoiceConfig
	SinkCfg     *SinkConfig
	ExportCfg   *ExportConfig
	Logger      *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Replication == nil {
		return nil, fmt.Errorf("replication bundle is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	loc := deps.InvoiceCfg.Location
	if loc == nil {
		loc = time.Local
	}

	logo := service.DefaultLogoConfig()
	logo.MaxBytes = deps.ExportCfg.LogoMaxBytes

	sequencer := service.NewSequencer(deps.Repos.Settings, deps.TxManager, service.SequencerConfig{
		Prefix: deps.InvoiceCfg.Prefix,
		Width:  deps.InvoiceCfg.NumberWidth,
	})
	documents := export.NewDocumentBuilder(export.NewCurrencyFormatter(deps.InvoiceCfg.CurrencySymbol))

	return &ServiceBundle{
		Invoice: service.NewInvoiceService(
			deps.Repos.Invoice,
			deps.Repos.Company,
			sequencer,
			billing.NewValidator(),
			documents,
			deps.Replication.Worker,
			service.InvoiceDefaults{
				TaxRate: deps.InvoiceCfg.TaxRate,
				DueDays: deps.InvoiceCfg.DueDays,
			},
			time.Now,
			serviceLogger,
		),
		Company: service.NewCompanyService(
			deps.Repos.Company,
			deps.TxManager,
			deps.Replication.Worker,
			logo,
			serviceLogger,
		),
		Settings: service.NewSettingsService(deps.Repos.Settings, serviceLogger),
		Sync: service.NewSyncService(
			deps.Repos.Invoice,
			deps.Repos.Company,
			deps.Repos.Settings,
			deps.Replication.Sink,
			deps.SinkCfg.SyncDelay,
			serviceLogger,
		),
		Backup: service.NewBackupService(
			deps.Repos.Invoice,
			deps.Repos.Company,
			deps.TxManager,
			time.Now,
			serviceLogger,
		),
		Export: service.NewExportService(
			deps.Repos.Invoice,
			export.NewProjector(loc),
			time.Now,
			serviceLogger,
		),
	}, nil
}

// ProvidePDFRenderer creates the PDF document renderer.
func ProvidePDFRenderer(cfg *ExportConfig, logger *zap.Logger) *export.PDFRenderer {
	return export.NewPDFRenderer(export.PDFConfig{
		FontPath:    cfg.PDFFontPath,
		LogoTimeout: cfg.LogoLoadTimeout,
	}, logger)
}

// ProvideWorkers registers the background workers. They are not started.
func ProvideWorkers(replication *ReplicationBundle, logger *zap.Logger) (*worker.WorkerManager, error) {
	if replication == nil || replication.Worker == nil {
		return nil, fmt.Errorf("replication worker is required")
	}

	manager := worker.NewWorkerManager(logger)
	manager.Register(replication.Worker)
	return manager, nil
}
