package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/garyjia/invoice-desk/internal/config"
	"github.com/garyjia/invoice-desk/internal/container"
	httpapi "github.com/garyjia/invoice-desk/internal/interfaces/http"
	"github.com/garyjia/invoice-desk/pkg/utils"
	"go.uber.org/zap"
)

var version = "1.0.0"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	httpapi.Version = version
	logger.Info("Starting invoice desk",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port))

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Server exited successfully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}

	serveErr := c.HTTPServer().Start(ctx)

	logger.Info("Shutting down")
	if err := c.Close(); err != nil {
		logger.Error("Container close failed", zap.Error(err))
	}
	return serveErr
}
