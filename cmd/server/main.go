package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/app"
	"github.com/finekra/remittance-recon/internal/config"
	"github.com/finekra/remittance-recon/internal/engine"
	"github.com/finekra/remittance-recon/internal/grid"
	httpserver "github.com/finekra/remittance-recon/internal/interfaces/http"
	"github.com/finekra/remittance-recon/internal/report"
	"github.com/finekra/remittance-recon/pkg/utils"
)

func main() {
	gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
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

	logger.Info("Starting remittance reconciliation service",
		zap.String("region", cfg.Engine.Region),
		zap.Int("port", cfg.Server.Port))

	service := app.NewReconciliationService(engine.MatcherConfig{
		SalesWindowDays: cfg.Engine.SalesWindowDays,
		AmountTolerance: cfg.Engine.AmountTolerance,
	}, logger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxUploadMB:  cfg.Server.MaxUploadMB,
	}, service, grid.NewReader(logger), report.NewWriter(logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
