package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerdesk/backoffice-backend/internal/adapters/accounting"
	"github.com/ledgerdesk/backoffice-backend/internal/adapters/filestore"
	"github.com/ledgerdesk/backoffice-backend/internal/adapters/parser"
	"github.com/ledgerdesk/backoffice-backend/internal/api"
	"github.com/ledgerdesk/backoffice-backend/internal/application/reconcile"
	"github.com/ledgerdesk/backoffice-backend/internal/application/statement"
	"github.com/ledgerdesk/backoffice-backend/internal/application/tasks"
	"github.com/ledgerdesk/backoffice-backend/internal/domain/matcher"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/config"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/logging"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadOrEnv()
	logger := logging.NewLogger(cfg.Observability.Logging)

	repo, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	files, err := filestore.NewDir(cfg.Storage.FilesDir)
	if err != nil {
		logger.Error("failed to initialize file store", "error", err)
		os.Exit(1)
	}

	engine := matcher.New(matcher.Config{
		AmountTolerance: cfg.Matching.AmountTolerance,
		AcceptThreshold: cfg.Matching.AcceptThreshold,
		AmountWeight:    cfg.Matching.AmountWeight,
		VendorWeight:    cfg.Matching.VendorWeight,
		DateWeight:      cfg.Matching.DateWeight,
	})

	reconciler := reconcile.NewService(repo, engine,
		logging.NewLoggerWithScope(cfg.Observability.Logging, "reconcile"))

	runner := tasks.NewRunner(logging.NewLoggerWithScope(cfg.Observability.Logging, "tasks"), 64)
	defer runner.Close()

	statements := statement.NewService(repo, files, parser.NewCSV(), reconciler, runner,
		logging.NewLoggerWithScope(cfg.Observability.Logging, "statement"))

	var pusher accounting.Pusher
	if cfg.Accounting.BaseURL != "" {
		pusher = accounting.NewClient(accounting.ClientConfig{
			BaseURL:  cfg.Accounting.BaseURL,
			Token:    cfg.Accounting.Token,
			CacheTTL: time.Duration(cfg.Accounting.CacheTTLSeconds) * time.Second,
		}, logging.NewLoggerWithScope(cfg.Observability.Logging, "accounting"))
	}

	server := api.NewServer(cfg.Server, statements, repo, pusher,
		logging.NewLoggerWithScope(cfg.Observability.Logging, "api"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
