// Command reconcile runs one reconciliation pass over a statement and
// prints the run summary. Useful for replaying a statement after invoice
// corrections without going through the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ledgerdesk/backoffice-backend/internal/application/reconcile"
	"github.com/ledgerdesk/backoffice-backend/internal/domain/matcher"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/config"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/logging"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		ownerID     = flag.Int64("owner", 0, "owner ID")
		statementID = flag.Int64("statement", 0, "statement ID to reconcile")
		dbPath      = flag.String("db", "", "database path (defaults to config)")
	)
	flag.Parse()

	if *ownerID <= 0 || *statementID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: reconcile -owner <id> -statement <id> [-db <path>]")
		os.Exit(2)
	}

	cfg := config.LoadOrEnv()
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}
	logger := logging.NewLoggerWithScope(cfg.Observability.Logging, "reconcile")

	repo, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	engine := matcher.New(matcher.Config{
		AmountTolerance: cfg.Matching.AmountTolerance,
		AcceptThreshold: cfg.Matching.AcceptThreshold,
		AmountWeight:    cfg.Matching.AmountWeight,
		VendorWeight:    cfg.Matching.VendorWeight,
		DateWeight:      cfg.Matching.DateWeight,
	})

	svc := reconcile.NewService(repo, engine, logger)
	if err := svc.Reconcile(context.Background(), *ownerID, *statementID); err != nil {
		logger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	runs, err := repo.ListRuns(1)
	if err != nil || len(runs) == 0 {
		return
	}
	run := runs[0]
	fmt.Printf("run %d: %s  total=%d matched=%d unmatched=%d skipped=%d\n",
		run.ID, run.Status, run.ItemsTotal, run.ItemsMatched, run.ItemsUnmatched, run.ItemsSkipped)
}
