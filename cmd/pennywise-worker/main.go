package main

import (
	"context"
	"errors"
	"os"
	"time"

	"pennywise/internal/backend"
	"pennywise/internal/cli"
	"pennywise/internal/log"
	"pennywise/internal/sheets"
	gsheet "pennywise/internal/sheets/google"
	"pennywise/internal/worker"
)

const jobTimeout = 5 * time.Minute

func main() {
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	logger.Info("Starting pennywise-worker")

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res, err := backend.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	// Spreadsheet export is optional.
	var writer sheets.LedgerWriter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      cfg.Google.SpreadsheetID,
			SheetName:          cfg.Google.SheetName,
			ServiceAccountJSON: cfg.Google.ServiceAccountJSON,
			ServiceAccountFile: cfg.Google.ServiceAccountFile,
			Location:           res.Location,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			_ = res.Cleanup()
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.Google.SpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ledgerWorker := worker.NewLedgerWorker(res.Store, res.Services.Predictions, writer)

	scheduler := worker.NewScheduler(ctx, res.Location, jobTimeout)
	jobs := []struct {
		name string
		spec string
		job  worker.Job
	}{
		{"weekly-reconcile", cfg.WeeklyReconcileCron, res.Services.Rewards.ReconcileAll},
		{"predictions", cfg.PredictionCron, res.Services.Predictions.RefreshAll},
		{"purge-sessions", "@hourly", func(ctx context.Context) error {
			n, err := res.Services.Auth.PurgeSessions(ctx)
			if err == nil && n > 0 {
				logger.Info("Expired sessions removed", "count", n)
			}
			return err
		}},
	}
	for _, j := range jobs {
		if err := scheduler.Add(j.name, j.spec, j.job); err != nil {
			logger.Error("Failed to schedule job", "job", j.name, "error", err)
			_ = res.Cleanup()
			os.Exit(1)
		}
	}
	scheduler.Start()

	if res.AMQP != nil {
		go func() {
			err := res.AMQP.ConsumeWithReconnect(ctx, ledgerWorker.HandleEvent)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}()
	} else {
		logger.Info("Skipping AMQP message consumption - no AMQP_URL provided")
	}

	<-ctx.Done()

	logger.Info("Shutting down worker...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	scheduler.Stop(shutdownCtx)
	logger.Info("Worker shutdown complete")
}
