package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"procurement-dashboard/internal/app"
	"procurement-dashboard/internal/config"
	"procurement-dashboard/internal/pipeline"
	"procurement-dashboard/pkg/console"
	"syscall"

	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML config (overrides PROCDASH_CONFIG_PATH)")
	workbook := flag.String("workbook", "", "path to the consolidated workbook")
	noBackup := flag.Bool("no-backup", false, "skip backing up existing outputs")
	flag.Parse()

	out := console.New(os.Stdout, true)

	cfg, err := config.Load(*configPath)
	if err != nil {
		out.Error("Config: %v", err)
		return 1
	}
	if *workbook != "" {
		cfg.Workbook = *workbook
	}
	if *noBackup {
		cfg.Backup.Enabled = false
	}

	logger := app.NewLogger(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		out.Error("Startup: %v", err)
		return 1
	}
	defer a.Close()

	out.Header("🔄 Procurement Dashboard Refresh")
	out.Info("Workbook: %s", cfg.Workbook)
	out.Info("Output directory: %s", cfg.OutputDir)

	runID := uuid.New().String()
	result, err := pipeline.Run(ctx, runID, a.Options())

	if result != nil && result.BackupDir != "" {
		out.Success("Backup created: %s", result.BackupDir)
	}
	if err != nil {
		var schemaErr *pipeline.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			out.Error("Workbook layout changed: %v", err)
		case errors.Is(err, pipeline.ErrMarkerNotFound):
			out.Error("Dashboard page has no data block: %v", err)
			out.Warning("JSON and CSV outputs were written; the HTML page is stale")
		default:
			out.Error("Refresh failed: %v", err)
		}
		return 1
	}

	s := result.Snapshot.Summary
	out.Success("Purchase requisitions: %d", s.TotalPRs)
	out.Success("Purchase orders: %d", s.TotalPOs)
	out.Success("Order acknowledgements: %d (avg TAT %.2f days)", s.TotalPOAs, s.AvgTATPOA)
	out.Success("PO releases 31: %d (avg TAT %.2f days)", s.TotalReleases31, s.AvgTATRelease31)
	out.Success("PO releases 37: %d (avg TAT %.2f days)", s.TotalReleases37, s.AvgTATRelease37)
	for _, e := range result.Exports {
		if e.Success {
			out.Info("%s → %s", e.Type, filepath.Base(e.Path))
		} else {
			out.Warning("%s → %s: %s", e.Type, e.Path, e.Error)
		}
	}
	out.Header("✅ Dashboard refresh completed")
	return 0
}
