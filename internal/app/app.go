// Package app wires configuration into the refresh pipeline's collaborators.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"procurement-dashboard/internal/archive"
	"procurement-dashboard/internal/config"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/internal/pipeline"
	"procurement-dashboard/internal/queue"
	"procurement-dashboard/internal/store"
	"strings"
)

// App holds the collaborators built from one configuration.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Ledger    *store.DB            // nil when disabled
	Publisher *queue.Publisher     // nil when disabled
	Archiver  *archive.GCSArchiver // nil when disabled
}

// NewLogger builds a text logger at the configured level.
func NewLogger(out io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a level name to slog; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New opens the optional ledger, publisher and archiver named by cfg.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if strings.TrimSpace(cfg.Workbook) == "" {
		return nil, errors.New("workbook path cannot be empty")
	}
	a := &App{Config: cfg, Logger: logger}

	if cfg.DB.Path != "" {
		db, err := store.InitDB(cfg.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("run ledger init: %w", err)
		}
		a.Ledger = db
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.Publisher = queue.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info("queue publisher configured", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	if cfg.Backup.Enabled && cfg.Backup.GCSBucket != "" {
		arch, err := archive.NewGCSArchiver(ctx, cfg.Backup.GCSBucket, cfg.Backup.GCSPrefix, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("backup archiver init: %w", err)
		}
		a.Archiver = arch
		logger.Info("backup mirror configured", "location", arch.Location())
	}
	return a, nil
}

// Options returns the pipeline options for a run over the configured workbook.
// Interface fields stay nil when the collaborator is disabled.
func (a *App) Options() pipeline.Options {
	opts := pipeline.Options{
		Workbook:     a.Config.Workbook,
		OutputDir:    a.Config.OutputDir,
		Files:        a.Config.Files,
		Backup:       a.Config.Backup.Enabled,
		BackupPrefix: a.Config.Backup.Prefix,
		Stages:       model.DefaultStageTable(),
		Retry:        a.Config.Retry,
		Logger:       a.Logger,
	}
	if a.Ledger != nil {
		opts.Ledger = a.Ledger
	}
	if a.Publisher != nil {
		opts.Publisher = a.Publisher
	}
	if a.Archiver != nil {
		opts.Archiver = a.Archiver
	}
	return opts
}

// Close releases every opened collaborator.
func (a *App) Close() error {
	var errs []error
	if a.Ledger != nil {
		errs = append(errs, a.Ledger.Close())
	}
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.Archiver != nil {
		errs = append(errs, a.Archiver.Close())
	}
	return errors.Join(errs...)
}
