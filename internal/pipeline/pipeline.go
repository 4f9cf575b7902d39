package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/pkg/utils"
	"time"
)

// Ledger records the lifecycle of refresh runs
type Ledger interface {
	SaveRun(ctx context.Context, runID, workbook string) error
	UpdateRunStatus(ctx context.Context, runID, status string) error
	SetBackupDir(ctx context.Context, runID, dir string) error
	FinishRun(ctx context.Context, runID, status string, runErr error) error
}

// QueuePublisher hands the queue document to the downstream automation queue
type QueuePublisher interface {
	Publish(ctx context.Context, key string, doc model.QueueDocument) error
	Topic() string
}

// Options configure one refresh run
type Options struct {
	Workbook     string
	OutputDir    string
	Files        model.OutputFiles
	Backup       bool
	BackupPrefix string
	Stages       model.StageTable
	Retry        model.RetryPolicy // publish and archive only

	Ledger    Ledger         // optional
	Publisher QueuePublisher // optional
	Archiver  Archiver       // optional, mirrors the backup directory
	Logger    *slog.Logger
	Now       func() time.Time
}

// ------------------- Pipeline Runner -------------------

// Run performs one full refresh: backup, compose, write side files, update
// the dashboard page. Steps run strictly in sequence and cancellation is
// checked between them. A stage failure aborts before anything is
// written; a dashboard or publish failure is returned after the JSON and
// CSV files are already on disk.
func Run(ctx context.Context, runID string, opts Options) (result *model.RunResult, err error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", runID)
	ledger := opts.Ledger
	if ledger == nil {
		ledger = noopLedger{}
	}

	result = &model.RunResult{
		RunID:     runID,
		Workbook:  opts.Workbook,
		StartedAt: now(),
	}
	em := NewExportManager(opts.OutputDir, logger)
	tracker := newRunTracker(runID, ledger, logger, now)

	logger.Info("starting refresh", "workbook", opts.Workbook, "output_dir", opts.OutputDir)
	if lerr := ledger.SaveRun(ctx, runID, opts.Workbook); lerr != nil {
		logger.Warn("ledger unavailable", "error", lerr)
	}

	// Defer function to handle status updates on completion/error
	defer func() {
		status := model.RunStatusCompleted
		if err != nil {
			status = model.RunStatusFailed
		}
		tracker.EndStep(status)
		result.FinishedAt = now()
		result.Exports = em.Results
		result.Steps = tracker.Steps()
		if err != nil {
			logger.Error("refresh failed", "error", err)
		} else {
			logger.Info("refresh completed", "duration", result.FinishedAt.Sub(result.StartedAt))
		}
		// the run context may already be cancelled
		if lerr := ledger.FinishRun(context.Background(), runID, status, err); lerr != nil {
			logger.Warn("ledger update failed", "error", lerr)
		}
	}()

	if _, statErr := os.Stat(opts.Workbook); statErr != nil {
		return result, ioError("open workbook", opts.Workbook, statErr)
	}

	om := utils.NewOutputManager(opts.OutputDir, opts.BackupPrefix)
	if err := om.EnsureOutputDirExists(); err != nil {
		return result, ioError("create output dir", opts.OutputDir, err)
	}

	// --- BACKUP ---
	if opts.Backup {
		tracker.StartStep(ctx, model.RunStatusBackingUp)
		backup, err := BackupOutputs(om, opts.Files.BackupSet(), now())
		if err != nil {
			return result, fmt.Errorf("backup: %w", err)
		}
		result.BackupDir = backup.Dir
		logger.Info("backup created", "dir", backup.Dir, "files", len(backup.Copied))
		if lerr := ledger.SetBackupDir(ctx, runID, backup.Dir); lerr != nil {
			logger.Warn("ledger update failed", "error", lerr)
		}
		if opts.Archiver != nil {
			n := 0
			aerr := Retry(ctx, opts.Retry, "archive backup", logger, func(ctx context.Context) error {
				var err error
				n, err = opts.Archiver.Archive(ctx, backup.Dir)
				return err
			})
			em.Record("gcs", opts.Archiver.Location(), n, aerr)
		}
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// --- AGGREGATION ---
	tracker.StartStep(ctx, model.RunStatusProcessing)
	wb, err := OpenWorkbook(opts.Workbook)
	if err != nil {
		return result, err
	}
	defer wb.Close()

	composer := NewComposer(opts.Stages, logger)
	composer.Now = now
	report, err := composer.Compose(ctx, wb)
	if err != nil {
		return result, err
	}
	result.Snapshot = report.Snapshot
	result.Queue = report.Queue
	result.Metrics = report.Metrics
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// --- EXPORT ---
	tracker.StartStep(ctx, model.RunStatusExporting)
	if err := em.ExportJSON(opts.Files.Snapshot, report.Snapshot, report.Snapshot.TotalRecords()); err != nil {
		return result, err
	}
	if err := em.ExportJSON(opts.Files.Queue, report.Queue, 1); err != nil {
		return result, err
	}
	if err := em.ExportJSON(opts.Files.Metrics, report.Metrics, 1); err != nil {
		return result, err
	}
	for _, stage := range report.Stages {
		if stage.Stage.ExportFile == "" {
			continue
		}
		if err := em.ExportCSV(stage.Stage.ExportFile, stage.Records); err != nil {
			return result, err
		}
	}

	// --- DASHBOARD ---
	tracker.StartStep(ctx, model.RunStatusUpdating)
	dashboardPath := em.Path(opts.Files.Dashboard)
	if err := UpdateDashboard(dashboardPath, report.Snapshot); err != nil {
		em.Record("html", dashboardPath, 0, err)
		return result, fmt.Errorf("dashboard not updated (side files already written): %w", err)
	}
	em.Record("html", dashboardPath, report.Snapshot.TotalRecords(), nil)
	result.DashboardUpdated = true

	// --- QUEUE ---
	if opts.Publisher != nil {
		tracker.StartStep(ctx, model.RunStatusPublishing)
		perr := Retry(ctx, opts.Retry, "publish queue document", logger, func(ctx context.Context) error {
			return opts.Publisher.Publish(ctx, runID, report.Queue)
		})
		em.Record("kafka", opts.Publisher.Topic(), 1, perr)
		if perr != nil {
			return result, fmt.Errorf("publish queue document: %w", perr)
		}
	}

	return result, nil
}

type noopLedger struct{}

func (noopLedger) SaveRun(context.Context, string, string) error { return nil }

func (noopLedger) UpdateRunStatus(context.Context, string, string) error { return nil }

func (noopLedger) SetBackupDir(context.Context, string, string) error { return nil }

func (noopLedger) FinishRun(context.Context, string, string, error) error { return nil }
