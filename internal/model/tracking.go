package model

import "time"

// Run statuses recorded in the ledger
const (
	RunStatusPending    = "pending"
	RunStatusBackingUp  = "backing_up"
	RunStatusProcessing = "processing"
	RunStatusExporting  = "exporting"
	RunStatusUpdating   = "updating_dashboard"
	RunStatusPublishing = "publishing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// ExportResult represents the result of one output write
type ExportResult struct {
	Type        string    `json:"type"` // "json", "csv", "html", "kafka", "gcs"
	Path        string    `json:"path"` // file path, topic or object prefix
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// StepTiming records how long one step of a run took
type StepTiming struct {
	Step       string    `json:"step"`
	Status     string    `json:"status"` // "running", "completed", "failed"
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}

// RunResult summarises one refresh run
type RunResult struct {
	RunID            string            `json:"run_id"`
	Workbook         string            `json:"workbook"`
	BackupDir        string            `json:"backup_dir,omitempty"`
	StartedAt        time.Time         `json:"started_at"`
	FinishedAt       time.Time         `json:"finished_at"`
	Snapshot         DashboardSnapshot `json:"snapshot"`
	Queue            QueueDocument     `json:"queue"`
	Metrics          MetricsDocument   `json:"metrics"`
	Exports          []ExportResult    `json:"exports"`
	Steps            []StepTiming      `json:"steps"`
	DashboardUpdated bool              `json:"dashboard_updated"`
}

// RunRecord is one row of the run ledger
type RunRecord struct {
	ID         string     `json:"id"`
	Workbook   string     `json:"workbook"`
	Status     string     `json:"status"`
	BackupDir  string     `json:"backup_dir,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
