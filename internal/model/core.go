package model

import "time"

// SnapshotSummary is the cross-stage totals and averages block
type SnapshotSummary struct {
	TotalPRs        int     `json:"total_prs"`
	TotalPOs        int     `json:"total_pos"`
	TotalPOAs       int     `json:"total_poas"`
	TotalReleases31 int     `json:"total_releases_31"`
	TotalReleases37 int     `json:"total_releases_37"`
	AvgTATPOA       float64 `json:"avg_tat_poa"`
	AvgTATRelease31 float64 `json:"avg_tat_release_31"`
	AvgTATRelease37 float64 `json:"avg_tat_release_37"`
}

// DashboardSnapshot is the single persisted report of a run
type DashboardSnapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     SnapshotSummary `json:"summary"`
	PRCreate    StageSummary    `json:"pr_create"`
	POCreate    StageSummary    `json:"po_create"`
	POA         StageSummary    `json:"poa"`
	Release31   StageSummary    `json:"release_31"`
	Release37   StageSummary    `json:"release_37"`
}

// TotalRecords sums the record counts of all five stages.
func (s DashboardSnapshot) TotalRecords() int {
	return s.Summary.TotalPRs + s.Summary.TotalPOs + s.Summary.TotalPOAs +
		s.Summary.TotalReleases31 + s.Summary.TotalReleases37
}

// AvgProcessingTime is the per-stage average TAT in days
type AvgProcessingTime struct {
	POA       float64 `json:"poa"`
	Release31 float64 `json:"release_31"`
	Release37 float64 `json:"release_37"`
}

// SLACompliance is the per-stage share of records done within one day
type SLACompliance struct {
	POAUnder1Day     float64 `json:"poa_under_1day"`
	Release31SameDay float64 `json:"release_31_same_day"`
	Release37SameDay float64 `json:"release_37_same_day"`
}

// ProcessMetrics are the derived cross-stage rates
type ProcessMetrics struct {
	PRToPOConversion  float64           `json:"pr_to_po_conversion"`
	BotAutomationRate float64           `json:"bot_automation_rate"`
	AvgProcessingTime AvgProcessingTime `json:"avg_processing_time"`
	SLACompliance     SLACompliance     `json:"sla_compliance"`
}

// MetricsDocument is the metrics output file
type MetricsDocument struct {
	ProcessMetrics ProcessMetrics `json:"process_metrics"`
}

// QueueDocument seeds the downstream automation queue
type QueueDocument struct {
	PendingPOAs     int `json:"pending_poas"`
	ManualPOAs      int `json:"manual_poas"`
	PendingReleases int `json:"pending_releases"`
	HighTATPOAs     int `json:"high_tat_poas"`
	HighTATR31      int `json:"high_tat_r31"`
	HighTATR37      int `json:"high_tat_r37"`
}
