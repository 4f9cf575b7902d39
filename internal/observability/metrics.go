// Package observability exposes the latest snapshot figures as Prometheus gauges.
package observability

import (
	"procurement-dashboard/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gauges refreshed after every successful run.
type Metrics struct {
	StageTotal        *prometheus.GaugeVec
	StageAvgTAT       *prometheus.GaugeVec
	SLACompliance     *prometheus.GaugeVec
	Conversion        prometheus.Gauge
	AutomationRate    prometheus.Gauge
	LastRefresh       prometheus.Gauge
	RefreshRuns       *prometheus.CounterVec
	PendingQueueItems *prometheus.GaugeVec
}

// NewMetrics registers the gauges with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "stage_records",
			Help:      "Records in each procurement stage sheet.",
		}, []string{"stage"}),
		StageAvgTAT: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "stage_avg_tat_days",
			Help:      "Average turnaround in days per stage.",
		}, []string{"stage"}),
		SLACompliance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "sla_compliance_percent",
			Help:      "Share of stage records completed within one day.",
		}, []string{"stage"}),
		Conversion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "pr_to_po_conversion_percent",
			Help:      "Purchase orders created per purchase requisition.",
		}),
		AutomationRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "bot_automation_percent",
			Help:      "Share of acknowledgements processed by the bot channel.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Generation time of the latest snapshot.",
		}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Name:      "refresh_runs_total",
			Help:      "Refresh runs by outcome.",
		}, []string{"status"}),
		PendingQueueItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "procurement",
			Name:      "queue_items",
			Help:      "Counts handed to the automation queue.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.StageTotal, m.StageAvgTAT, m.SLACompliance, m.Conversion,
		m.AutomationRate, m.LastRefresh, m.RefreshRuns, m.PendingQueueItems)
	return m
}

// Observe counts a finished run and, when it produced a snapshot, updates
// the gauges from it.
func (m *Metrics) Observe(res *model.RunResult, status string) {
	m.RefreshRuns.WithLabelValues(status).Inc()
	if res == nil || res.Snapshot.GeneratedAt.IsZero() {
		return
	}
	snap := res.Snapshot

	stages := map[string]model.StageSummary{
		"pr_create":  snap.PRCreate,
		"po_create":  snap.POCreate,
		"poa":        snap.POA,
		"release_31": snap.Release31,
		"release_37": snap.Release37,
	}
	for name, s := range stages {
		m.StageTotal.WithLabelValues(name).Set(float64(s.Total))
		if s.TAT != nil {
			m.StageAvgTAT.WithLabelValues(name).Set(s.TAT.Avg)
		}
	}

	pm := res.Metrics.ProcessMetrics
	m.Conversion.Set(pm.PRToPOConversion)
	m.AutomationRate.Set(pm.BotAutomationRate)
	m.SLACompliance.WithLabelValues("poa").Set(pm.SLACompliance.POAUnder1Day)
	m.SLACompliance.WithLabelValues("release_31").Set(pm.SLACompliance.Release31SameDay)
	m.SLACompliance.WithLabelValues("release_37").Set(pm.SLACompliance.Release37SameDay)
	m.LastRefresh.Set(float64(snap.GeneratedAt.Unix()))

	m.PendingQueueItems.WithLabelValues("pending_poas").Set(float64(res.Queue.PendingPOAs))
	m.PendingQueueItems.WithLabelValues("manual_poas").Set(float64(res.Queue.ManualPOAs))
	m.PendingQueueItems.WithLabelValues("pending_releases").Set(float64(res.Queue.PendingReleases))
}
