package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/pkg/utils"
	"time"
)

// RecordSource yields the record set stored under a sheet name
type RecordSource interface {
	ReadSheet(name string) (model.RecordSet, error)
}

// Report is the full output of one composition
type Report struct {
	Snapshot model.DashboardSnapshot
	Queue    model.QueueDocument
	Metrics  model.MetricsDocument
	Stages   []StageResult // processing order
}

// Composer runs the aggregator over every stage and assembles the snapshot.
type Composer struct {
	Stages model.StageTable
	Now    func() time.Time
	Logger *slog.Logger
}

// NewComposer creates a composer over the given stage table
func NewComposer(stages model.StageTable, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		Stages: stages,
		Now:    time.Now,
		Logger: logger,
	}
}

// Compose processes the stages strictly in order. Any stage failure aborts
// the whole composition and no partial report is returned.
func (c *Composer) Compose(ctx context.Context, src RecordSource) (*Report, error) {
	pr, err := c.stage(ctx, src, c.Stages.PRCreate)
	if err != nil {
		return nil, err
	}

	po, err := c.stage(ctx, src, c.Stages.POCreate)
	if err != nil {
		return nil, err
	}
	conversion, err := ConversionRate(po.Summary.Total, pr.Summary.Total)
	if err != nil {
		return nil, &StageError{Stage: c.Stages.POCreate.Name, Err: err}
	}
	po.Summary.ConversionRate = &conversion

	poa, err := c.stage(ctx, src, c.Stages.POA)
	if err != nil {
		return nil, err
	}
	r31, err := c.stage(ctx, src, c.Stages.Release31)
	if err != nil {
		return nil, err
	}
	r37, err := c.stage(ctx, src, c.Stages.Release37)
	if err != nil {
		return nil, err
	}

	metrics, err := c.processMetrics(conversion, poa, r31, r37)
	if err != nil {
		return nil, err
	}

	snapshot := model.DashboardSnapshot{
		GeneratedAt: c.Now(),
		Summary: model.SnapshotSummary{
			TotalPRs:        pr.Summary.Total,
			TotalPOs:        po.Summary.Total,
			TotalPOAs:       poa.Summary.Total,
			TotalReleases31: r31.Summary.Total,
			TotalReleases37: r37.Summary.Total,
			AvgTATPOA:       poa.Summary.TAT.Avg,
			AvgTATRelease31: r31.Summary.TAT.Avg,
			AvgTATRelease37: r37.Summary.TAT.Avg,
		},
		PRCreate:  pr.Summary,
		POCreate:  po.Summary,
		POA:       poa.Summary,
		Release31: r31.Summary,
		Release37: r37.Summary,
	}

	channels := poa.Summary.Breakdown(c.Stages.ChannelBreakdown)
	queue := model.QueueDocument{
		PendingPOAs:     channels.Get(c.Stages.BotLabel),
		ManualPOAs:      channels.Get(c.Stages.ManualLabel),
		PendingReleases: r31.Summary.Total,
		HighTATPOAs:     CountAbove(poa.Sample, c.Stages.HighTATDays),
		HighTATR31:      CountAbove(r31.Sample, c.Stages.HighTATDays),
		HighTATR37:      CountAbove(r37.Sample, c.Stages.HighTATDays),
	}

	c.Logger.Info("snapshot composed",
		"total_records", snapshot.TotalRecords(),
		"bot_automation_rate", metrics.BotAutomationRate,
		"poa_sla", metrics.SLACompliance.POAUnder1Day,
	)

	return &Report{
		Snapshot: snapshot,
		Queue:    queue,
		Metrics:  model.MetricsDocument{ProcessMetrics: metrics},
		Stages:   []StageResult{pr, po, poa, r31, r37},
	}, nil
}

func (c *Composer) stage(ctx context.Context, src RecordSource, stage model.StageConfig) (StageResult, error) {
	if err := ctx.Err(); err != nil {
		return StageResult{}, &StageError{Stage: stage.Name, Err: err}
	}

	rs, err := src.ReadSheet(stage.Sheet)
	if err != nil {
		return StageResult{}, &StageError{Stage: stage.Name, Err: err}
	}
	result, err := Aggregate(rs, stage)
	if err != nil {
		return StageResult{}, &StageError{Stage: stage.Name, Err: err}
	}

	attrs := []any{"stage", stage.Name, "records", result.Summary.Total}
	if result.Summary.TAT != nil {
		attrs = append(attrs, "avg_tat_days", result.Summary.TAT.Avg, "sample", len(result.Sample))
	}
	c.Logger.Info("stage aggregated", attrs...)
	return result, nil
}

func (c *Composer) processMetrics(conversion float64, poa, r31, r37 StageResult) (model.ProcessMetrics, error) {
	automation, err := AutomationRate(poa.Summary.Breakdown(c.Stages.ChannelBreakdown), c.Stages.BotLabel)
	if err != nil {
		return model.ProcessMetrics{}, &StageError{Stage: poa.Stage.Name, Err: err}
	}

	sla := make([]float64, 0, 3)
	for _, res := range []StageResult{poa, r31, r37} {
		rate, err := SLACompliance(res.Distribution, res.Summary.Total)
		if err != nil {
			return model.ProcessMetrics{}, &StageError{Stage: res.Stage.Name, Err: err}
		}
		sla = append(sla, rate)
	}

	return model.ProcessMetrics{
		PRToPOConversion:  conversion,
		BotAutomationRate: automation,
		AvgProcessingTime: model.AvgProcessingTime{
			POA:       poa.Summary.TAT.Avg,
			Release31: r31.Summary.TAT.Avg,
			Release37: r37.Summary.TAT.Avg,
		},
		SLACompliance: model.SLACompliance{
			POAUnder1Day:     sla[0],
			Release31SameDay: sla[1],
			Release37SameDay: sla[2],
		},
	}, nil
}

// AutomationRate is the share of the channel breakdown handled by botLabel, x100.
func AutomationRate(channels model.Breakdown, botLabel string) (float64, error) {
	total := channels.Sum()
	if total == 0 {
		return 0, fmt.Errorf("automation rate: %w", ErrEmptySample)
	}
	return utils.Round2(100 * float64(channels.Get(botLabel)) / float64(total)), nil
}

// SLACompliance is the <=1 day bucket over the stage total, x100.
func SLACompliance(dist model.TatDistribution, total int) (float64, error) {
	if total == 0 {
		return 0, fmt.Errorf("sla compliance: %w", ErrDivideByZero)
	}
	return utils.Round2(100 * float64(dist.UpToOneDay) / float64(total)), nil
}
