package pipeline

import (
	"fmt"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/pkg/utils"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// StageResult is everything the aggregator derives from one stage
type StageResult struct {
	Stage        model.StageConfig
	Summary      model.StageSummary
	Sample       model.TurnaroundSample
	Distribution model.TatDistribution
	Records      model.RecordSet // source rows plus the derived TAT column
}

// ------------------- Stage Aggregation -------------------

// Aggregate turns one stage's record set into its summary. It holds no
// state between calls; cross-stage figures are attached by the composer.
func Aggregate(rs model.RecordSet, stage model.StageConfig) (StageResult, error) {
	if err := RequireColumns(rs, stage.RequiredColumns()...); err != nil {
		return StageResult{}, err
	}

	result := StageResult{
		Stage:   stage,
		Records: rs,
		Summary: model.StageSummary{Total: Count(rs)},
	}

	for _, bd := range stage.Breakdowns {
		values, err := Breakdown(rs, bd.Column, bd.Limit)
		if err != nil {
			return StageResult{}, err
		}
		result.Summary.Breakdowns = append(result.Summary.Breakdowns, model.NamedBreakdown{
			Key:    bd.Key,
			Values: values,
		})
	}

	if !stage.HasTAT() {
		return result, nil
	}

	rows, err := rowTATs(rs, stage.TAT)
	if err != nil {
		return StageResult{}, err
	}
	result.Sample = rows.sample()

	stats, err := TatStats(result.Sample)
	if err != nil {
		return StageResult{}, fmt.Errorf("%s TAT: %w", stage.Name, err)
	}
	sameDay, err := SameDayPercentage(result.Sample)
	if err != nil {
		return StageResult{}, fmt.Errorf("%s same-day percentage: %w", stage.Name, err)
	}
	result.Distribution = Distribute(result.Sample)
	result.Summary.TAT = &model.TatSummary{
		Avg:               utils.Round2(stats.Mean),
		Median:            utils.Round2(stats.Median),
		Max:               utils.Round2(stats.Max),
		Min:               utils.Round2(stats.Min),
		SameDayPercentage: utils.Round2(sameDay),
		Distribution:      result.Distribution.Labeled(stage.DistributionLabels),
	}

	if stage.TAT.Mode == model.TATComputed && stage.TAT.DerivedColumn != "" {
		result.Records = rows.augment(rs, stage.TAT)
	}
	return result, nil
}

// RequireColumns fails with a SchemaError naming the first absent column.
func RequireColumns(rs model.RecordSet, columns ...string) error {
	for _, col := range columns {
		if !rs.HasColumn(col) {
			return &SchemaError{Sheet: rs.Sheet, Column: col}
		}
	}
	return nil
}

// Count returns the number of rows; zero is valid.
func Count(rs model.RecordSet) int {
	return len(rs.Rows)
}

// Breakdown groups rows by exact value of column, most frequent first.
// Ties keep first-encountered order and blank cells count under "".
// A positive limit keeps only the top labels.
func Breakdown(rs model.RecordSet, column string, limit int) (model.Breakdown, error) {
	if !rs.HasColumn(column) {
		return nil, &SchemaError{Sheet: rs.Sheet, Column: column}
	}

	counts := make(map[string]int)
	var order []string
	for _, rec := range rs.Rows {
		label := utils.FormatValue(rec[column])
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	var out model.Breakdown
	for _, label := range order {
		out = append(out, model.CategoryCount{Label: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ------------------- Turnaround Time -------------------

// DeriveTAT builds the turnaround sample of a stage. Rows whose value is
// missing or cannot be parsed are left out rather than counted as zero.
func DeriveTAT(rs model.RecordSet, cfg model.TATConfig) (model.TurnaroundSample, error) {
	rows, err := rowTATs(rs, cfg)
	if err != nil {
		return nil, err
	}
	return rows.sample(), nil
}

// rowTAT is the turnaround of one row; ok is false when excluded.
// start and end are kept whenever they parse on their own.
type rowTAT struct {
	days             float64
	ok               bool
	start, end       time.Time
	hasStart, hasEnd bool
}

type rowTATList []rowTAT

func rowTATs(rs model.RecordSet, cfg model.TATConfig) (rowTATList, error) {
	if cfg.Mode == model.TATNone {
		return nil, fmt.Errorf("sheet %q: no TAT configured", rs.Sheet)
	}
	if err := RequireColumns(rs, cfg.Columns()...); err != nil {
		return nil, err
	}

	out := make(rowTATList, len(rs.Rows))
	for i, rec := range rs.Rows {
		switch cfg.Mode {
		case model.TATDirect:
			days, ok := utils.Numeric(rec[cfg.Column])
			out[i] = rowTAT{days: days, ok: ok}
		case model.TATComputed:
			start, okStart := parseTimestamp(rec[cfg.StartColumn], cfg.StartLayouts)
			end, okEnd := parseTimestamp(rec[cfg.EndColumn], cfg.EndLayouts)
			out[i] = rowTAT{start: start, end: end, hasStart: okStart, hasEnd: okEnd}
			if okStart && okEnd {
				out[i].days = end.Sub(start).Seconds() / 86400
				out[i].ok = true
			}
		}
	}
	return out, nil
}

func (l rowTATList) sample() model.TurnaroundSample {
	sample := make(model.TurnaroundSample, 0, len(l))
	for _, r := range l {
		if r.ok {
			sample = append(sample, r.days)
		}
	}
	return sample
}

// augment copies rs, normalises every parseable timestamp and appends the
// derived TAT column (blank for excluded rows).
func (l rowTATList) augment(rs model.RecordSet, cfg model.TATConfig) model.RecordSet {
	out := model.RecordSet{
		Sheet:   rs.Sheet,
		Columns: append([]string(nil), rs.Columns...),
		Rows:    make([]model.GenericRecord, len(rs.Rows)),
	}
	if !rs.HasColumn(cfg.DerivedColumn) {
		out.Columns = append(out.Columns, cfg.DerivedColumn)
	}

	for i, rec := range rs.Rows {
		row := make(model.GenericRecord, len(rec)+1)
		for k, v := range rec {
			row[k] = v
		}
		row[cfg.DerivedColumn] = nil
		if l[i].hasStart {
			row[cfg.StartColumn] = l[i].start
		}
		if l[i].hasEnd {
			row[cfg.EndColumn] = l[i].end
		}
		if l[i].ok {
			row[cfg.DerivedColumn] = l[i].days
		}
		out.Rows[i] = row
	}
	return out
}

// parseTimestamp accepts native times, spreadsheet serial numbers and text
// in one of the given layouts.
func parseTimestamp(v interface{}, layouts []string) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		serial, ok := utils.Numeric(val)
		if !ok || serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

// ------------------- Statistics -------------------

// TatStats returns mean, median, min and max of a non-empty sample.
func TatStats(sample model.TurnaroundSample) (model.TatStats, error) {
	if len(sample) == 0 {
		return model.TatStats{}, ErrEmptySample
	}

	sorted := append(model.TurnaroundSample(nil), sample...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return model.TatStats{
		Mean:   sum / float64(n),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}, nil
}

// Distribute buckets the sample. Negative values (completion recorded
// before creation) land in the first bucket.
func Distribute(sample model.TurnaroundSample) model.TatDistribution {
	var d model.TatDistribution
	for _, v := range sample {
		switch {
		case v <= 1:
			d.UpToOneDay++
		case v <= 2:
			d.OneToTwoDays++
		case v <= 3:
			d.TwoToThreeDays++
		default:
			d.OverThreeDays++
		}
	}
	return d
}

// SameDayPercentage is the share of the sample at or under one day, x100.
func SameDayPercentage(sample model.TurnaroundSample) (float64, error) {
	if len(sample) == 0 {
		return 0, ErrEmptySample
	}
	sameDay := 0
	for _, v := range sample {
		if v <= 1 {
			sameDay++
		}
	}
	return 100 * float64(sameDay) / float64(len(sample)), nil
}

// CountAbove counts sample values strictly greater than threshold.
func CountAbove(sample model.TurnaroundSample, threshold float64) int {
	n := 0
	for _, v := range sample {
		if v > threshold {
			n++
		}
	}
	return n
}

// ConversionRate returns 100*numerator/denominator rounded to 2 decimals.
func ConversionRate(numerator, denominator int) (float64, error) {
	if denominator == 0 {
		return 0, fmt.Errorf("conversion rate %d/0: %w", numerator, ErrDivideByZero)
	}
	return utils.Round2(100 * float64(numerator) / float64(denominator)), nil
}
