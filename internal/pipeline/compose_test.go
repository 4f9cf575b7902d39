package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/internal/pipeline/pipelinetest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapSource map[string]model.RecordSet

func (m mapSource) ReadSheet(name string) (model.RecordSet, error) {
	rs, ok := m[name]
	if !ok {
		return model.RecordSet{}, &SchemaError{Sheet: name}
	}
	return rs, nil
}

func fixtureSource() mapSource {
	src := mapSource{}
	for _, sheet := range pipelinetest.Sheets() {
		src[sheet.Name] = recordSet(sheet.Name, sheet.Header, sheet.Rows...)
	}
	return src
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2024, 4, 10, 9, 30, 0, 0, time.UTC)

func testComposer() *Composer {
	c := NewComposer(model.DefaultStageTable(), testLogger())
	c.Now = func() time.Time { return fixedNow }
	return c
}

func TestComposeFixture(t *testing.T) {
	report, err := testComposer().Compose(context.Background(), fixtureSource())
	require.NoError(t, err)

	snap := report.Snapshot
	require.Equal(t, fixedNow, snap.GeneratedAt)
	require.Equal(t, model.SnapshotSummary{
		TotalPRs:        4,
		TotalPOs:        3,
		TotalPOAs:       5,
		TotalReleases31: 4,
		TotalReleases37: 3,
		AvgTATPOA:       2.2,
		AvgTATRelease31: 2.17,
		AvgTATRelease37: 1.67,
	}, snap.Summary)
	require.Equal(t, 19, snap.TotalRecords())

	require.NotNil(t, snap.POCreate.ConversionRate)
	require.Equal(t, 75.0, *snap.POCreate.ConversionRate)
	require.Nil(t, snap.PRCreate.TAT)
	require.Equal(t, model.Breakdown{{Label: "NB", Count: 3}, {Label: "ZSER", Count: 1}},
		snap.PRCreate.Breakdown("by_type"))

	poa := snap.POA.TAT
	require.Equal(t, 1.5, poa.Median)
	require.Equal(t, 40.0, poa.SameDayPercentage)
	require.Equal(t, model.Breakdown{
		{Label: "0-1 days", Count: 2},
		{Label: "1-2 days", Count: 1},
		{Label: "2-3 days", Count: 1},
		{Label: "3+ days", Count: 1},
	}, poa.Distribution)

	require.Equal(t, model.ProcessMetrics{
		PRToPOConversion:  75,
		BotAutomationRate: 60,
		AvgProcessingTime: model.AvgProcessingTime{POA: 2.2, Release31: 2.17, Release37: 1.67},
		SLACompliance: model.SLACompliance{
			POAUnder1Day:     40,
			Release31SameDay: 25,
			Release37SameDay: 66.67,
		},
	}, report.Metrics.ProcessMetrics)

	require.Equal(t, model.QueueDocument{
		PendingPOAs:     3,
		ManualPOAs:      1,
		PendingReleases: 4,
		HighTATPOAs:     2,
		HighTATR31:      1,
		HighTATR37:      1,
	}, report.Queue)

	require.Len(t, report.Stages, 5)
	require.Equal(t, "PR Create", report.Stages[0].Stage.Name)
	require.Equal(t, "Release 37", report.Stages[4].Stage.Name)
}

func TestComposeIsDeterministic(t *testing.T) {
	src := fixtureSource()

	first, err := testComposer().Compose(context.Background(), src)
	require.NoError(t, err)
	second, err := testComposer().Compose(context.Background(), src)
	require.NoError(t, err)

	a, err := json.Marshal(first.Snapshot)
	require.NoError(t, err)
	b, err := json.Marshal(second.Snapshot)
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
	require.Equal(t, first.Queue, second.Queue)
}

func TestComposeSnapshotJSONShape(t *testing.T) {
	report, err := testComposer().Compose(context.Background(), fixtureSource())
	require.NoError(t, err)

	raw, err := json.Marshal(report.Snapshot)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.ElementsMatch(t,
		[]string{"generated_at", "summary", "pr_create", "po_create", "poa", "release_31", "release_37"},
		keys(doc))

	var poa model.StageSummary
	require.NoError(t, json.Unmarshal(doc["poa"], &poa))
	require.Equal(t, report.Snapshot.POA, poa)
}

func TestComposeSnapshotRoundTrip(t *testing.T) {
	report, err := testComposer().Compose(context.Background(), fixtureSource())
	require.NoError(t, err)

	raw, err := json.Marshal(report.Snapshot)
	require.NoError(t, err)

	var back model.DashboardSnapshot
	require.NoError(t, json.Unmarshal(raw, &back))
	require.True(t, back.GeneratedAt.Equal(report.Snapshot.GeneratedAt))
	back.GeneratedAt = report.Snapshot.GeneratedAt
	require.Equal(t, report.Snapshot, back)

	again, err := json.Marshal(back)
	require.NoError(t, err)
	require.JSONEq(t, string(raw), string(again))
}

func TestComposeMissingSheet(t *testing.T) {
	src := fixtureSource()
	delete(src, "PO Release 31")

	report, err := testComposer().Compose(context.Background(), src)
	require.Nil(t, report)
	require.ErrorIs(t, err, ErrSchema)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, "Release 31", stageErr.Stage)
}

func TestComposeZeroRequisitions(t *testing.T) {
	src := fixtureSource()
	pr := src["PR Create"]
	pr.Rows = nil
	src["PR Create"] = pr

	_, err := testComposer().Compose(context.Background(), src)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestComposeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testComposer().Compose(ctx, fixtureSource())
	require.ErrorIs(t, err, context.Canceled)
}

func TestAutomationRateAndSLA(t *testing.T) {
	rate, err := AutomationRate(model.Breakdown{{Label: "MANUAL", Count: 1}, {Label: "BOT", Count: 3}}, "BOT")
	require.NoError(t, err)
	require.Equal(t, 75.0, rate)

	_, err = AutomationRate(nil, "BOT")
	require.ErrorIs(t, err, ErrEmptySample)

	sla, err := SLACompliance(model.TatDistribution{UpToOneDay: 1}, 3)
	require.NoError(t, err)
	require.Equal(t, 33.33, sla)

	_, err = SLACompliance(model.TatDistribution{}, 0)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
