package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBreakdownJSONKeepsOrder(t *testing.T) {
	b := Breakdown{{Label: "ZSER", Count: 5}, {Label: "NB", Count: 2}, {Label: "", Count: 1}}

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	require.Equal(t, `{"ZSER":5,"NB":2,"":1}`, string(raw))

	var back Breakdown
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, b, back)
	require.Equal(t, 8, back.Sum())
	require.Equal(t, 2, back.Get("NB"))
	require.Equal(t, 0, back.Get("missing"))
}

func TestBreakdownEmpty(t *testing.T) {
	raw, err := json.Marshal(Breakdown(nil))
	require.NoError(t, err)
	require.Equal(t, `{}`, string(raw))

	var back Breakdown
	require.NoError(t, json.Unmarshal([]byte(`{}`), &back))
	require.Nil(t, back)

	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
}

func TestStageSummaryJSONOrder(t *testing.T) {
	rate := 75.0
	s := StageSummary{
		Total: 5,
		TAT: &TatSummary{
			Avg: 2.2, Median: 1.5, Max: 5, Min: 0.5, SameDayPercentage: 40,
			Distribution: TatDistribution{2, 1, 1, 1}.Labeled([4]string{"0-1 days", "1-2 days", "2-3 days", "3+ days"}),
		},
		Breakdowns: []NamedBreakdown{
			{Key: "by_processing_type", Values: Breakdown{{Label: "BOT", Count: 3}, {Label: "MANUAL", Count: 2}}},
		},
		ConversionRate: &rate,
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t,
		`{"total":5,"avg_tat":2.2,"median_tat":1.5,"max_tat":5,"min_tat":0.5,"same_day_percentage":40,`+
			`"by_processing_type":{"BOT":3,"MANUAL":2},"conversion_rate":75,`+
			`"tat_distribution":{"0-1 days":2,"1-2 days":1,"2-3 days":1,"3+ days":1}}`,
		string(raw))

	var back StageSummary
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, s, back)
}

func TestStageSummaryWithoutTAT(t *testing.T) {
	s := StageSummary{
		Total:      3,
		Breakdowns: []NamedBreakdown{{Key: "by_type", Values: Breakdown{{Label: "Standard PO", Count: 3}}}},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t, `{"total":3,"by_type":{"Standard PO":3}}`, string(raw))

	var back StageSummary
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Nil(t, back.TAT)
	require.Nil(t, back.ConversionRate)
	require.Equal(t, s.Breakdowns, back.Breakdowns)
}

func TestTatDistribution(t *testing.T) {
	d := TatDistribution{UpToOneDay: 2, OneToTwoDays: 0, TwoToThreeDays: 1, OverThreeDays: 4}
	require.Equal(t, 7, d.Total())
	require.Equal(t, Breakdown{
		{Label: "a", Count: 2}, {Label: "b", Count: 0}, {Label: "c", Count: 1}, {Label: "d", Count: 4},
	}, d.Labeled([4]string{"a", "b", "c", "d"}))
}

func TestDefaultStageTable(t *testing.T) {
	table := DefaultStageTable()
	stages := table.All()
	require.Len(t, stages, 5)
	require.Equal(t, "PR Create", stages[0].Name)
	require.Equal(t, "Order Acknowledgements 1 April ", table.POA.Sheet)

	require.False(t, table.PRCreate.HasTAT())
	require.Equal(t, []string{"BOT/MANUAL/SERVICE PROVIDER", "Month", "Turn around in Days"}, table.POA.RequiredColumns())
	require.Equal(t, []string{"Purchasing Group", "Created On", "Date(37)"}, table.Release37.RequiredColumns())

	// the channel breakdown must exist on the POA stage
	found := false
	for _, b := range table.POA.Breakdowns {
		found = found || b.Key == table.ChannelBreakdown
	}
	require.True(t, found)
}

func TestOutputFilesBackupSet(t *testing.T) {
	files := OutputFiles{Snapshot: "a.json", Queue: "b.json", Metrics: "c.json", Dashboard: "d.html"}
	require.Equal(t, []string{"a.json", "b.json", "c.json", "d.html"}, files.BackupSet())
}
