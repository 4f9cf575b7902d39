package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"procurement-dashboard/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExportJSON(t *testing.T) {
	em := NewExportManager(t.TempDir(), testLogger())

	doc := model.QueueDocument{PendingPOAs: 3, ManualPOAs: 1}
	require.NoError(t, em.ExportJSON("uipath_queue_data.json", doc, 1))

	data, err := os.ReadFile(em.Path("uipath_queue_data.json"))
	require.NoError(t, err)
	require.Equal(t, `{
  "pending_poas": 3,
  "manual_poas": 1,
  "pending_releases": 0,
  "high_tat_poas": 0,
  "high_tat_r31": 0,
  "high_tat_r37": 0
}
`, string(data))

	require.Len(t, em.Results, 1)
	require.True(t, em.Results[0].Success)
	require.Equal(t, "json", em.Results[0].Type)
}

func TestExportCSV(t *testing.T) {
	em := NewExportManager(t.TempDir(), testLogger())
	created := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	rs := recordSet("PO Release 31", []string{"Purchasing Doc.", "Created On", "TAT_31"},
		[]interface{}{45001, created, 1.5},
		[]interface{}{45002, nil, nil},
	)

	require.NoError(t, em.ExportCSV("uipath_r31_data.csv", rs))

	f, err := os.Open(em.Path("uipath_r31_data.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Purchasing Doc.", "Created On", "TAT_31"},
		{"45001", "2024-04-01 08:00:00", "1.5"},
		{"45002", "", ""},
	}, rows)
	require.Equal(t, 2, em.Results[0].RecordCount)
}

func TestExportFailureIsRecorded(t *testing.T) {
	dir := t.TempDir()
	// a regular file where the output directory should be
	blocker := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	em := NewExportManager(blocker, testLogger())
	err := em.ExportJSON("dashboard_data.json", map[string]int{}, 0)
	require.ErrorIs(t, err, ErrIO)
	require.Len(t, em.Results, 1)
	require.False(t, em.Results[0].Success)
	require.NotEmpty(t, em.Results[0].Error)
}
