package pipeline

import (
	"os"
	"path/filepath"
	"procurement-dashboard/pkg/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackupOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard_data.json"), []byte(`{"v":1}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "procurement_dashboard.html"), []byte("<html>"), 0600))

	om := utils.NewOutputManager(dir, "")
	now := time.Date(2024, 4, 10, 9, 30, 5, 0, time.UTC)

	backup, err := BackupOutputs(om, []string{
		"dashboard_data.json", "uipath_queue_data.json", "uipath_metrics.json", "procurement_dashboard.html",
	}, now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "backup_20240410_093005"), backup.Dir)
	require.Equal(t, []string{"dashboard_data.json", "procurement_dashboard.html"}, backup.Copied)

	data, err := os.ReadFile(filepath.Join(backup.Dir, "dashboard_data.json"))
	require.NoError(t, err)
	require.Equal(t, `{"v":1}`, string(data))

	info, err := os.Stat(filepath.Join(backup.Dir, "procurement_dashboard.html"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = os.Stat(filepath.Join(backup.Dir, "uipath_queue_data.json"))
	require.True(t, os.IsNotExist(err))
}

func TestBackupOutputsFollowsExportPaths(t *testing.T) {
	dir := t.TempDir()
	em := NewExportManager(dir, testLogger())
	require.NoError(t, em.ExportJSON("reports/dashboard_data.json", map[string]int{"v": 1}, 1))
	require.Equal(t, filepath.Join(dir, "reports", "dashboard_data.json"), em.Path("reports/dashboard_data.json"))

	om := utils.NewOutputManager(dir, "")
	backup, err := BackupOutputs(om, []string{"reports/dashboard_data.json"}, time.Now())
	require.NoError(t, err)
	require.Equal(t, []string{"reports/dashboard_data.json"}, backup.Copied)

	data, err := os.ReadFile(filepath.Join(backup.Dir, "reports", "dashboard_data.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"v":1}`, string(data))
}

func TestBackupOutputsNothingToCopy(t *testing.T) {
	dir := t.TempDir()
	om := utils.NewOutputManager(dir, "bk_")

	backup, err := BackupOutputs(om, []string{"dashboard_data.json"}, time.Now())
	require.NoError(t, err)
	require.Empty(t, backup.Copied)

	info, err := os.Stat(backup.Dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Contains(t, filepath.Base(backup.Dir), "bk_")
}
