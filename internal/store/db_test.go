package store

import (
	"context"
	"errors"
	"procurement-dashboard/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveRun(ctx, "run-1", "Consolidated.xlsx"))
	run, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, model.RunStatusPending, run.Status)
	require.Nil(t, run.FinishedAt)
	require.Empty(t, run.Error)

	require.NoError(t, db.UpdateRunStatus(ctx, "run-1", model.RunStatusBackingUp))
	require.NoError(t, db.SetBackupDir(ctx, "run-1", "backup_20240410_093000"))
	require.NoError(t, db.FinishRun(ctx, "run-1", model.RunStatusCompleted, nil))

	run, err = db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, model.RunStatusCompleted, run.Status)
	require.Equal(t, "backup_20240410_093000", run.BackupDir)
	require.Equal(t, "Consolidated.xlsx", run.Workbook)
	require.NotNil(t, run.FinishedAt)
	require.Empty(t, run.Error)

	msgs, err := db.GetRunErrors(ctx, "run-1")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestFailedRunKeepsError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveRun(ctx, "run-1", "Consolidated.xlsx"))
	require.NoError(t, db.SaveRunError(ctx, "run-1", errors.New("archive: permission denied")))
	require.NoError(t, db.FinishRun(ctx, "run-1", model.RunStatusFailed, errors.New("stage POA: empty sample")))

	run, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, model.RunStatusFailed, run.Status)
	require.Equal(t, "stage POA: empty sample", run.Error)

	msgs, err := db.GetRunErrors(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, []string{"archive: permission denied", "stage POA: empty sample"}, msgs)
}

func TestListRunsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, db.SaveRun(ctx, id, "Consolidated.xlsx"))
	}

	runs, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-3", runs[0].ID)
	require.Equal(t, "run-2", runs[1].ID)

	runs, err = db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
}

func TestGetRunNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetRun(context.Background(), "nope")
	require.ErrorIs(t, err, ErrRunNotFound)
}
