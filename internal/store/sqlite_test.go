package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "risk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.RunKindBridges, "2024-04")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	run.Status = model.RunStatusComplete
	run.Processed = 320
	run.Failed = 2
	run.WithoutCoordinates = 5
	require.NoError(t, s.CompleteRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunKindBridges, got.Kind)
	assert.Equal(t, "2024-04", got.Revision)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 320, got.Processed)
	assert.Equal(t, 2, got.Failed)
	assert.Equal(t, 5, got.WithoutCoordinates)
	require.NotNil(t, got.FinishedAt)
	assert.False(t, got.FinishedAt.Before(got.StartedAt))
}

func TestSQLiteStore_CompleteRun_Missing(t *testing.T) {
	s := newTestSQLiteStore(t)

	err := s.CompleteRun(context.Background(), &model.Run{ID: "no-such-run"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
}

func TestSQLiteStore_ListRuns_Filters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	bridges, err := s.CreateRun(ctx, model.RunKindBridges, "2024-04")
	require.NoError(t, err)
	bridges.Status = model.RunStatusComplete
	require.NoError(t, s.CompleteRun(ctx, bridges))

	_, err = s.CreateRun(ctx, model.RunKindWalls, "2022-10")
	require.NoError(t, err)

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	walls, err := s.ListRuns(ctx, RunFilter{Kind: model.RunKindWalls})
	require.NoError(t, err)
	require.Len(t, walls, 1)
	assert.Equal(t, model.RunKindWalls, walls[0].Kind)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, bridges.ID, complete[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_BridgeAssessments_RoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.RunKindBridges, "2024-04")
	require.NoError(t, err)

	items := []model.BridgeAssessment{
		{Number: 1193, Name: "N06 110 Lehnviadukt", ProbabilityOfCollapse: 1e-5, DamageCosts: 3.3e6, Risk: 33, Axis: "A 6"},
		{Number: 77, Name: "N08 204", ProbabilityOfCollapse: 2e-5, DamageCosts: 4.4e6, Risk: 88, Axis: "A 8"},
	}
	require.NoError(t, s.InsertBridgeAssessments(ctx, run.ID, items))

	got, err := s.BridgeAssessments(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Highest risk first.
	assert.Equal(t, 77, got[0].Number)
	assert.Equal(t, "A 8", got[0].Axis)
	assert.Equal(t, 1193, got[1].Number)
	assert.InDelta(t, 33, got[1].Risk, 1e-9)
}

func TestSQLiteStore_TopRisks_DispatchesOnRunKind(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.RunKindWalls, "2024-04")
	require.NoError(t, err)

	items := []model.WallAssessment{
		{Number: 501, Name: "Stützmauer Süd", ProbabilityOfCollapse: 2.1e-4, DamageCosts: 4e5, Risk: 84},
		{Number: 502, Name: "Flügelmauer Nord", ProbabilityOfCollapse: 1e-4, DamageCosts: 3e5, Risk: 30},
		{Number: 503, Name: "Verkleidungsmauer", ProbabilityOfCollapse: 5e-5, DamageCosts: 2e5, Risk: 10},
	}
	require.NoError(t, s.InsertWallAssessments(ctx, run.ID, items))

	top, err := s.TopRisks(ctx, run.ID, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 501, top[0].Number)
	assert.Equal(t, 502, top[1].Number)
	assert.InDelta(t, 84, top[0].Risk, 1e-9)
}

func TestSQLiteStore_InsertEmptyBatchIsNoop(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.RunKindBridges, "2024-04")
	require.NoError(t, err)

	require.NoError(t, s.InsertBridgeAssessments(ctx, run.ID, nil))

	got, err := s.BridgeAssessments(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
