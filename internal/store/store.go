// Package store persists assessment runs and their output records, with a
// SQLite driver for local use and a Postgres driver for shared deployments.
package store

import (
	"context"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind   model.RunKind   `json:"kind,omitempty"`
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// RiskEntry is one row of the risk ranking of a run.
type RiskEntry struct {
	Number                int     `json:"number"`
	Name                  string  `json:"name"`
	ProbabilityOfCollapse float64 `json:"probability_of_collapse"`
	DamageCosts           float64 `json:"damage_costs"`
	Risk                  float64 `json:"risk"`
}

// Store defines the persistence interface for assessment runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, kind model.RunKind, revision string) (*model.Run, error)
	CompleteRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Assessments
	InsertBridgeAssessments(ctx context.Context, runID string, items []model.BridgeAssessment) error
	InsertWallAssessments(ctx context.Context, runID string, items []model.WallAssessment) error
	BridgeAssessments(ctx context.Context, runID string) ([]model.BridgeAssessment, error)
	WallAssessments(ctx context.Context, runID string) ([]model.WallAssessment, error)
	TopRisks(ctx context.Context, runID string, limit int) ([]RiskEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
