package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/db"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// assessmentColumns is the column list shared by both assessment tables and
// the COPY batches.
var assessmentColumns = []string{"run_id", "number", "name", "probability", "damage_costs", "risk", "record"}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                  TEXT PRIMARY KEY,
	kind                TEXT NOT NULL,
	revision            TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'running',
	processed           INTEGER NOT NULL DEFAULT 0,
	failed              INTEGER NOT NULL DEFAULT 0,
	without_coordinates INTEGER NOT NULL DEFAULT 0,
	started_at          TIMESTAMPTZ NOT NULL,
	finished_at         TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS bridge_assessments (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	number       INTEGER NOT NULL,
	name         TEXT NOT NULL,
	probability  DOUBLE PRECISION NOT NULL,
	damage_costs DOUBLE PRECISION NOT NULL,
	risk         DOUBLE PRECISION NOT NULL,
	record       JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS wall_assessments (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	number       INTEGER NOT NULL,
	name         TEXT NOT NULL,
	probability  DOUBLE PRECISION NOT NULL,
	damage_costs DOUBLE PRECISION NOT NULL,
	risk         DOUBLE PRECISION NOT NULL,
	record       JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_bridge_assessments_run ON bridge_assessments(run_id, risk DESC);
CREATE INDEX IF NOT EXISTS idx_wall_assessments_run ON wall_assessments(run_id, risk DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, kind model.RunKind, revision string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Kind:      kind,
		Revision:  revision,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, kind, revision, status, started_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, string(kind), revision, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, run *model.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, processed = $2, failed = $3, without_coordinates = $4, finished_at = $5 WHERE id = $6`,
		string(run.Status), run.Processed, run.Failed, run.WithoutCoordinates, now, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", run.ID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, kind, revision, status, processed, failed, without_coordinates, started_at, finished_at
		 FROM runs WHERE id = $1`, runID)

	var r model.Run
	err := row.Scan(&r.ID, &r.Kind, &r.Revision, &r.Status,
		&r.Processed, &r.Failed, &r.WithoutCoordinates, &r.StartedAt, &r.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: get run %s: not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, kind, revision, status, processed, failed, without_coordinates, started_at, finished_at FROM runs`
	var args []any
	argn := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	var where []string
	if filter.Kind != "" {
		where = append(where, "kind = "+argn(string(filter.Kind)))
	}
	if filter.Status != "" {
		where = append(where, "status = "+argn(string(filter.Status)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + argn(filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET " + argn(filter.Offset)
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Revision, &r.Status,
			&r.Processed, &r.Failed, &r.WithoutCoordinates, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs")
}

func (s *PostgresStore) InsertBridgeAssessments(ctx context.Context, runID string, items []model.BridgeAssessment) error {
	rows := make([][]any, 0, len(items))
	for _, a := range items {
		record, err := json.Marshal(a)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal bridge assessment")
		}
		rows = append(rows, []any{runID, a.Number, a.Name, a.ProbabilityOfCollapse, a.DamageCosts, a.Risk, record})
	}
	_, err := db.CopyFrom(ctx, s.pool, "bridge_assessments", assessmentColumns, rows)
	return err
}

func (s *PostgresStore) InsertWallAssessments(ctx context.Context, runID string, items []model.WallAssessment) error {
	rows := make([][]any, 0, len(items))
	for _, a := range items {
		record, err := json.Marshal(a)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal wall assessment")
		}
		rows = append(rows, []any{runID, a.Number, a.Name, a.ProbabilityOfCollapse, a.DamageCosts, a.Risk, record})
	}
	_, err := db.CopyFrom(ctx, s.pool, "wall_assessments", assessmentColumns, rows)
	return err
}

func (s *PostgresStore) BridgeAssessments(ctx context.Context, runID string) ([]model.BridgeAssessment, error) {
	records, err := s.assessmentRecords(ctx, "bridge_assessments", runID)
	if err != nil {
		return nil, err
	}
	items := make([]model.BridgeAssessment, len(records))
	for i, data := range records {
		if err := json.Unmarshal(data, &items[i]); err != nil {
			return nil, eris.Wrap(err, "postgres: decode bridge assessment")
		}
	}
	return items, nil
}

func (s *PostgresStore) WallAssessments(ctx context.Context, runID string) ([]model.WallAssessment, error) {
	records, err := s.assessmentRecords(ctx, "wall_assessments", runID)
	if err != nil {
		return nil, err
	}
	items := make([]model.WallAssessment, len(records))
	for i, data := range records {
		if err := json.Unmarshal(data, &items[i]); err != nil {
			return nil, eris.Wrap(err, "postgres: decode wall assessment")
		}
	}
	return items, nil
}

func (s *PostgresStore) assessmentRecords(ctx context.Context, table, runID string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM `+table+` WHERE run_id = $1 ORDER BY risk DESC`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query %s", table)
	}
	defer rows.Close()

	var records [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", table)
		}
		records = append(records, data)
	}
	return records, eris.Wrapf(rows.Err(), "postgres: query %s", table)
}

func (s *PostgresStore) TopRisks(ctx context.Context, runID string, limit int) ([]RiskEntry, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	table := assessmentTable(run.Kind)

	rows, err := s.pool.Query(ctx,
		`SELECT number, name, probability, damage_costs, risk FROM `+table+`
		 WHERE run_id = $1 ORDER BY risk DESC LIMIT $2`, runID, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: top risks")
	}
	defer rows.Close()

	var entries []RiskEntry
	for rows.Next() {
		var e RiskEntry
		if err := rows.Scan(&e.Number, &e.Name, &e.ProbabilityOfCollapse, &e.DamageCosts, &e.Risk); err != nil {
			return nil, eris.Wrap(err, "postgres: scan top risks")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: top risks")
}
