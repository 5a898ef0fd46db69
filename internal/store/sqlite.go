package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                  TEXT PRIMARY KEY,
	kind                TEXT NOT NULL,
	revision            TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'running',
	processed           INTEGER NOT NULL DEFAULT 0,
	failed              INTEGER NOT NULL DEFAULT 0,
	without_coordinates INTEGER NOT NULL DEFAULT 0,
	started_at          DATETIME NOT NULL,
	finished_at         DATETIME
);

CREATE TABLE IF NOT EXISTS bridge_assessments (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	number       INTEGER NOT NULL,
	name         TEXT NOT NULL,
	probability  REAL NOT NULL,
	damage_costs REAL NOT NULL,
	risk         REAL NOT NULL,
	record       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS wall_assessments (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	number       INTEGER NOT NULL,
	name         TEXT NOT NULL,
	probability  REAL NOT NULL,
	damage_costs REAL NOT NULL,
	risk         REAL NOT NULL,
	record       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_bridge_assessments_run ON bridge_assessments(run_id, risk DESC);
CREATE INDEX IF NOT EXISTS idx_wall_assessments_run ON wall_assessments(run_id, risk DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, kind model.RunKind, revision string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Kind:      kind,
		Revision:  revision,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, revision, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, string(kind), revision, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, run *model.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, processed = ?, failed = ?, without_coordinates = ?, finished_at = ? WHERE id = ?`,
		string(run.Status), run.Processed, run.Failed, run.WithoutCoordinates, now, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", run.ID)
	}
	return checkRowsAffected(res, "run", run.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, revision, status, processed, failed, without_coordinates, started_at, finished_at
		 FROM runs WHERE id = ?`, runID)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, kind, revision, status, processed, failed, without_coordinates, started_at, finished_at FROM runs`
	var args []any
	var where []string
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
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
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs")
}

func (s *SQLiteStore) InsertBridgeAssessments(ctx context.Context, runID string, items []model.BridgeAssessment) error {
	return s.insertAssessments(ctx, "bridge_assessments", runID, len(items), func(i int) (int, string, float64, float64, float64, any) {
		a := items[i]
		return a.Number, a.Name, a.ProbabilityOfCollapse, a.DamageCosts, a.Risk, a
	})
}

func (s *SQLiteStore) InsertWallAssessments(ctx context.Context, runID string, items []model.WallAssessment) error {
	return s.insertAssessments(ctx, "wall_assessments", runID, len(items), func(i int) (int, string, float64, float64, float64, any) {
		a := items[i]
		return a.Number, a.Name, a.ProbabilityOfCollapse, a.DamageCosts, a.Risk, a
	})
}

func (s *SQLiteStore) insertAssessments(ctx context.Context, table, runID string, n int, at func(int) (int, string, float64, float64, float64, any)) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin insert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+table+` (run_id, number, name, probability, damage_costs, risk, record) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		number, name, probability, damageCosts, risk, record := at(i)
		data, err := json.Marshal(record)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal assessment")
		}
		if _, err := stmt.ExecContext(ctx, runID, number, name, probability, damageCosts, risk, string(data)); err != nil {
			return eris.Wrapf(err, "sqlite: insert into %s", table)
		}
	}
	return eris.Wrapf(tx.Commit(), "sqlite: commit insert %s", table)
}

func (s *SQLiteStore) BridgeAssessments(ctx context.Context, runID string) ([]model.BridgeAssessment, error) {
	records, err := s.assessmentRecords(ctx, "bridge_assessments", runID)
	if err != nil {
		return nil, err
	}
	items := make([]model.BridgeAssessment, len(records))
	for i, data := range records {
		if err := json.Unmarshal(data, &items[i]); err != nil {
			return nil, eris.Wrap(err, "sqlite: decode bridge assessment")
		}
	}
	return items, nil
}

func (s *SQLiteStore) WallAssessments(ctx context.Context, runID string) ([]model.WallAssessment, error) {
	records, err := s.assessmentRecords(ctx, "wall_assessments", runID)
	if err != nil {
		return nil, err
	}
	items := make([]model.WallAssessment, len(records))
	for i, data := range records {
		if err := json.Unmarshal(data, &items[i]); err != nil {
			return nil, eris.Wrap(err, "sqlite: decode wall assessment")
		}
	}
	return items, nil
}

func (s *SQLiteStore) assessmentRecords(ctx context.Context, table, runID string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM `+table+` WHERE run_id = ? ORDER BY risk DESC`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", table)
	}
	defer rows.Close()

	var records [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", table)
		}
		records = append(records, data)
	}
	return records, eris.Wrapf(rows.Err(), "sqlite: query %s", table)
}

func (s *SQLiteStore) TopRisks(ctx context.Context, runID string, limit int) ([]RiskEntry, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	table := assessmentTable(run.Kind)

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, name, probability, damage_costs, risk FROM `+table+`
		 WHERE run_id = ? ORDER BY risk DESC LIMIT ?`, runID, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: top risks")
	}
	defer rows.Close()

	var entries []RiskEntry
	for rows.Next() {
		var e RiskEntry
		if err := rows.Scan(&e.Number, &e.Name, &e.ProbabilityOfCollapse, &e.DamageCosts, &e.Risk); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan top risks")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: top risks")
}

// assessmentTable returns the assessment table for a run kind.
func assessmentTable(kind model.RunKind) string {
	if kind == model.RunKindWalls {
		return "wall_assessments"
	}
	return "bridge_assessments"
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s %s not found", entity, id)
	}
	return nil
}

// scannable covers sql.Row and sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var finishedAt sql.NullTime
	err := row.Scan(&r.ID, &r.Kind, &r.Revision, &r.Status,
		&r.Processed, &r.Failed, &r.WithoutCoordinates, &r.StartedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	return &r, nil
}
