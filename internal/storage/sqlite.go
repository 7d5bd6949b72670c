package storage

import (
	"context"
	"database/sql"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tsdoc/internal/errors"
	"tsdoc/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			project TEXT,
			started_at INTEGER,
			duration_ns INTEGER,
			options_digest TEXT,
			diagnostics JSON
		);`,
		`CREATE TABLE IF NOT EXISTS reflections (
			run_id TEXT,
			id INTEGER,
			name TEXT,
			kind INTEGER,
			parent INTEGER,
			PRIMARY KEY (run_id, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	diagnostics, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return errors.Wrap(err, "encode diagnostics")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, started_at, duration_ns, options_digest, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Project, run.StartedAt.UnixNano(), int64(run.Duration), run.OptionsDigest, diagnostics); err != nil {
		return errors.Wrapf(err, "insert run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reflections (run_id, id, name, kind, parent) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range run.Reflections {
		if _, err := stmt.ExecContext(ctx, run.ID, r.ID, r.Name, int(r.Kind), r.Parent); err != nil {
			return errors.Wrapf(err, "insert reflection %d", r.ID)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.project, r.started_at, r.duration_ns, r.options_digest, r.diagnostics,
			(SELECT COUNT(*) FROM reflections f WHERE f.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows, true)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project, started_at, duration_ns, options_digest, diagnostics
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrRunNotFound, "%s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, parent FROM reflections WHERE run_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query reflections")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec  ReflectionRecord
			kind int
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &kind, &rec.Parent); err != nil {
			return nil, errors.Wrap(err, "scan reflection")
		}
		rec.Kind = models.ReflectionKind(kind)
		run.Reflections = append(run.Reflections, rec)
	}
	run.ReflectionCount = len(run.Reflections)
	return run, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, withCount bool) (*Run, error) {
	var (
		run         Run
		started     int64
		duration    int64
		diagnostics []byte
	)
	dest := []any{&run.ID, &run.Project, &started, &duration, &run.OptionsDigest, &diagnostics}
	if withCount {
		dest = append(dest, &run.ReflectionCount)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan run")
	}
	run.StartedAt = time.Unix(0, started).UTC()
	run.Duration = time.Duration(duration)
	if len(diagnostics) > 0 {
		if err := json.Unmarshal(diagnostics, &run.Diagnostics); err != nil {
			return nil, errors.Wrap(err, "decode diagnostics")
		}
	}
	return &run, nil
}
