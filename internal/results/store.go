package results

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"uclevr/internal/evaluator"
	"uclevr/internal/target"
)

// Store records evaluation runs in a DuckDB database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the DuckDB database at path and applies the schema.
// An empty path or ":memory:" opens an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == ":memory:" {
		path = ""
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping results db: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing connection. The schema must already be applied.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Run describes one evaluation run to record.
type Run struct {
	ConfigPath string
	Filters    []target.Filter
	TargetAll  bool
	Summary    evaluator.Summary
}

// RunRow is a recorded run.
type RunRow struct {
	ID         string
	ConfigPath string
	Phase      string
	Filters    []string
	TargetAll  bool
	Accuracy   float64
	Computed   bool
	Total      int
	Completed  int
	Skipped    int
}

// RecordRun stores a run and one row per question result, returning the run id.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if ctx == nil {
		return "", errors.New("results: context is nil")
	}
	if s == nil || s.db == nil {
		return "", errors.New("results: db is nil")
	}
	id := uuid.New()
	summary := run.Summary
	var accuracy any
	if summary.Computed {
		accuracy = summary.Accuracy
	}
	filters := make([]string, 0, len(run.Filters))
	for _, f := range run.Filters {
		filters = append(filters, string(f))
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, created_at, config_path, phase, filters, target_all, accuracy, computed, total, completed, skipped)
		 VALUES (?, now(), ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		run.ConfigPath,
		string(summary.Phase),
		strings.Join(filters, ","),
		run.TargetAll,
		accuracy,
		summary.Computed,
		int64(summary.Total),
		int64(summary.Completed),
		int64(summary.SkippedTotal()),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	if err := s.appendScores(ctx, id, summary.Results); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *Store) appendScores(ctx context.Context, runID uuid.UUID, rows []evaluator.QuestionResult) error {
	if len(rows) == 0 {
		return nil
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("results connection: %w", err)
	}
	defer conn.Close()

	appender, err := newScoreAppender(conn)
	if err != nil {
		return fmt.Errorf("question score appender: %w", err)
	}
	for _, r := range rows {
		var score, targets, total, fraction driver.Value
		if r.Reason == evaluator.ReasonScored {
			score = r.Score
		}
		if r.HasStats {
			targets = int64(r.Stats.TargetObjects)
			total = int64(r.Stats.TotalObjects)
			fraction = r.Stats.MaskFraction
		}
		if err := appender.AppendRow(
			duckdb.UUID(runID),
			int64(r.QuestionIndex),
			r.Image,
			string(r.Reason),
			score,
			targets,
			total,
			fraction,
		); err != nil {
			_ = appender.Close()
			return fmt.Errorf("append question %d: %w", r.QuestionIndex, err)
		}
	}
	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush question scores: %w", err)
	}
	return nil
}

// newScoreAppender creates a DuckDB appender for bulk question score inserts.
func newScoreAppender(conn *sql.Conn) (*duckdb.Appender, error) {
	var appender *duckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		rawConn, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("duckdb driver connection unavailable (got %T)", driverConn)
		}
		var err error
		appender, err = duckdb.NewAppenderFromConn(rawConn, "", "question_scores")
		return err
	}); err != nil {
		return nil, err
	}
	if appender == nil {
		return nil, errors.New("duckdb appender initialization failed")
	}
	return appender, nil
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT CAST(run_id AS VARCHAR), COALESCE(config_path, ''), phase, filters, target_all,
		accuracy, computed, total, completed, skipped
		FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var (
			row      RunRow
			filters  string
			accuracy sql.NullFloat64
			total    int64
			done     int64
			skipped  int64
		)
		if err := rows.Scan(&row.ID, &row.ConfigPath, &row.Phase, &filters, &row.TargetAll,
			&accuracy, &row.Computed, &total, &done, &skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if filters != "" {
			row.Filters = strings.Split(filters, ",")
		}
		row.Accuracy = accuracy.Float64
		row.Total, row.Completed, row.Skipped = int(total), int(done), int(skipped)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ReasonCounts returns the number of questions per reason of a run.
func (s *Store) ReasonCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT reason, questions FROM v_run_reasons WHERE run_id = CAST(? AS UUID)`, runID)
	if err != nil {
		return nil, fmt.Errorf("query reasons: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var reason string
		var count int64
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, fmt.Errorf("scan reason: %w", err)
		}
		out[reason] = int(count)
	}
	return out, rows.Err()
}
