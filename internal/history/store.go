package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded translation run.
type Run struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	Source       string
	Template     string
	Model        string
	RowCount     int
	Succeeded    int
	Failed       int
	TotalCost    *float64
	PromptTokens int
	OutputTokens int
	CSVPath      string
	TXTPath      string
}

// Store provides access to the run ledger.
type Store struct {
	db *DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *DB) *Store {
	return &Store{db: database}
}

// Record inserts a run. If run.ID is empty a UUID is generated; if StartedAt
// is zero the current time is used. The stored ID is returned.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	var totalCost sql.NullFloat64
	if run.TotalCost != nil {
		totalCost = sql.NullFloat64{Float64: *run.TotalCost, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, duration_ms, source, template, model,
			row_count, succeeded, failed, total_cost,
			prompt_tokens, output_tokens, csv_path, txt_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.DateTime),
		run.Duration.Milliseconds(),
		run.Source,
		run.Template,
		run.Model,
		run.RowCount,
		run.Succeeded,
		run.Failed,
		totalCost,
		run.PromptTokens,
		run.OutputTokens,
		run.CSVPath,
		run.TXTPath,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return run.ID, nil
}

// GetByID retrieves a single run. A missing ID surfaces as sql.ErrNoRows.
func (s *Store) GetByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM runs WHERE id = ?", id)
	return scanInto(row)
}

// Filter controls which runs List returns.
type Filter struct {
	Model  string
	Source string
	Limit  int
}

// List returns runs matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Model != "" {
		clauses = append(clauses, "model = ?")
		args = append(args, filter.Model)
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, filter.Source)
	}

	query := selectColumns + " FROM runs"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	// rowid breaks ties between runs recorded within the same second.
	query += " ORDER BY started_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

const selectColumns = `SELECT id, started_at, duration_ms, source, template, model,
	row_count, succeeded, failed, total_cost, prompt_tokens, output_tokens, csv_path, txt_path`

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Run, error) {
	var (
		r          Run
		ts         string
		durationMS int64
		totalCost  sql.NullFloat64
	)

	err := sc.Scan(
		&r.ID, &ts, &durationMS, &r.Source, &r.Template, &r.Model,
		&r.RowCount, &r.Succeeded, &r.Failed, &totalCost,
		&r.PromptTokens, &r.OutputTokens, &r.CSVPath, &r.TXTPath,
	)
	if err != nil {
		return nil, err
	}

	r.Duration = time.Duration(durationMS) * time.Millisecond

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		r.StartedAt = t
	} else if t, parseErr := time.Parse("2006-01-02T15:04:05Z", ts); parseErr == nil {
		r.StartedAt = t
	}

	if totalCost.Valid {
		r.TotalCost = &totalCost.Float64
	}

	return &r, nil
}
