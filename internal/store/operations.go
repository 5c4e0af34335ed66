package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backupctl/internal/model"
)

// InsertOperation records the start of an invocation in the audit trail and
// returns its assigned id. It is a fire-and-forget write outside the
// caller's own transaction, so the record survives even if that transaction
// later aborts.
func (s *Store) InsertOperation(ctx context.Context, name, parameters string, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO operations (name, parameters, started_at, status) VALUES (?, ?, ?, ?)",
		name, parameters, formatTime(startedAt), "running",
	)
	if err != nil {
		return 0, translate(err, "inserting operation")
	}
	return res.LastInsertId()
}

// FinishOperation marks an operation record as finished with the given
// status ("ok" or "error").
func (s *Store) FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE operations SET status = ?, finished_at = ? WHERE id = ?",
		status, formatTime(finishedAt), id,
	)
	return translate(err, "finishing operation")
}

// ListOperations returns the most recent operations, newest first, capped
// at limit rows.
func (s *Store) ListOperations(ctx context.Context, limit int) ([]model.Operation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, parameters, started_at, finished_at, status FROM operations ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, translate(err, "listing operations")
	}
	defer rows.Close()

	var out []model.Operation
	for rows.Next() {
		var op model.Operation
		var startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&op.ID, &op.Name, &op.Parameters, &startedAt, &finishedAt, &op.Status); err != nil {
			return nil, translate(err, "scanning operation")
		}
		t, err := parseTime(startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at: %w: %v", model.ErrConstraint, err)
		}
		op.StartedAt = t
		if finishedAt.Valid {
			ft, err := parseTime(finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing finished_at: %w: %v", model.ErrConstraint, err)
			}
			op.FinishedAt = &ft
		}
		out = append(out, op)
	}
	return out, translate(rows.Err(), "listing operations")
}
