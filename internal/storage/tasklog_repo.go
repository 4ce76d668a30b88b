package storage

import (
	"context"
	"fmt"

	"selecquest/internal/engine"
)

type TaskLogRepo struct {
	db DBTX
}

func NewTaskLogRepo(db DBTX) *TaskLogRepo {
	return &TaskLogRepo{db: db}
}

func (r *TaskLogRepo) Insert(ctx context.Context, e TaskLogEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_log (hero_id, seq, mode, description, duration_ms, hero_level, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.HeroID, e.Seq, int(e.Mode), e.Description, e.DurationMs, e.HeroLevel, e.CompletedAt)
	if err != nil {
		return 0, fmt.Errorf("task log insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task log last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries for heroID, newest first.
func (r *TaskLogRepo) Recent(ctx context.Context, heroID string, limit int) ([]TaskLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hero_id, seq, mode, description, duration_ms, hero_level, completed_at
		FROM task_log
		WHERE hero_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`, heroID, limit)
	if err != nil {
		return nil, fmt.Errorf("task log list: %w", err)
	}
	defer rows.Close()

	var out []TaskLogEntry
	for rows.Next() {
		var (
			e    TaskLogEntry
			mode int
		)
		if err := rows.Scan(&e.ID, &e.HeroID, &e.Seq, &mode, &e.Description, &e.DurationMs, &e.HeroLevel, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("task log scan: %w", err)
		}
		e.Mode = engine.TaskMode(mode)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task log rows: %w", err)
	}
	return out, nil
}

func (r *TaskLogRepo) Count(ctx context.Context, heroID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_log WHERE hero_id = ?`, heroID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("task log count: %w", err)
	}
	return n, nil
}

// TotalDurationMs sums the time heroID has spent on logged tasks.
func (r *TaskLogRepo) TotalDurationMs(ctx context.Context, heroID string) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(duration_ms), 0) FROM task_log WHERE hero_id = ?`, heroID)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("task log duration: %w", err)
	}
	return total, nil
}
