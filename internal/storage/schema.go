package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS heroes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			game_setting_id TEXT NOT NULL,
			active_mode INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			seed INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS task_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hero_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			mode INTEGER NOT NULL,
			description TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			hero_level INTEGER NOT NULL,
			completed_at DATETIME NOT NULL,
			FOREIGN KEY(hero_id) REFERENCES heroes(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_heroes_name ON heroes(name);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_task_log_hero_seq ON task_log(hero_id, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
