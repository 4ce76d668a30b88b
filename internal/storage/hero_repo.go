package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"selecquest/internal/engine"
)

type HeroRepo struct {
	db DBTX
}

func NewHeroRepo(db DBTX) *HeroRepo {
	return &HeroRepo{db: db}
}

const heroColumns = `id, seed, active_mode, data, created_at, updated_at`

func (r *HeroRepo) Insert(ctx context.Context, rec *HeroRecord) error {
	if rec.Hero == nil {
		return errors.New("hero insert: nil hero")
	}
	data, err := json.Marshal(rec.Hero)
	if err != nil {
		return fmt.Errorf("marshal hero: %w", err)
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO heroes (id, name, game_setting_id, active_mode, level, seed, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Hero.Name, rec.Hero.GameSettingID, int(rec.ActiveMode), rec.Hero.Level, rec.Seed, string(data), now, now)
	if err != nil {
		return fmt.Errorf("hero insert: %w", err)
	}
	rec.CreatedAt, rec.UpdatedAt = now, now
	return nil
}

func (r *HeroRepo) Get(ctx context.Context, id string) (*HeroRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+heroColumns+` FROM heroes WHERE id = ?`, id)
	rec, err := scanHero(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hero %q: %w", id, ErrHeroNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("hero get: %w", err)
	}
	return rec, nil
}

// FindByName returns the most recently played hero called name.
func (r *HeroRepo) FindByName(ctx context.Context, name string) (*HeroRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+heroColumns+` FROM heroes
		WHERE name = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, name)
	rec, err := scanHero(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hero named %q: %w", name, ErrHeroNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("hero find: %w", err)
	}
	return rec, nil
}

// List returns every hero, most recently played first.
func (r *HeroRepo) List(ctx context.Context) ([]HeroRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+heroColumns+` FROM heroes ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("hero list: %w", err)
	}
	defer rows.Close()

	var out []HeroRecord
	for rows.Next() {
		rec, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("hero list: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hero list rows: %w", err)
	}
	return out, nil
}

// Update stores the hero and active mode of rec.
func (r *HeroRepo) Update(ctx context.Context, rec *HeroRecord) error {
	if rec.Hero == nil {
		return errors.New("hero update: nil hero")
	}
	data, err := json.Marshal(rec.Hero)
	if err != nil {
		return fmt.Errorf("marshal hero: %w", err)
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE heroes
		SET name = ?, active_mode = ?, level = ?, data = ?, updated_at = ?
		WHERE id = ?
	`, rec.Hero.Name, int(rec.ActiveMode), rec.Hero.Level, string(data), now, rec.ID)
	if err != nil {
		return fmt.Errorf("hero update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("hero %q: %w", rec.ID, ErrHeroNotFound)
	}
	rec.UpdatedAt = now
	return nil
}

func (r *HeroRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM heroes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("hero delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("hero %q: %w", id, ErrHeroNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHero(s scanner) (*HeroRecord, error) {
	var (
		rec  HeroRecord
		mode int
		data string
	)
	if err := s.Scan(&rec.ID, &rec.Seed, &mode, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.ActiveMode = engine.TaskMode(mode)
	var h engine.Hero
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return nil, fmt.Errorf("unmarshal hero %q: %w", rec.ID, err)
	}
	rec.Hero = &h
	return &rec, nil
}
