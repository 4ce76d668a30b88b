package storage

import (
	"errors"
	"time"

	"selecquest/internal/engine"
)

// ErrHeroNotFound is returned when no hero matches the requested id.
var ErrHeroNotFound = errors.New("hero not found")

// HeroRecord is one saved game: the hero, the mode it is playing and the seed
// its task draws are derived from.
type HeroRecord struct {
	ID         string
	Seed       int64
	ActiveMode engine.TaskMode
	Hero       *engine.Hero
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// State returns the record as the engine's AppState.
func (r HeroRecord) State() engine.AppState {
	return engine.AppState{Hero: r.Hero, ActiveTaskMode: r.ActiveMode}
}

// TaskLogEntry is one completed task.
type TaskLogEntry struct {
	ID          int64
	HeroID      string
	Seq         int
	Mode        engine.TaskMode
	Description string
	DurationMs  int
	HeroLevel   int
	CompletedAt time.Time
}
