// Package play ties saved heroes to the task generator: it creates heroes,
// draws their next task and records finished ones.
package play

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"selecquest/internal/engine"
	"selecquest/internal/logger"
	"selecquest/internal/rng"
	"selecquest/internal/setting"
	"selecquest/internal/storage"
)

// DefaultSettingID is used when a new hero does not name a ruleset.
const DefaultSettingID = "fantasy"

type Service struct {
	db       *sql.DB
	heroes   *storage.HeroRepo
	tasks    *storage.TaskLogRepo
	settings *setting.Manager
	gen      *engine.Generator
	log      logrus.FieldLogger
	seed     int64
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(l logrus.FieldLogger) Option { return func(s *Service) { s.log = l } }

// WithSeed fixes the seed of every hero created from now on. Zero keeps
// the default of one fresh seed per hero.
func WithSeed(seed int64) Option { return func(s *Service) { s.seed = seed } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(db *sql.DB, settings *setting.Manager, gen *engine.Generator, opts ...Option) *Service {
	s := &Service{
		db:       db,
		heroes:   storage.NewHeroRepo(db),
		tasks:    storage.NewTaskLogRepo(db),
		settings: settings,
		gen:      gen,
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) TaskLogRepo() *storage.TaskLogRepo { return s.tasks }
func (s *Service) Settings() *setting.Manager        { return s.settings }
func (s *Service) Generator() *engine.Generator      { return s.gen }

// CreateHero rolls stats when none are given, builds the hero and saves it.
func (s *Service) CreateHero(ctx context.Context, in engine.HeroInitData) (*storage.HeroRecord, error) {
	if in.GameSettingID == "" {
		in.GameSettingID = DefaultSettingID
	}
	gs, err := s.settings.Get(in.GameSettingID)
	if err != nil {
		return nil, err
	}
	seed := s.seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	if len(in.Stats) == 0 {
		in.Stats = engine.RollStats(rng.New(seed), gs)
	}
	hero, err := engine.NewHero(in, gs, s.gen.Config())
	if err != nil {
		return nil, err
	}

	rec := &storage.HeroRecord{
		ID:         uuid.NewString(),
		Seed:       seed,
		ActiveMode: engine.ModeLoot,
		Hero:       hero,
	}
	if err := s.heroes.Insert(ctx, rec); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"hero": hero.Name, "id": rec.ID, "setting": gs.GameSettingID}).Info("hero created")
	return rec, nil
}

// Resolve finds a hero by id, falling back to its name.
func (s *Service) Resolve(ctx context.Context, ref string) (*storage.HeroRecord, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return s.heroes.Get(ctx, ref)
	}
	return s.heroes.FindByName(ctx, ref)
}

// Next draws the hero's next task. Draws are derived from the hero's seed and
// completed task count, so a saved game replays identically.
func (s *Service) Next(rec *storage.HeroRecord) (engine.Task, error) {
	if rec == nil || rec.Hero == nil {
		return engine.Task{}, errors.New("next task: no hero")
	}
	r := rng.New(rec.Seed + int64(rec.Hero.TasksCompleted))
	task, err := s.gen.GenerateNextTask(rec.State(), r)
	if err != nil {
		return engine.Task{}, fmt.Errorf("next task for %s: %w", rec.Hero.Name, err)
	}
	return task, nil
}

// Complete saves the task's resulting hero and logs the task in one
// transaction, then moves rec forward.
func (s *Service) Complete(ctx context.Context, rec *storage.HeroRecord, task engine.Task) error {
	if task.ResultingHero == nil {
		return errors.New("complete task: task has no resulting hero")
	}
	next := *rec
	next.Hero = task.ResultingHero

	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := storage.NewHeroRepo(tx).Update(ctx, &next); err != nil {
			return err
		}
		_, err := storage.NewTaskLogRepo(tx).Insert(ctx, storage.TaskLogEntry{
			HeroID:      rec.ID,
			Seq:         next.Hero.TasksCompleted,
			Mode:        rec.ActiveMode,
			Description: task.Description,
			DurationMs:  task.DurationMs,
			HeroLevel:   next.Hero.Level,
			CompletedAt: s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	fields := logrus.Fields{"hero": next.Hero.Name, "task": task.Description, "seq": next.Hero.TasksCompleted}
	if next.Hero.Level > rec.Hero.Level {
		s.log.WithFields(fields).WithField("level", next.Hero.Level).Info("hero leveled up")
	} else {
		s.log.WithFields(fields).Debug("task completed")
	}
	*rec = next
	return nil
}

// SetMode switches the hero's active task mode.
func (s *Service) SetMode(ctx context.Context, rec *storage.HeroRecord, mode engine.TaskMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("set mode: invalid task mode %d", mode)
	}
	if rec.ActiveMode == mode {
		return nil
	}
	prev := rec.ActiveMode
	rec.ActiveMode = mode
	if err := s.heroes.Update(ctx, rec); err != nil {
		rec.ActiveMode = prev
		return err
	}
	s.log.WithFields(logrus.Fields{"hero": rec.Hero.Name, "mode": mode.String()}).Info("task mode changed")
	return nil
}

func (s *Service) List(ctx context.Context) ([]storage.HeroRecord, error) {
	return s.heroes.List(ctx)
}

func (s *Service) Recent(ctx context.Context, rec *storage.HeroRecord, limit int) ([]storage.TaskLogEntry, error) {
	return s.tasks.Recent(ctx, rec.ID, limit)
}

func (s *Service) Delete(ctx context.Context, rec *storage.HeroRecord) error {
	if err := s.heroes.Delete(ctx, rec.ID); err != nil {
		return err
	}
	s.log.WithField("hero", rec.Hero.Name).Info("hero deleted")
	return nil
}
