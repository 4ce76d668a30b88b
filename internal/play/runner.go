package play

import (
	"context"
	"errors"
	"time"

	"selecquest/internal/engine"
	"selecquest/internal/storage"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Event describes a finished task.
type Event struct {
	Task      engine.Task
	Mode      engine.TaskMode
	LeveledUp bool
}

// Runner is the idle loop: draw a task, wait for it, record it, repeat.
type Runner struct {
	svc   *Service
	sleep Sleeper
	speed float64
}

func NewRunner(svc *Service, sleep Sleeper) *Runner {
	if sleep == nil {
		sleep = Sleep
	}
	return &Runner{svc: svc, sleep: sleep, speed: 1}
}

// SetSpeed makes every task take 1/speed of its duration. Values <= 0 are
// ignored.
func (r *Runner) SetSpeed(speed float64) {
	if speed > 0 {
		r.speed = speed
	}
}

// Wait is how long the runner waits for task.
func (r *Runner) Wait(task engine.Task) time.Duration {
	return time.Duration(float64(task.DurationMs) / r.speed * float64(time.Millisecond))
}

// Step runs exactly one task for rec.
func (r *Runner) Step(ctx context.Context, rec *storage.HeroRecord) (Event, error) {
	task, err := r.svc.Next(rec)
	if err != nil {
		return Event{}, err
	}
	if err := r.sleep(ctx, r.Wait(task)); err != nil {
		return Event{}, err
	}
	level, mode := rec.Hero.Level, rec.ActiveMode
	if err := r.svc.Complete(ctx, rec, task); err != nil {
		return Event{}, err
	}
	return Event{Task: task, Mode: mode, LeveledUp: rec.Hero.Level > level}, nil
}

// Run steps n times, or until ctx is cancelled when n <= 0. onEvent may be
// nil. Cancellation is not reported as an error.
func (r *Runner) Run(ctx context.Context, rec *storage.HeroRecord, n int, onEvent func(Event)) error {
	for i := 0; n <= 0 || i < n; i++ {
		ev, err := r.Step(ctx, rec)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		if err != nil {
			return err
		}
		if onEvent != nil {
			onEvent(ev)
		}
	}
	return nil
}
