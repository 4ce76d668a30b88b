package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selecquest/internal/engine"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleHero(name string) *engine.Hero {
	return &engine.Hero{
		Name:          name,
		RaceName:      "Gnome",
		ClassName:     "Bard",
		GameSettingID: "fantasy",
		Level:         3,
		Stats:         []engine.Stat{{Name: "STR", Value: 12}},
		LootBuildUpRewards: []engine.BuildUpReward{
			{Name: "tail", NamePlural: "tails", Quantity: 2, Value: 1},
		},
		CurrentAdventure: engine.Adventure{Name: "Chapter 1", ProgressRequired: 120},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestHeroesTableCarriesSeed(t *testing.T) {
	db := openTestDB(t)
	rows, err := db.QueryContext(context.Background(), `PRAGMA table_info(heroes)`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	assert.Contains(t, cols, "seed")
}

func TestHeroRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewHeroRepo(openTestDB(t))

	rec := &HeroRecord{ID: "h-1", Seed: 99, ActiveMode: engine.ModeTrial, Hero: sampleHero("Pip")}
	require.NoError(t, repo.Insert(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "h-1")
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Seed)
	assert.Equal(t, engine.ModeTrial, got.ActiveMode)
	assert.Equal(t, rec.Hero, got.Hero)
	assert.Equal(t, engine.AppState{Hero: got.Hero, ActiveTaskMode: engine.ModeTrial}, got.State())

	got.Hero.Level = 4
	got.ActiveMode = engine.ModeQuest
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.FindByName(ctx, "Pip")
	require.NoError(t, err)
	assert.Equal(t, 4, again.Hero.Level)
	assert.Equal(t, engine.ModeQuest, again.ActiveMode)
}

func TestHeroRepoNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewHeroRepo(openTestDB(t))

	_, err := repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrHeroNotFound))
	_, err = repo.FindByName(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrHeroNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &HeroRecord{ID: "missing", Hero: sampleHero("x")}), ErrHeroNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrHeroNotFound)
}

func TestHeroRepoListAndDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	heroes := NewHeroRepo(db)
	log := NewTaskLogRepo(db)

	require.NoError(t, heroes.Insert(ctx, &HeroRecord{ID: "a", Hero: sampleHero("A")}))
	require.NoError(t, heroes.Insert(ctx, &HeroRecord{ID: "b", Hero: sampleHero("B")}))
	_, err := log.Insert(ctx, TaskLogEntry{HeroID: "a", Seq: 1, Description: "Dreaming", DurationMs: 3000, HeroLevel: 1, CompletedAt: time.Now()})
	require.NoError(t, err)

	list, err := heroes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, heroes.Delete(ctx, "a"))
	list, err = heroes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	n, err := log.Count(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n, "log entries go with their hero")
}

func TestTaskLogRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, NewHeroRepo(db).Insert(ctx, &HeroRecord{ID: "h", Hero: sampleHero("H")}))
	log := NewTaskLogRepo(db)

	for i := 1; i <= 5; i++ {
		_, err := log.Insert(ctx, TaskLogEntry{
			HeroID:      "h",
			Seq:         i,
			Mode:        engine.ModeLoot,
			Description: "task",
			DurationMs:  1000 * i,
			HeroLevel:   1,
			CompletedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	recent, err := log.Recent(ctx, "h", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 5, recent[0].Seq)
	assert.Equal(t, 4, recent[1].Seq)

	total, err := log.TotalDurationMs(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), total)

	_, err = log.Insert(ctx, TaskLogEntry{HeroID: "h", Seq: 5, Description: "dup", CompletedAt: time.Now()})
	assert.Error(t, err, "seq is unique per hero")
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := NewHeroRepo(tx).Insert(ctx, &HeroRecord{ID: "tx", Hero: sampleHero("Tx")}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewHeroRepo(db).Get(ctx, "tx")
	assert.ErrorIs(t, err, ErrHeroNotFound)

	require.NoError(t, WithTx(ctx, db, func(tx *sql.Tx) error {
		return NewHeroRepo(tx).Insert(ctx, &HeroRecord{ID: "tx", Hero: sampleHero("Tx")})
	}))
	_, err = NewHeroRepo(db).Get(ctx, "tx")
	assert.NoError(t, err)
}

func TestResolveDBPath(t *testing.T) {
	p, err := ResolveDBPath("/tmp/custom.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", p)

	t.Setenv("HOME", "/home/tester")
	p, err = ResolveDBPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".selecquest.db"), p)
}
