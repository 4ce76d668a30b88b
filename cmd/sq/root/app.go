package root

import (
	"context"
	"os"

	"selecquest/internal/config"
	"selecquest/internal/engine"
	"selecquest/internal/logger"
	"selecquest/internal/play"
	"selecquest/internal/setting"
	"selecquest/internal/storage"
)

// openService wires config, logging, rulesets, the generator and the
// database into a play.Service. The returned cleanup closes the database.
func openService(ctx context.Context, flags *globalFlags) (*play.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	settings, err := setting.LoadManager(cfg.RulesetDir)
	if err != nil {
		return nil, nil, err
	}
	gen, err := engine.NewGenerator(settings, cfg.Game, engine.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	override := cfg.DBPath
	if flags != nil && flags.dbPath != "" {
		override = flags.dbPath
	}
	path, err := storage.ResolveDBPath(override)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("db", path).Debug("database opened")

	svc := play.NewService(db, settings, gen, play.WithLogger(log), play.WithSeed(cfg.Seed))
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup, nil
}
