package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"selecquest/internal/logger"
	"selecquest/internal/rng"
	"selecquest/internal/setting"
)

// SettingLookup resolves the ruleset a hero plays under.
// *setting.Manager satisfies it.
type SettingLookup interface {
	Get(id string) (*setting.GameSetting, error)
}

// LadderKey selects one priority ladder.
type LadderKey struct {
	Mode  TaskMode
	Phase Phase
}

// DefaultCoreRules are checked before any ladder, in this order.
func DefaultCoreRules() []RuleID {
	return []RuleID{RulePrologueTransition, RulePrologueTask, RuleAdventureTransition}
}

// DefaultLadders is the standard priority order of every (mode, phase).
func DefaultLadders() map[LadderKey][]RuleID {
	return map[LadderKey][]RuleID{
		{ModeLoot, PhaseBuildUp}:   {RuleLootStartTeardown, RuleLootBuildUp},
		{ModeLoot, PhaseTeardown}:  {RuleRecalculateRankings, RuleLootEarnMajorReward, RuleLootSell, RuleLootStartBuildUp},
		{ModeTrial, PhaseBuildUp}:  {RuleTrialStartTeardown, RuleTrialBuildUp},
		{ModeTrial, PhaseTeardown}: {RuleRecalculateRankings, RuleGraduateCompetitiveClass, RuleTrialEarnMajorReward, RuleTrialBoast, RuleTrialStartBuildUp},
		{ModeQuest, PhaseBuildUp}:  {RuleQuestStartTeardown, RuleQuestBuildUp},
		{ModeQuest, PhaseTeardown}: {RuleRecalculateRankings, RuleQuestEarnMajorReward, RuleQuestFollowLead, RuleQuestStartBuildUp},
	}
}

// Generator is the task selection state machine. It is safe for concurrent
// use by different heroes; it keeps no per-hero state.
type Generator struct {
	settings SettingLookup
	cfg      GameConfig
	heroes   *HeroManager
	results  *ResultGenerator
	log      logrus.FieldLogger

	rules   map[RuleID]Rule
	core    []RuleID
	ladders map[LadderKey][]RuleID
}

type Option func(*Generator)

// WithLogger routes rule selection logs (debug level) to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = l }
}

// WithLadders replaces the core rule list and the per-mode ladders.
func WithLadders(core []RuleID, ladders map[LadderKey][]RuleID) Option {
	return func(g *Generator) {
		g.core = core
		g.ladders = ladders
	}
}

// NewGenerator builds a generator and checks that every ladder can always
// produce a task.
func NewGenerator(settings SettingLookup, cfg GameConfig, opts ...Option) (*Generator, error) {
	if settings == nil {
		return nil, fmt.Errorf("new generator: nil setting lookup")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new generator: %w", err)
	}
	g := &Generator{
		settings: settings,
		cfg:      cfg,
		heroes:   NewHeroManager(cfg),
		results:  NewResultGenerator(cfg),
		log:      logger.Discard(),
		rules:    defaultRules(),
		core:     DefaultCoreRules(),
		ladders:  DefaultLadders(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.validateLadders(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) validateLadders() error {
	for _, id := range g.core {
		if _, ok := g.rules[id]; !ok {
			return LadderError{Core: true, Reason: fmt.Sprintf("core rule %q is not registered", id)}
		}
	}
	for m := ModeLoot; m <= ModeQuest; m++ {
		for _, p := range []Phase{PhaseBuildUp, PhaseTeardown} {
			key := LadderKey{Mode: m, Phase: p}
			ids, ok := g.ladders[key]
			if !ok || len(ids) == 0 {
				return LadderError{Key: key, Reason: "missing or empty"}
			}
			for _, id := range ids {
				if _, ok := g.rules[id]; !ok {
					return LadderError{Key: key, Reason: fmt.Sprintf("rule %q is not registered", id)}
				}
			}
			last := g.rules[ids[len(ids)-1]]
			var prev Rule
			if len(ids) > 1 {
				prev = g.rules[ids[len(ids)-2]]
			}
			fb, ok := last.(fallback)
			if !ok || !fb.fallbackFor(key, prev) {
				return LadderError{Key: key, Reason: fmt.Sprintf("does not end in a fallback (last rule %q)", last.ID())}
			}
		}
	}
	return nil
}

func (g *Generator) Config() GameConfig { return g.cfg }

// Turn is the read-only context a rule sees for one invocation.
type Turn struct {
	Hero    *Hero
	Mode    TaskMode
	Setting *setting.GameSetting
	Rand    rng.Source

	g *Generator
}

// GenerateNextTask selects the first matching rule for state and runs it.
func (g *Generator) GenerateNextTask(state AppState, r rng.Source) (Task, error) {
	t, err := g.newTurn(state, r)
	if err != nil {
		return Task{}, err
	}
	rule, err := g.SelectRule(t)
	if err != nil {
		return Task{}, err
	}
	task, err := rule.Generate(t)
	if err != nil {
		return Task{}, fmt.Errorf("%s: %w", rule.ID(), err)
	}
	return task, nil
}

func (g *Generator) newTurn(state AppState, r rng.Source) (*Turn, error) {
	if state.Hero == nil {
		return nil, fmt.Errorf("generate task: nil hero")
	}
	if !state.ActiveTaskMode.IsValid() {
		return nil, fmt.Errorf("generate task: invalid task mode %d", state.ActiveTaskMode)
	}
	if r == nil {
		return nil, fmt.Errorf("generate task: nil random source")
	}
	gs, err := g.settings.Get(state.Hero.GameSettingID)
	if err != nil {
		return nil, fmt.Errorf("generate task: %w", err)
	}
	return &Turn{Hero: state.Hero, Mode: state.ActiveTaskMode, Setting: gs, Rand: r, g: g}, nil
}

// SelectRule returns the first core rule that wants to run, otherwise the
// first rule of the active (mode, phase) ladder that does.
func (g *Generator) SelectRule(t *Turn) (Rule, error) {
	phase := PhaseBuildUp
	if t.Hero.IsInTeardownMode[t.Mode] {
		phase = PhaseTeardown
	}
	for _, id := range g.core {
		if rule := g.rules[id]; rule.ShouldRun(t) {
			g.logSelection(t, phase, id, true)
			return rule, nil
		}
	}
	key := LadderKey{Mode: t.Mode, Phase: phase}
	for _, id := range g.ladders[key] {
		if rule := g.rules[id]; rule.ShouldRun(t) {
			g.logSelection(t, phase, id, false)
			return rule, nil
		}
	}
	return nil, SelectionError{Mode: t.Mode, Phase: phase}
}

func (g *Generator) logSelection(t *Turn, phase Phase, id RuleID, core bool) {
	g.log.WithFields(logrus.Fields{
		"hero":  t.Hero.Name,
		"mode":  t.Mode.String(),
		"phase": phase.String(),
		"rule":  string(id),
		"core":  core,
	}).Debug("selected task rule")
}

// resultingHero applies the task's modifications, then the level-up
// modifications when the task pushed the hero over the threshold.
func (t *Turn) resultingHero(mods []Modification) (*Hero, error) {
	updated, err := t.g.heroes.ApplyHeroTaskUpdates(t.Hero, mods)
	if err != nil {
		return nil, err
	}
	if t.g.heroes.HasHeroReachedNextLevel(updated) {
		levelUp := t.g.results.LevelUpModifications(t.Rand, updated, t.Setting)
		updated, err = t.g.heroes.ApplyHeroModifications(updated, levelUp, false)
		if err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (t *Turn) task(description string, durationMs int, mods []Modification) (Task, error) {
	hero, err := t.resultingHero(mods)
	if err != nil {
		return Task{}, err
	}
	return Task{Description: description, DurationMs: durationMs, ResultingHero: hero}, nil
}

func (t *Turn) modeData(m TaskMode) setting.TaskModeData {
	if int(m) < len(t.Setting.TaskModeData) {
		return t.Setting.TaskModeData[m]
	}
	return setting.TaskModeData{}
}
