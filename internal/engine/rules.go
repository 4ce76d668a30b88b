package engine

import (
	"math"

	"selecquest/internal/rng"
	"selecquest/internal/words"
)

// RuleID names a task rule in a ladder.
type RuleID string

const (
	RulePrologueTransition  RuleID = "prologue-transition"
	RulePrologueTask        RuleID = "prologue-task"
	RuleAdventureTransition RuleID = "adventure-transition"

	RuleLootStartTeardown   RuleID = "loot-start-teardown"
	RuleLootBuildUp         RuleID = "loot-build-up"
	RuleLootEarnMajorReward RuleID = "loot-earn-major-reward"
	RuleLootSell            RuleID = "loot-sell"
	RuleLootStartBuildUp    RuleID = "loot-start-build-up"

	RuleTrialStartTeardown   RuleID = "trial-start-teardown"
	RuleTrialBuildUp         RuleID = "trial-build-up"
	RuleTrialEarnMajorReward RuleID = "trial-earn-major-reward"
	RuleTrialBoast           RuleID = "trial-boast"
	RuleTrialStartBuildUp    RuleID = "trial-start-build-up"

	RuleQuestStartTeardown   RuleID = "quest-start-teardown"
	RuleQuestBuildUp         RuleID = "quest-build-up"
	RuleQuestEarnMajorReward RuleID = "quest-earn-major-reward"
	RuleQuestFollowLead      RuleID = "quest-follow-lead"
	RuleQuestStartBuildUp    RuleID = "quest-start-build-up"

	RuleRecalculateRankings      RuleID = "recalculate-rankings"
	RuleGraduateCompetitiveClass RuleID = "graduate-competitive-class"
)

const (
	startPhaseDurationMs       = 4000
	earnMajorRewardDurationMs  = 5000
	teardownOneDurationMs      = 1000
	recalculateDurationMs      = 3000
	graduateDurationMs         = 4000
	prologueTransitionDuration = 20

	majorRewardLevelWindow = 4
	graduationMaxRanking   = 5
	envLimitRelief         = 2
)

// Rule is one candidate task. ShouldRun may draw from t.Rand.
type Rule interface {
	ID() RuleID
	ShouldRun(t *Turn) bool
	Generate(t *Turn) (Task, error)
}

// fallback is implemented by rules that can close a ladder: on their own, or
// together with the rule ranked just above them, they match every state.
type fallback interface {
	fallbackFor(key LadderKey, prev Rule) bool
}

func defaultRules() map[RuleID]Rule {
	list := []Rule{
		prologueTransitionRule{},
		prologueTaskRule{},
		adventureTransitionRule{},

		startTeardownRule{id: RuleLootStartTeardown, mode: ModeLoot},
		lootBuildUpRule{},
		earnMajorRewardRule{id: RuleLootEarnMajorReward, mode: ModeLoot},
		sellLootRule{},
		startBuildUpRule{id: RuleLootStartBuildUp, mode: ModeLoot},

		startTeardownRule{id: RuleTrialStartTeardown, mode: ModeTrial},
		trialBuildUpRule{},
		earnMajorRewardRule{id: RuleTrialEarnMajorReward, mode: ModeTrial},
		boastTrophyRule{},
		startBuildUpRule{id: RuleTrialStartBuildUp, mode: ModeTrial},

		startTeardownRule{id: RuleQuestStartTeardown, mode: ModeQuest},
		questBuildUpRule{},
		earnMajorRewardRule{id: RuleQuestEarnMajorReward, mode: ModeQuest},
		followLeadRule{},
		startBuildUpRule{id: RuleQuestStartBuildUp, mode: ModeQuest},

		recalculateRankingsRule{},
		graduateCompetitiveClassRule{},
	}
	out := make(map[RuleID]Rule, len(list))
	for _, r := range list {
		out[r.ID()] = r
	}
	return out
}

// halvedWhen divides v by 2 (rounding up) when the environment is exhausted.
func halvedWhen(exhausted bool, v int) int {
	if exhausted {
		return int(math.Ceil(float64(v) / 2))
	}
	return v
}

// reliefOutside lets the environments of every other mode recover a little.
func reliefOutside(active TaskMode) []Modification {
	mods := make([]Modification, 0, ModeCount-1)
	for m := ModeLoot; m < ModeCount; m++ {
		if m != active {
			mods = append(mods, Decrease{Attr: envLimitScalar(m), Amount: envLimitRelief})
		}
	}
	return mods
}

func buildUpDurationSeconds(taskLevel, heroLevel int) int {
	return int(math.Floor(6 * float64(taskLevel) / float64(max(heroLevel, 1))))
}

// --- core rules ---

type prologueTransitionRule struct{}

func (prologueTransitionRule) ID() RuleID { return RulePrologueTransition }

func (prologueTransitionRule) ShouldRun(t *Turn) bool {
	return t.Hero.CurrentAdventure.Name == t.Setting.PrologueAdventureName &&
		t.Hero.AdventureProgress >= t.Hero.CurrentAdventure.ProgressRequired
}

func (prologueTransitionRule) Generate(t *Turn) (Task, error) {
	mods, err := t.g.results.NewAdventureResults(t.Rand, t.Hero, t.Setting, false)
	if err != nil {
		return Task{}, err
	}
	return t.task("Loading", prologueTransitionDuration, mods)
}

type prologueTaskRule struct{}

func (prologueTaskRule) ID() RuleID { return RulePrologueTask }

func (prologueTaskRule) ShouldRun(t *Turn) bool {
	return t.Hero.CurrentAdventure.Name == t.Setting.PrologueAdventureName
}

func (prologueTaskRule) Generate(t *Turn) (Task, error) {
	tasks := t.Setting.PrologueTasks
	if len(tasks) == 0 {
		return Task{}, ContentError{Setting: t.Setting.GameSettingID, Table: "prologueTasks"}
	}
	// The current task is the first one whose start offset has not been
	// passed yet.
	cur := tasks[len(tasks)-1]
	offset := 0
	for _, pt := range tasks {
		if t.Hero.AdventureProgress <= offset {
			cur = pt
			break
		}
		offset += pt.DurationSeconds
	}
	mods := []Modification{Increase{Attr: ScalarAdventureProgress, Amount: cur.DurationSeconds}}
	return t.task(cur.TaskDescription, cur.DurationSeconds*1000, mods)
}

type adventureTransitionRule struct{}

func (adventureTransitionRule) ID() RuleID { return RuleAdventureTransition }

func (adventureTransitionRule) ShouldRun(t *Turn) bool {
	return t.Hero.AdventureProgress >= t.Hero.CurrentAdventure.ProgressRequired
}

func (adventureTransitionRule) Generate(t *Turn) (Task, error) {
	mods, err := t.g.results.NewAdventureResults(t.Rand, t.Hero, t.Setting, true)
	if err != nil {
		return Task{}, err
	}
	desc := rng.FromList(t.Rand, t.Setting.AdventureTransitionTaskDescriptions)
	return t.task(desc, rng.Range(t.Rand, 2, 3)*1000, mods)
}

// --- phase switches ---

// startTeardownRule fires once the active mode's build-up is full.
type startTeardownRule struct {
	id   RuleID
	mode TaskMode
}

func (r startTeardownRule) ID() RuleID { return r.id }

func (r startTeardownRule) ShouldRun(t *Turn) bool {
	if t.Mode != r.mode {
		return false
	}
	switch r.mode {
	case ModeLoot:
		return t.Hero.BuildUpCount(ModeLoot) >= t.Hero.MaxLootBuildUp
	case ModeTrial:
		return t.Hero.BuildUpCount(ModeTrial) >= t.Hero.MaxTrialBuildUp
	default:
		return len(t.Hero.QuestBuildUpRewards) >= t.Hero.MaxQuestBuildUp
	}
}

func (r startTeardownRule) Generate(t *Turn) (Task, error) {
	mods := []Modification{
		SetForMode{Flag: FlagIsInTeardownMode, Mode: r.mode, Value: true},
		SetForMode{Flag: FlagHasTrialRankingBeenRecalculated, Mode: r.mode, Value: false},
	}
	desc := rng.FromList(t.Rand, t.modeData(r.mode).StartTearDownTaskDescriptionOptions)
	return t.task(desc, startPhaseDurationMs, mods)
}

// startBuildUpRule returns the mode to build-up once everything is sold.
type startBuildUpRule struct {
	id   RuleID
	mode TaskMode
}

func (r startBuildUpRule) ID() RuleID { return r.id }

func (r startBuildUpRule) ShouldRun(t *Turn) bool {
	return t.Hero.BuildUpEntries(r.mode) <= 0
}

func (r startBuildUpRule) Generate(t *Turn) (Task, error) {
	mods := []Modification{SetForMode{Flag: FlagIsInTeardownMode, Mode: r.mode, Value: false}}
	tpl := rng.FromList(t.Rand, t.modeData(r.mode).StartBuildUpTaskDescriptionOptions)
	return t.task(t.Setting.HydrateFromNameSources(t.Rand, tpl), startPhaseDurationMs, mods)
}

func (r startBuildUpRule) fallbackFor(key LadderKey, prev Rule) bool {
	if key.Phase != PhaseTeardown || key.Mode != r.mode || prev == nil {
		return false
	}
	td, ok := prev.(interface{ teardownMode() TaskMode })
	return ok && td.teardownMode() == r.mode
}

// --- build-up rules ---

type lootBuildUpRule struct{}

func (lootBuildUpRule) ID() RuleID { return RuleLootBuildUp }

func (lootBuildUpRule) ShouldRun(*Turn) bool { return true }

func (lootBuildUpRule) Generate(t *Turn) (Task, error) {
	c, err := lootingContents(t.Rand, t.Hero, t.Setting)
	if err != nil {
		return Task{}, err
	}
	secs := buildUpDurationSeconds(c.level, t.Hero.Level)
	saturated := t.Hero.LootEnvironmentalLimit >= t.Hero.MaxLootEnvironmentalLimit
	gain := halvedWhen(saturated, secs)
	mods := []Modification{
		AddBuildUpRewards{Mode: ModeLoot, Rewards: []BuildUpReward{c.reward}},
	}
	mods = append(mods, reliefOutside(ModeLoot)...)
	mods = append(mods,
		Increase{Attr: ScalarCurrentXP, Amount: gain},
		Increase{Attr: ScalarAdventureProgress, Amount: gain},
	)
	return t.task(c.name, secs*1000, mods)
}

func (lootBuildUpRule) fallbackFor(key LadderKey, _ Rule) bool {
	return key.Phase == PhaseBuildUp
}

type trialBuildUpRule struct{}

func (trialBuildUpRule) ID() RuleID { return RuleTrialBuildUp }

func (trialBuildUpRule) ShouldRun(*Turn) bool { return true }

func (trialBuildUpRule) Generate(t *Turn) (Task, error) {
	c, err := gladiatingContents(t.Rand, t.Hero, t.Setting)
	if err != nil {
		return Task{}, err
	}
	secs := buildUpDurationSeconds(c.level, t.Hero.Level)
	fatigued := t.Hero.TrialEnvironmentalLimit >= t.Hero.MaxTrialEnvironmentalLimit
	gain := halvedWhen(fatigued, secs)
	mods := []Modification{
		AddBuildUpRewards{Mode: ModeTrial, Rewards: []BuildUpReward{c.reward}},
	}
	mods = append(mods, reliefOutside(ModeTrial)...)
	mods = append(mods,
		Increase{Attr: ScalarCurrentXP, Amount: gain},
		Increase{Attr: ScalarAdventureProgress, Amount: gain},
	)
	return t.task(c.name, secs*1000, mods)
}

func (trialBuildUpRule) fallbackFor(key LadderKey, _ Rule) bool {
	return key.Phase == PhaseBuildUp
}

type questBuildUpRule struct{}

func (questBuildUpRule) ID() RuleID { return RuleQuestBuildUp }

func (questBuildUpRule) ShouldRun(*Turn) bool { return true }

func (questBuildUpRule) Generate(t *Turn) (Task, error) {
	name, lead, err := investigatingContents(t.Rand, t.Hero, t.Setting)
	if err != nil {
		return Task{}, err
	}
	mods := []Modification{AddQuestLeads{Leads: []QuestLead{lead}}}
	return t.task(name, 1000, mods)
}

func (questBuildUpRule) fallbackFor(key LadderKey, _ Rule) bool {
	return key.Phase == PhaseBuildUp
}

// --- teardown rules ---

// sellLootRule sells the whole stack of the first loot entry.
type sellLootRule struct{}

func (sellLootRule) ID() RuleID             { return RuleLootSell }
func (sellLootRule) teardownMode() TaskMode { return ModeLoot }

func (sellLootRule) ShouldRun(t *Turn) bool {
	return len(t.Hero.LootBuildUpRewards) > 0
}

func (sellLootRule) Generate(t *Turn) (Task, error) {
	item := t.Hero.LootBuildUpRewards[0]
	saturated := t.Hero.LootEnvironmentalLimit >= t.Hero.MaxLootEnvironmentalLimit
	value := float64(item.Quantity*item.Value*t.Hero.Level) / divisor(saturated)
	mods := []Modification{
		RemoveBuildUpRewards{Mode: ModeLoot, Rewards: []BuildUpReward{{Name: item.Name, Quantity: item.Quantity}}},
		AddCurrency{Ledger: LedgerCurrency, Mode: ModeLoot, Amount: value},
		Increase{Attr: envLimitScalar(ModeLoot), Amount: item.Quantity},
	}
	return t.task("Selling "+words.Indefinite(stackName(item), item.Quantity), teardownOneDurationMs, mods)
}

// boastTrophyRule boasts of the whole stack of the first trophy entry.
type boastTrophyRule struct{}

func (boastTrophyRule) ID() RuleID             { return RuleTrialBoast }
func (boastTrophyRule) teardownMode() TaskMode { return ModeTrial }

func (boastTrophyRule) ShouldRun(t *Turn) bool {
	return len(t.Hero.TrialBuildUpRewards) > 0
}

func (boastTrophyRule) Generate(t *Turn) (Task, error) {
	item := t.Hero.TrialBuildUpRewards[0]
	fatigued := t.Hero.TrialEnvironmentalLimit >= t.Hero.MaxTrialEnvironmentalLimit
	value := float64(item.Quantity*item.Value*t.Hero.Level) / divisor(fatigued)
	mods := []Modification{
		RemoveBuildUpRewards{Mode: ModeTrial, Rewards: []BuildUpReward{{Name: item.Name, Quantity: item.Quantity}}},
		AddCurrency{Ledger: LedgerCurrency, Mode: ModeTrial, Amount: value},
		Increase{Attr: envLimitScalar(ModeTrial), Amount: 1},
	}
	return t.task("Boasting of "+words.Indefinite(stackName(item), item.Quantity), teardownOneDurationMs, mods)
}

// followLeadRule follows up the oldest lead in the questlog.
type followLeadRule struct{}

func (followLeadRule) ID() RuleID             { return RuleQuestFollowLead }
func (followLeadRule) teardownMode() TaskMode { return ModeQuest }

func (followLeadRule) ShouldRun(t *Turn) bool {
	return len(t.Hero.QuestBuildUpRewards) > 0
}

func (followLeadRule) Generate(t *Turn) (Task, error) {
	lead := t.Hero.QuestBuildUpRewards[0]
	overexposed := t.Hero.QuestEnvironmentalLimit >= t.Hero.MaxQuestEnvironmentalLimit
	value := float64(lead.Value*t.Hero.Level) / divisor(overexposed)
	secs := rng.Range(t.Rand, 5, 8)
	gain := halvedWhen(overexposed, secs)
	mods := []Modification{
		RemoveQuestLeads{Leads: []QuestLead{lead}},
		AddCurrency{Ledger: LedgerCurrency, Mode: ModeQuest, Amount: value},
		Increase{Attr: envLimitScalar(ModeQuest), Amount: 1},
	}
	mods = append(mods, reliefOutside(ModeQuest)...)
	mods = append(mods,
		Increase{Attr: ScalarCurrentXP, Amount: gain},
		Increase{Attr: ScalarAdventureProgress, Amount: gain},
	)
	return t.task(lead.TaskName, secs*1000, mods)
}

func divisor(exhausted bool) float64 {
	if exhausted {
		return 2
	}
	return 1
}

func stackName(r BuildUpReward) string {
	if r.Quantity == 1 {
		return r.Name
	}
	return pluralName(r.Name, r.NamePlural)
}

// --- rewards ---

// earnMajorRewardRule trades banked currency for a major reward once the
// mode's build-up has been liquidated.
type earnMajorRewardRule struct {
	id   RuleID
	mode TaskMode
}

func (r earnMajorRewardRule) ID() RuleID { return r.id }

func (r earnMajorRewardRule) ShouldRun(t *Turn) bool {
	return t.Hero.BuildUpCount(r.mode) <= 0 &&
		t.Hero.AvailableCurrency(r.mode) >= TradeInCostForLevel(t.Mode, t.Hero.Level)
}

func (r earnMajorRewardRule) Generate(t *Turn) (Task, error) {
	h := t.Hero
	var (
		mods []Modification
		cost float64
	)
	switch r.mode {
	case ModeLoot:
		level := max(min(RandomizeTargetLevel(t.Rand, h.Level), h.Level), h.Level-majorRewardLevelWindow, 1)
		mod, err := t.g.results.NewLootMajorRewardModification(t.Rand, level, h.LootMajorRewards, t.Setting)
		if err != nil {
			return Task{}, err
		}
		mods = []Modification{mod}
		cost = TradeInCostForLevel(t.Mode, level)
	case ModeTrial:
		trial, err := t.g.results.NewTrialMajorRewardModifications(t.Rand, h, t.Setting)
		if err != nil {
			return Task{}, err
		}
		mods = trial
		cost = TradeInCostForLevel(t.Mode, h.Level)
	default:
		mod, err := t.g.results.NewQuestMajorRewardModification(t.Rand, h, t.Setting)
		if err != nil {
			return Task{}, err
		}
		mods = []Modification{mod}
		cost = TradeInCostForLevel(t.Mode, h.Level)
	}
	mods = append(mods, AddCurrency{Ledger: LedgerSpentCurrency, Mode: r.mode, Amount: cost})
	desc := rng.FromList(t.Rand, t.modeData(r.mode).EarnMajorRewardTaskDescriptionOptions)
	return t.task(desc, earnMajorRewardDurationMs, mods)
}

// recalculateRankingsRule refreshes trial rankings once per teardown of any
// mode.
type recalculateRankingsRule struct{}

func (recalculateRankingsRule) ID() RuleID { return RuleRecalculateRankings }

func (recalculateRankingsRule) ShouldRun(t *Turn) bool {
	return t.Hero.BuildUpEntries(t.Mode) <= 0 && !t.Hero.HasTrialRankingBeenRecalculated[t.Mode]
}

func (recalculateRankingsRule) Generate(t *Turn) (Task, error) {
	mods := t.g.results.TrialRankingUpdateModifications(t.Rand, t.Hero)
	mods = append(mods, SetForMode{Flag: FlagHasTrialRankingBeenRecalculated, Mode: t.Mode, Value: true})
	return t.task("Recalculating rankings", recalculateDurationMs, mods)
}

// graduateCompetitiveClassRule may promote a hero whose every ranking is in
// the top five. The better the average ranking, the likelier it fires.
type graduateCompetitiveClassRule struct{}

func (graduateCompetitiveClassRule) ID() RuleID { return RuleGraduateCompetitiveClass }

func (graduateCompetitiveClassRule) ShouldRun(t *Turn) bool {
	h := t.Hero
	if h.BuildUpEntries(t.Mode) > 0 || !h.HasTrialRankingBeenRecalculated[t.Mode] || len(h.TrialRankings) == 0 {
		return false
	}
	total := 0
	for _, r := range h.TrialRankings {
		if r.CurrentRanking > graduationMaxRanking {
			return false
		}
		total += r.CurrentRanking
	}
	avg := float64(total) / float64(len(h.TrialRankings))
	score := int(math.Round(avg * avg * t.g.cfg.CompetitiveClassGraduationChanceCoefficient))
	return rng.Range(t.Rand, 0, score) == 0
}

func (graduateCompetitiveClassRule) Generate(t *Turn) (Task, error) {
	mods := t.g.results.NewCompetitiveClassModifications(t.Hero)
	return t.task("Taking your skillz to the next level of competition", graduateDurationMs, mods)
}
