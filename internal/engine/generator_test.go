package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selecquest/internal/rng"
	"selecquest/internal/setting"
)

func TestLadderCoverage(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	cases := []struct {
		name    string
		mode    TaskMode
		prepare func(h *Hero)
		rand    rng.Source
		rule    RuleID
		check   func(t *testing.T, task Task)
	}{
		{
			name: "loot start teardown",
			mode: ModeLoot,
			prepare: func(h *Hero) {
				h.LootBuildUpRewards = []BuildUpReward{{Name: "tail", NamePlural: "tails", Quantity: h.MaxLootBuildUp, Value: 1}}
			},
			rule: RuleLootStartTeardown,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "loot teardown", task.Description)
			},
		},
		{
			name: "loot build-up",
			mode: ModeLoot,
			rule: RuleLootBuildUp,
			check: func(t *testing.T, task Task) {
				assert.True(t, strings.HasPrefix(task.Description, "Executing ") || strings.HasPrefix(task.Description, "Exploring "), task.Description)
				assert.Len(t, task.ResultingHero.LootBuildUpRewards, 1)
			},
		},
		{
			name: "loot recalculate rankings",
			mode: ModeLoot,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeLoot] = true
				h.HasTrialRankingBeenRecalculated[ModeLoot] = false
			},
			rule: RuleRecalculateRankings,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "Recalculating rankings", task.Description)
				assert.True(t, task.ResultingHero.HasTrialRankingBeenRecalculated[ModeLoot])
			},
		},
		{
			name: "loot earn major reward",
			mode: ModeLoot,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeLoot] = true
				h.Currency[ModeLoot] = 1000
			},
			rule: RuleLootEarnMajorReward,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "loot reward", task.Description)
				require.Len(t, task.ResultingHero.LootMajorRewards, 1)
				assert.Equal(t, TradeInCostForLevel(ModeLoot, 1), task.ResultingHero.SpentCurrency[ModeLoot])
			},
		},
		{
			name: "loot sell",
			mode: ModeLoot,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeLoot] = true
				h.LootBuildUpRewards = []BuildUpReward{{Name: "tail", NamePlural: "tails", Quantity: 3, Value: 2}}
			},
			rule: RuleLootSell,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "Selling 3 tails", task.Description)
				assert.Equal(t, 1000, task.DurationMs)
				assert.Empty(t, task.ResultingHero.LootBuildUpRewards)
				assert.Equal(t, 6.0, task.ResultingHero.Currency[ModeLoot])
				assert.Equal(t, 3, task.ResultingHero.LootEnvironmentalLimit)
			},
		},
		{
			name: "loot start build-up",
			mode: ModeLoot,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeLoot] = true
			},
			rule: RuleLootStartBuildUp,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "loot build-up in Town", task.Description)
			},
		},
		{
			name: "trial start teardown",
			mode: ModeTrial,
			prepare: func(h *Hero) {
				h.TrialBuildUpRewards = []BuildUpReward{{Name: "Ribbon", Quantity: h.MaxTrialBuildUp, Value: 1}}
			},
			rule: RuleTrialStartTeardown,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "trial teardown", task.Description)
			},
		},
		{
			name: "trial build-up",
			mode: ModeTrial,
			rule: RuleTrialBuildUp,
			check: func(t *testing.T, task Task) {
				assert.True(t, strings.HasPrefix(task.Description, "Dueling ") || strings.HasPrefix(task.Description, "Competing in "), task.Description)
				assert.Len(t, task.ResultingHero.TrialBuildUpRewards, 1)
			},
		},
		{
			name: "trial graduate",
			mode: ModeTrial,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeTrial] = true
				for i := range h.TrialRankings {
					h.TrialRankings[i].CurrentRanking = 1
				}
			},
			rand: &rng.Script{Draws: []int{0}},
			rule: RuleGraduateCompetitiveClass,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "Taking your skillz to the next level of competition", task.Description)
				assert.Equal(t, 1, task.ResultingHero.CompetitiveClass)
				for _, r := range task.ResultingHero.TrialRankings {
					assert.Equal(t, cfg.StartingTrialRanking, r.CurrentRanking)
				}
			},
		},
		{
			name: "trial earn major reward",
			mode: ModeTrial,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeTrial] = true
				h.Currency[ModeTrial] = 1000
			},
			rule: RuleTrialEarnMajorReward,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "trial reward", task.Description)
				assert.Len(t, task.ResultingHero.TrialMajorRewards, 1)
			},
		},
		{
			name: "trial boast",
			mode: ModeTrial,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeTrial] = true
				h.TrialBuildUpRewards = []BuildUpReward{{Name: "Ribbon", NamePlural: "Ribbons", Quantity: 1, Value: 1}}
			},
			rule: RuleTrialBoast,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "Boasting of a Ribbon", task.Description)
				assert.Equal(t, 1, task.ResultingHero.TrialEnvironmentalLimit)
			},
		},
		{
			name: "trial start build-up",
			mode: ModeTrial,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeTrial] = true
			},
			rule: RuleTrialStartBuildUp,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "trial build-up in Town", task.Description)
				assert.False(t, task.ResultingHero.IsInTeardownMode[ModeTrial])
			},
		},
		{
			name: "quest start teardown",
			mode: ModeQuest,
			prepare: func(h *Hero) {
				for i := 0; i < h.MaxQuestBuildUp; i++ {
					h.QuestBuildUpRewards = append(h.QuestBuildUpRewards, QuestLead{QuestlogName: "Lead", TaskName: "Leading", Value: 1})
				}
			},
			rule: RuleQuestStartTeardown,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "quest teardown", task.Description)
			},
		},
		{
			name: "quest build-up",
			mode: ModeQuest,
			rule: RuleQuestBuildUp,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "Asking the barkeep", task.Description)
				assert.Equal(t, 1000, task.DurationMs)
				require.Len(t, task.ResultingHero.QuestBuildUpRewards, 1)
				lead := task.ResultingHero.QuestBuildUpRewards[0]
				assert.True(t, strings.HasPrefix(lead.QuestlogName, "Fetch the "), lead.QuestlogName)
				assert.True(t, strings.HasPrefix(lead.TaskName, "Fetching the "), lead.TaskName)
			},
		},
		{
			name: "quest earn major reward",
			mode: ModeQuest,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeQuest] = true
				h.Currency[ModeQuest] = 1000
			},
			rule: RuleQuestEarnMajorReward,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "quest reward", task.Description)
				require.Len(t, task.ResultingHero.QuestMajorRewards, 1)
				assert.Equal(t, "Clerk of the Guild", task.ResultingHero.QuestMajorRewards[0].Description)
			},
		},
		{
			name: "quest follow lead",
			mode: ModeQuest,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeQuest] = true
				h.QuestBuildUpRewards = []QuestLead{{QuestlogName: "Fetch the cup", TaskName: "Fetching the cup", Value: 1}}
			},
			rule: RuleQuestFollowLead,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "Fetching the cup", task.Description)
				assert.GreaterOrEqual(t, task.DurationMs, 5000)
				assert.LessOrEqual(t, task.DurationMs, 8000)
				assert.Empty(t, task.ResultingHero.QuestBuildUpRewards)
			},
		},
		{
			name: "quest start build-up",
			mode: ModeQuest,
			prepare: func(h *Hero) {
				h.IsInTeardownMode[ModeQuest] = true
			},
			rule: RuleQuestStartBuildUp,
			check: func(t *testing.T, task Task) {
				assert.Equal(t, "quest build-up in Town", task.Description)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newAdventuringHero(t, gs, cfg)
			if tc.prepare != nil {
				tc.prepare(h)
			}
			before := h.Clone()
			r := tc.rand
			if r == nil {
				r = rng.New(11)
			}
			state := AppState{Hero: h, ActiveTaskMode: tc.mode}

			turn, err := g.newTurn(state, r)
			require.NoError(t, err)
			rule, err := g.SelectRule(turn)
			require.NoError(t, err)
			require.Equal(t, tc.rule, rule.ID())

			task, err := rule.Generate(turn)
			require.NoError(t, err)
			require.NotNil(t, task.ResultingHero)
			assert.Equal(t, before, h, "input hero must not change")
			assert.Equal(t, h.TasksCompleted+1, task.ResultingHero.TasksCompleted)
			tc.check(t, task)
		})
	}
}

func TestCoreRulesTakePriority(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	h, err := NewHero(HeroInitData{Name: "New", RaceName: "Gnome", ClassName: "Bard"}, gs, cfg)
	require.NoError(t, err)
	// A full loot pack would start a teardown outside the prologue.
	h.LootBuildUpRewards = []BuildUpReward{{Name: "tail", Quantity: h.MaxLootBuildUp, Value: 1}}

	task, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeLoot}, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, "Dreaming", task.Description)
	assert.Equal(t, 3000, task.DurationMs)
	assert.Equal(t, 3, task.ResultingHero.AdventureProgress)

	task, err = g.GenerateNextTask(AppState{Hero: task.ResultingHero, ActiveTaskMode: ModeLoot}, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, "Waking", task.Description)
	assert.Equal(t, 5, task.ResultingHero.AdventureProgress)

	task, err = g.GenerateNextTask(AppState{Hero: task.ResultingHero, ActiveTaskMode: ModeLoot}, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, "Loading", task.Description)
	assert.Equal(t, 20, task.DurationMs)
	assert.Equal(t, "Chapter 1", task.ResultingHero.CurrentAdventure.Name)
	assert.Equal(t, []string{"Prologue"}, task.ResultingHero.CompletedAdventures)
	assert.Equal(t, 0, task.ResultingHero.AdventureProgress)
	assert.Empty(t, task.ResultingHero.LootMajorRewards, "prologue transition grants no reward")
}

func TestAdventureTransitionBeatsLadder(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	h := newAdventuringHero(t, gs, cfg)
	h.AdventureProgress = h.CurrentAdventure.ProgressRequired
	h.LootBuildUpRewards = []BuildUpReward{{Name: "tail", Quantity: h.MaxLootBuildUp, Value: 1}}

	task, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeLoot}, rng.New(5))
	require.NoError(t, err)
	assert.Equal(t, "Moving on", task.Description)
	assert.Contains(t, []int{2000, 3000}, task.DurationMs)
	assert.Equal(t, "Chapter 2", task.ResultingHero.CurrentAdventure.Name)
	assert.Equal(t, cfg.AdventureProgressBase*3, task.ResultingHero.CurrentAdventure.ProgressRequired)
	assert.Len(t, task.ResultingHero.LootMajorRewards, 1)
}

func TestStartBuildUpAtLevelTen(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	h := newAdventuringHero(t, gs, cfg)
	h.Level = 10
	h.IsInTeardownMode[ModeLoot] = true

	task, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeLoot}, rng.New(3))
	require.NoError(t, err)
	assert.Equal(t, 4000, task.DurationMs)
	assert.Equal(t, "loot build-up in Town", task.Description)
	assert.False(t, task.ResultingHero.IsInTeardownMode[ModeLoot])
}

func TestFullPackStartsTeardown(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	h := newAdventuringHero(t, gs, cfg)
	h.LootBuildUpRewards = []BuildUpReward{
		{Name: "tail", Quantity: h.MaxLootBuildUp - 2, Value: 1},
		{Name: "pebble", Quantity: 2, Value: 1},
	}

	task, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeLoot}, rng.New(3))
	require.NoError(t, err)
	assert.Equal(t, 4000, task.DurationMs)
	assert.True(t, task.ResultingHero.IsInTeardownMode[ModeLoot])
	assert.False(t, task.ResultingHero.HasTrialRankingBeenRecalculated[ModeLoot])
}

func TestTaskAndLevelUpApplyTogether(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	h := newAdventuringHero(t, gs, cfg)
	h.IsInTeardownMode[ModeQuest] = true
	h.CurrentXP = cfg.XPRequiredForLevel(1) - 1
	h.QuestBuildUpRewards = []QuestLead{{QuestlogName: "Fetch the cup", TaskName: "Fetching the cup", Value: 1}}

	// The only draw the rule makes is the duration: 5 + 0 seconds.
	task, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeQuest}, &rng.Script{Draws: []int{0}})
	require.NoError(t, err)
	out := task.ResultingHero

	assert.Equal(t, 5000, task.DurationMs)
	assert.Empty(t, out.QuestBuildUpRewards)
	assert.Equal(t, 1.0, out.Currency[ModeQuest])
	assert.Equal(t, 1, out.TasksCompleted)

	assert.Equal(t, 2, out.Level)
	assert.Equal(t, 4, out.CurrentXP)
	assert.Equal(t, 12, out.Stats[0].Value)
	require.Len(t, out.Abilities, 1)
	assert.Equal(t, []Ability{{Name: "Zap", Rank: 1}}, out.Abilities[0].Received)
}

func TestGenerateNextTaskUnknownSetting(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)
	h := newAdventuringHero(t, gs, cfg)
	h.GameSettingID = "tset"

	_, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeLoot}, rng.New(1))
	require.Error(t, err)
	var unknown setting.UnknownSettingError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "test", unknown.Suggestion)
}

func TestGenerateNextTaskRejectsBadState(t *testing.T) {
	g, gs := newTestGenerator(t, DefaultGameConfig())
	h := newAdventuringHero(t, gs, DefaultGameConfig())

	_, err := g.GenerateNextTask(AppState{ActiveTaskMode: ModeLoot}, rng.New(1))
	assert.Error(t, err)
	_, err = g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: TaskMode(7)}, rng.New(1))
	assert.Error(t, err)
	_, err = g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: ModeLoot}, nil)
	assert.Error(t, err)
}

func TestNewGeneratorValidatesLadders(t *testing.T) {
	mgr, err := setting.NewManager(newTestSetting(t))
	require.NoError(t, err)

	broken := DefaultLadders()
	delete(broken, LadderKey{ModeTrial, PhaseTeardown})
	_, err = NewGenerator(mgr, DefaultGameConfig(), WithLadders(DefaultCoreRules(), broken))
	var le LadderError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LadderKey{ModeTrial, PhaseTeardown}, le.Key)

	noFallback := DefaultLadders()
	noFallback[LadderKey{ModeLoot, PhaseBuildUp}] = []RuleID{RuleLootBuildUp, RuleLootStartTeardown}
	_, err = NewGenerator(mgr, DefaultGameConfig(), WithLadders(DefaultCoreRules(), noFallback))
	require.ErrorAs(t, err, &le)

	wrongMode := DefaultLadders()
	wrongMode[LadderKey{ModeQuest, PhaseTeardown}] = []RuleID{RuleLootSell, RuleQuestStartBuildUp}
	_, err = NewGenerator(mgr, DefaultGameConfig(), WithLadders(DefaultCoreRules(), wrongMode))
	require.ErrorAs(t, err, &le)

	unknown := DefaultLadders()
	unknown[LadderKey{ModeQuest, PhaseBuildUp}] = []RuleID{"nap", RuleQuestBuildUp}
	_, err = NewGenerator(mgr, DefaultGameConfig(), WithLadders(DefaultCoreRules(), unknown))
	require.ErrorAs(t, err, &le)

	_, err = NewGenerator(mgr, DefaultGameConfig(), WithLadders([]RuleID{"nap"}, DefaultLadders()))
	require.ErrorAs(t, err, &le)
	assert.True(t, le.Core)
}

func TestSeededRunsAreReplayable(t *testing.T) {
	cfg := DefaultGameConfig()
	g, gs := newTestGenerator(t, cfg)

	run := func() []string {
		h, err := NewHero(HeroInitData{Name: "Replay", RaceName: "Gnome", ClassName: "Bard"}, gs, cfg)
		require.NoError(t, err)
		r := rng.New(2024)
		var out []string
		for i := 0; i < 200; i++ {
			// The fixture only knows two leads, so stay out of quest mode.
			mode := TaskMode(i / 100)
			task, err := g.GenerateNextTask(AppState{Hero: h, ActiveTaskMode: mode}, r)
			require.NoError(t, err)
			require.GreaterOrEqual(t, task.DurationMs, 0)
			out = append(out, task.Description)
			h = task.ResultingHero
		}
		return out
	}
	assert.Equal(t, run(), run())
}
