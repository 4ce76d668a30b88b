package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareHero() *Hero {
	cfg := DefaultGameConfig()
	return &Hero{
		Name:                       "Bare",
		Level:                      1,
		Stats:                      []Stat{{Name: "STR", Value: 10}},
		MaxLootBuildUp:             cfg.StartingMaxBuildUp,
		MaxTrialBuildUp:            cfg.StartingMaxBuildUp,
		MaxQuestBuildUp:            cfg.StartingMaxBuildUp,
		MaxLootEnvironmentalLimit:  cfg.StartingMaxEnvironmentalLimit,
		MaxTrialEnvironmentalLimit: cfg.StartingMaxEnvironmentalLimit,
		MaxQuestEnvironmentalLimit: cfg.StartingMaxEnvironmentalLimit,
		TrialRankings:              []TrialRanking{{TrialType: "Epithet", CurrentRanking: 100}},
	}
}

func TestApplyMergesAndPrunesBuildUp(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())
	h := newBareHero()

	out, err := m.ApplyHeroTaskUpdates(h, []Modification{
		AddBuildUpRewards{Mode: ModeLoot, Rewards: []BuildUpReward{{Name: "tail", Quantity: 2, Value: 1}}},
		AddBuildUpRewards{Mode: ModeLoot, Rewards: []BuildUpReward{{Name: "tail", Quantity: 1, Value: 1}, {Name: "pebble", Quantity: 1, Value: 3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []BuildUpReward{{Name: "tail", Quantity: 3, Value: 1}, {Name: "pebble", Quantity: 1, Value: 3}}, out.LootBuildUpRewards)
	assert.Equal(t, 4, out.BuildUpCount(ModeLoot))
	assert.Equal(t, 2, out.BuildUpEntries(ModeLoot))

	out, err = m.ApplyHeroTaskUpdates(out, []Modification{
		RemoveBuildUpRewards{Mode: ModeLoot, Rewards: []BuildUpReward{{Name: "tail", Quantity: 3}, {Name: "pebble", Quantity: 5}, {Name: "ghost", Quantity: 1}}},
	})
	require.NoError(t, err)
	assert.Empty(t, out.LootBuildUpRewards)
}

func TestApplyQuestLeads(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())
	a := QuestLead{QuestlogName: "Fetch the cup", TaskName: "Fetching the cup", Value: 1}
	b := QuestLead{QuestlogName: "Fetch the spoon", TaskName: "Fetching the spoon", Value: 1}

	out, err := m.ApplyHeroTaskUpdates(newBareHero(), []Modification{AddQuestLeads{Leads: []QuestLead{a, b}}})
	require.NoError(t, err)
	out, err = m.ApplyHeroTaskUpdates(out, []Modification{RemoveQuestLeads{Leads: []QuestLead{a}}})
	require.NoError(t, err)
	assert.Equal(t, []QuestLead{b}, out.QuestBuildUpRewards)
}

func TestApplyScalarsAndClamps(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())
	h := newBareHero()
	h.CurrentXP = 5
	h.LootEnvironmentalLimit = 1

	out, err := m.ApplyHeroTaskUpdates(h, []Modification{
		Decrease{Attr: ScalarCurrentXP, Amount: 8},
		Decrease{Attr: ScalarLootEnvironmentalLimit, Amount: 2},
		Increase{Attr: ScalarTrialEnvironmentalLimit, Amount: 50},
		Increase{Attr: ScalarAdventureProgress, Amount: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.CurrentXP)
	assert.Equal(t, 0, out.LootEnvironmentalLimit)
	assert.Equal(t, out.MaxTrialEnvironmentalLimit, out.TrialEnvironmentalLimit)
	assert.Equal(t, 7, out.AdventureProgress)
}

func TestApplyCountsOnlyTaskUpdates(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())
	h := newBareHero()

	out, err := m.ApplyHeroTaskUpdates(h, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TasksCompleted)

	out, err = m.ApplyHeroModifications(out, []Modification{Increase{Attr: ScalarLevel, Amount: 1}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TasksCompleted)
	assert.Equal(t, 2, out.Level)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())
	h := newBareHero()
	h.LootBuildUpRewards = []BuildUpReward{{Name: "tail", Quantity: 2, Value: 1}}
	before := h.Clone()

	_, err := m.ApplyHeroTaskUpdates(h, []Modification{
		RemoveBuildUpRewards{Mode: ModeLoot, Rewards: []BuildUpReward{{Name: "tail", Quantity: 2}}},
		IncreaseStat{Stat: "STR", Amount: 3},
		SetTrialRankings{Rankings: []TrialRanking{{TrialType: "Epithet", CurrentRanking: 1}}},
		SetForMode{Flag: FlagIsInTeardownMode, Mode: ModeQuest, Value: true},
		AddCurrency{Ledger: LedgerCurrency, Mode: ModeTrial, Amount: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, before, h)
}

func TestApplyRewardsAndAdventures(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())
	h := newBareHero()
	h.CurrentAdventure = Adventure{Name: "Chapter 1", ProgressRequired: 120}
	h.AdventureProgress = 120

	out, err := m.ApplyHeroTaskUpdates(h, []Modification{
		SetLootMajorReward{Reward: LootMajorReward{Type: "Sword", Description: "Tin Sword", EffectiveLevel: 1}},
		SetLootMajorReward{Reward: LootMajorReward{Type: "Sword", Description: "Iron Sword", EffectiveLevel: 10}},
		AddTrialMajorReward{Reward: MajorReward{Kind: "Epithet", Description: "the Bold Fox"}},
		AddQuestMajorReward{Reward: MajorReward{Kind: "Office", Description: "Clerk of the Guild"}},
		AddCurrency{Ledger: LedgerSpentCurrency, Mode: ModeLoot, Amount: 35},
		BeginAdventure{Next: Adventure{Name: "Chapter 2", ProgressRequired: 180}},
		GrantAbility{Type: "Spells", Ability: "Zap"},
		GrantAbility{Type: "Spells", Ability: "Zap"},
		IncreaseStat{Stat: "LUCK", Amount: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []LootMajorReward{{Type: "Sword", Description: "Iron Sword", EffectiveLevel: 10}}, out.LootMajorRewards)
	assert.Len(t, out.TrialMajorRewards, 1)
	assert.Len(t, out.QuestMajorRewards, 1)
	assert.Equal(t, 35.0, out.SpentCurrency[ModeLoot])
	assert.Equal(t, -35.0, out.AvailableCurrency(ModeLoot))
	assert.Equal(t, []string{"Chapter 1"}, out.CompletedAdventures)
	assert.Equal(t, "Chapter 2", out.CurrentAdventure.Name)
	assert.Equal(t, 0, out.AdventureProgress)
	assert.Equal(t, []AbilityType{{Name: "Spells", Received: []Ability{{Name: "Zap", Rank: 2}}}}, out.Abilities)
	assert.Equal(t, []Stat{{Name: "STR", Value: 10}, {Name: "LUCK", Value: 1}}, out.Stats)
}

func TestApplyRejectsBadModifications(t *testing.T) {
	m := NewHeroManager(DefaultGameConfig())

	cases := map[string]Modification{
		"nil":            nil,
		"quest stack":    AddBuildUpRewards{Mode: ModeQuest, Rewards: []BuildUpReward{{Name: "x", Quantity: 1}}},
		"unknown scalar": Increase{Attr: Scalar(99), Amount: 1},
		"bad mode":       SetForMode{Flag: FlagIsInTeardownMode, Mode: TaskMode(9), Value: true},
		"bad ledger":     AddCurrency{Ledger: CurrencyLedger(9), Mode: ModeLoot, Amount: 1},
	}
	for name, mod := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := m.ApplyHeroTaskUpdates(newBareHero(), []Modification{Increase{Attr: ScalarLevel, Amount: 1}, mod})
			require.Error(t, err)
			assert.Nil(t, out)
			var me ModificationError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, 1, me.Index)
		})
	}

	_, err := m.ApplyHeroTaskUpdates(nil, nil)
	assert.Error(t, err)
}

func TestHasHeroReachedNextLevel(t *testing.T) {
	cfg := DefaultGameConfig()
	m := NewHeroManager(cfg)
	h := newBareHero()

	h.CurrentXP = cfg.XPRequiredForLevel(1) - 1
	assert.False(t, m.HasHeroReachedNextLevel(h))
	h.CurrentXP++
	assert.True(t, m.HasHeroReachedNextLevel(h))
}
