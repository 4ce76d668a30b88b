package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"selecquest/internal/setting"
)

func prefixes(tt setting.TaskTargetType) []setting.TaskPrefix {
	word := map[setting.PrefixDegree]string{
		setting.DegreeMinimal:    "tiny",
		setting.DegreeBadFirst:   "sickly",
		setting.DegreeBadSecond:  "slow",
		setting.DegreeMaximal:    "legendary",
		setting.DegreeGoodFirst:  "huge",
		setting.DegreeGoodSecond: "angry",
	}
	out := make([]setting.TaskPrefix, 0, len(word))
	for d, w := range word {
		out = append(out, setting.TaskPrefix{TaskTargetType: tt, Degree: d, Options: []string{w}})
	}
	return out
}

func testConfig() setting.Config {
	var tp []setting.TaskPrefix
	for _, tt := range []setting.TaskTargetType{setting.TargetFoe, setting.TargetLocation, setting.TargetTrial} {
		tp = append(tp, prefixes(tt)...)
	}
	return setting.Config{
		GameSettingID:   "test",
		GameSettingName: "Test Setting",
		HeroRaces:       []setting.HeroRace{{RaceName: "Gnome", TrophyName: "hat", TrophyNamePlural: "hats"}},
		HeroClasses:     []setting.HeroClass{{Name: "Bard", NamePlural: "Bards"}},
		StatNames:       []string{"STR", "DEX"},
		AbilityTypes:    []setting.AbilityType{{DisplayName: "Spells", Options: []string{"Zap"}}},

		PrologueAdventureName: "Prologue",
		PrologueTasks: []setting.PrologueTask{
			{TaskDescription: "Dreaming", DurationSeconds: 3},
			{TaskDescription: "Waking", DurationSeconds: 2},
		},
		AdventureTransitionTaskDescriptions: []string{"Moving on"},

		StaticNames:     []string{"Bob"},
		RandomNameParts: [][]string{{"b"}, {"o"}},

		BasicTaskTargets: []setting.TaskTarget{
			{Type: setting.TargetFoe, Name: "rat", NamePlural: "rats", Level: 1, Reward: "tail", RewardPlural: "tails"},
			{Type: setting.TargetLocation, Name: "cave", NamePlural: "caves", Level: 5, Reward: "pebble", RewardPlural: "pebbles"},
			{Type: setting.TargetTrial, Name: "race", NamePlural: "races", Level: 3, Reward: "ribbon", RewardPlural: "ribbons"},
		},
		LootMajorRewardTypes: []setting.LootMajorRewardType{{Name: "Sword", MaterialType: "metal"}},
		LootMajorRewardMaterialTypes: []setting.LootMajorRewardMaterialType{{
			Name: "metal",
			Options: []setting.LootMajorRewardMaterial{
				{Name: "Tin", Level: 1, ModifierType: "mods"},
				{Name: "Iron", Level: 10, ModifierType: "mods"},
			},
		}},
		LootMajorRewardModifierTypes: []setting.LootMajorRewardModifierType{{
			Name: "mods",
			Options: []setting.LootMajorRewardModifier{
				{Name: "Keen", LevelModifier: 1},
				{Name: "Sharp", LevelModifier: 2},
				{Name: "Dull", LevelModifier: -1},
			},
		}},

		GameViewTabDisplayNames: []string{"Hero", "Gear", "Renown", "Quests", "Story"},
		TaskModeData: []setting.TaskModeData{
			modeData("loot", 1),
			modeData("trial", 1),
			modeData("quest", 4),
		},

		Groups:             []string{"Guild"},
		LocationTaskGerund: "Exploring",
		FoeTaskGerund:      "Executing",
		DuelTaskGerund:     "Dueling",
		TrialTaskGerund:    "Competing in",

		TrialMajorRewardTypes: []string{"Epithet", "Title", "Sobriquet", "Honorific"},
		EpithetDescriptors:    []string{"Bold"},
		EpithetBeingAll:       []string{"Fox"},
		TitlePositionsAll:     []setting.HeroTitlePosition{{Description: "Champion"}},
		SobriquetModifiers:    []string{"Iron"},
		SobriquetNounPortions: []string{"fist"},
		HonorificTemplates:    []string{"Friend of %place%"},

		LeadGatheringTargets: []setting.LeadGatheringTarget{{
			LeadTypes:        []setting.LeadType{"fetch"},
			GerundPhrase:     "asking",
			PredicateOptions: []string{"the barkeep"},
		}},
		LeadTargets: []setting.LeadTarget{{
			LeadType:         "fetch",
			Verb:             "fetch",
			Gerund:           "fetching",
			PredicateOptions: []string{"the %thing%"},
		}},
		OfficePositionsAll: []string{"Clerk"},

		TaskPrefixes: tp,
		NameSources: []setting.NameSource{
			{Source: "place", Options: []string{"Town"}},
			{Source: "thing", Options: []string{"cup", "spoon"}},
		},
	}
}

func modeData(name string, rewardNames int) setting.TaskModeData {
	names := make([]string, rewardNames)
	for i := range names {
		names[i] = name + " reward kind"
	}
	return setting.TaskModeData{
		TaskModeActionName:                    name,
		StartBuildUpTaskDescriptionOptions:    []string{name + " build-up in %place%"},
		StartTearDownTaskDescriptionOptions:   []string{name + " teardown"},
		EarnMajorRewardTaskDescriptionOptions: []string{name + " reward"},
		MajorRewardDisplayName:                names,
	}
}

func newTestSetting(t *testing.T) *setting.GameSetting {
	t.Helper()
	gs, err := setting.New(testConfig())
	require.NoError(t, err)
	return gs
}

func newTestGenerator(t *testing.T, cfg GameConfig) (*Generator, *setting.GameSetting) {
	t.Helper()
	gs := newTestSetting(t)
	mgr, err := setting.NewManager(gs)
	require.NoError(t, err)
	g, err := NewGenerator(mgr, cfg)
	require.NoError(t, err)
	return g, gs
}

// newAdventuringHero returns a level 1 hero past the prologue with plenty of
// adventure left, so that no core rule fires.
func newAdventuringHero(t *testing.T, gs *setting.GameSetting, cfg GameConfig) *Hero {
	t.Helper()
	h, err := NewHero(HeroInitData{
		Name:      "Tester",
		RaceName:  "Gnome",
		ClassName: "Bard",
		Stats:     []Stat{{Name: "STR", Value: 10}, {Name: "DEX", Value: 10}},
	}, gs, cfg)
	require.NoError(t, err)
	h.CompletedAdventures = []string{gs.PrologueAdventureName}
	h.CurrentAdventure = Adventure{Name: "Chapter 1", ProgressRequired: 100_000}
	return h
}
