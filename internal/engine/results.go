package engine

import (
	"fmt"
	"math"
	"strings"

	"selecquest/internal/rng"
	"selecquest/internal/setting"
)

const (
	maxLootRewardModifiers = 2
	rankingImprovePercent  = 25
)

// ResultGenerator computes what a hero earns: major rewards, ranking changes,
// adventure transitions and level-ups.
type ResultGenerator struct {
	cfg GameConfig
}

func NewResultGenerator(cfg GameConfig) *ResultGenerator {
	return &ResultGenerator{cfg: cfg}
}

// NewLootMajorRewardModification upgrades the loot slot that currently has
// the lowest effective level with an item of the given level.
func (g *ResultGenerator) NewLootMajorRewardModification(r rng.Source, level int, existing []LootMajorReward, gs *setting.GameSetting) (Modification, error) {
	if len(gs.LootMajorRewardTypes) == 0 {
		return nil, ContentError{Setting: gs.GameSettingID, Table: "lootMajorRewardTypes"}
	}

	held := make(map[string]int, len(existing))
	for _, e := range existing {
		held[e.Type] = e.EffectiveLevel
	}
	var weakest []setting.LootMajorRewardType
	lowest := math.MaxInt
	for _, t := range gs.LootMajorRewardTypes {
		lvl := held[t.Name]
		switch {
		case lvl < lowest:
			lowest = lvl
			weakest = []setting.LootMajorRewardType{t}
		case lvl == lowest:
			weakest = append(weakest, t)
		}
	}
	rewardType := rng.FromList(r, weakest)

	material, ok := gs.MaterialType(rewardType.MaterialType)
	if !ok || len(material.Options) == 0 {
		return nil, ContentError{Setting: gs.GameSettingID, Table: "materials for " + rewardType.Name}
	}
	chosen := closestByLevel(r, level, material.Options, func(m setting.LootMajorRewardMaterial) int { return m.Level }, DefaultTargetIterations)

	var mods []string
	delta := level - chosen.Level
	if modType, ok := gs.ModifierType(chosen.ModifierType); ok {
		used := map[string]bool{}
		for i := 0; i < maxLootRewardModifiers && delta != 0; i++ {
			opt, found := bestModifier(modType.Options, delta, used)
			if !found {
				break
			}
			used[opt.Name] = true
			mods = append(mods, opt.Name)
			delta -= opt.LevelModifier
		}
	}

	parts := make([]string, 0, len(mods)+3)
	if delta != 0 {
		parts = append(parts, fmt.Sprintf("%+d", delta))
	}
	parts = append(parts, mods...)
	parts = append(parts, chosen.Name, rewardType.Name)

	return SetLootMajorReward{Reward: LootMajorReward{
		Type:           rewardType.Name,
		Description:    strings.Join(parts, " "),
		EffectiveLevel: level,
	}}, nil
}

// bestModifier picks the unused modifier of the same sign as delta that fits
// inside it most closely. Ties keep the first found.
func bestModifier(options []setting.LootMajorRewardModifier, delta int, used map[string]bool) (setting.LootMajorRewardModifier, bool) {
	var best setting.LootMajorRewardModifier
	found := false
	for _, o := range options {
		if used[o.Name] || o.LevelModifier == 0 {
			continue
		}
		if (o.LevelModifier > 0) != (delta > 0) || abs(o.LevelModifier) > abs(delta) {
			continue
		}
		if !found || abs(delta-o.LevelModifier) < abs(delta-best.LevelModifier) {
			best, found = o, true
		}
	}
	return best, found
}

// NewTrialMajorRewardModifications grants one title of a randomly drawn kind.
func (g *ResultGenerator) NewTrialMajorRewardModifications(r rng.Source, h *Hero, gs *setting.GameSetting) ([]Modification, error) {
	if len(gs.TrialMajorRewardTypes) == 0 {
		return nil, ContentError{Setting: gs.GameSettingID, Table: "trialMajorRewardTypes"}
	}
	idx := r.IntN(len(gs.TrialMajorRewardTypes))
	var desc string
	switch idx {
	case 0:
		desc = "the " + rng.FromList(r, gs.EpithetDescriptors) + " " + rng.FromList(r, gs.EpithetBeingAll)
	case 1:
		desc = rng.FromList(r, gs.TitlePositionsAll).Description + " of the " + rng.FromList(r, gs.Groups)
	case 2:
		desc = rng.FromList(r, gs.SobriquetModifiers) + rng.FromList(r, gs.SobriquetNounPortions)
	default:
		desc = gs.HydrateFromNameSources(r, rng.FromList(r, gs.HonorificTemplates))
	}
	return []Modification{AddTrialMajorReward{Reward: MajorReward{
		Kind:        gs.TrialMajorRewardTypes[idx],
		Description: strings.TrimSpace(desc),
	}}}, nil
}

// NewQuestMajorRewardModification grants an office within one of the groups.
func (g *ResultGenerator) NewQuestMajorRewardModification(r rng.Source, h *Hero, gs *setting.GameSetting) (Modification, error) {
	if int(ModeQuest) >= len(gs.TaskModeData) || len(gs.TaskModeData[ModeQuest].MajorRewardDisplayName) == 0 {
		return nil, ContentError{Setting: gs.GameSettingID, Table: "quest majorRewardDisplayName"}
	}
	kinds := gs.TaskModeData[ModeQuest].MajorRewardDisplayName
	kind := kinds[r.IntN(len(kinds))]
	desc := rng.FromList(r, gs.OfficePositionsAll) + " of the " + rng.FromList(r, gs.Groups)
	return AddQuestMajorReward{Reward: MajorReward{Kind: kind, Description: strings.TrimSpace(desc)}}, nil
}

// TrialRankingUpdateModifications moves every ranking up by up to a quarter
// of its value, less a random slip of at most one place. Rank 1 is the best.
func (g *ResultGenerator) TrialRankingUpdateModifications(r rng.Source, h *Hero) []Modification {
	updated := make([]TrialRanking, 0, len(h.TrialRankings))
	for _, tr := range h.TrialRankings {
		improve := int(math.Ceil(float64(tr.CurrentRanking) * float64(rng.Range(r, 0, rankingImprovePercent)) / 100))
		next := tr.CurrentRanking - improve + rng.Range(r, 0, 1)
		if next < 1 {
			next = 1
		}
		updated = append(updated, TrialRanking{TrialType: tr.TrialType, CurrentRanking: next})
	}
	return []Modification{SetTrialRankings{Rankings: updated}}
}

// NewCompetitiveClassModifications moves the hero into the next competitive
// class, where every ranking starts over.
func (g *ResultGenerator) NewCompetitiveClassModifications(h *Hero) []Modification {
	reset := make([]TrialRanking, 0, len(h.TrialRankings))
	for _, tr := range h.TrialRankings {
		reset = append(reset, TrialRanking{TrialType: tr.TrialType, CurrentRanking: g.cfg.StartingTrialRanking})
	}
	return []Modification{
		Increase{Attr: ScalarCompetitiveClass, Amount: 1},
		SetTrialRankings{Rankings: reset},
	}
}

// NewAdventureResults closes the current adventure and opens the next
// chapter. withReward also grants a stat point and a loot major reward.
func (g *ResultGenerator) NewAdventureResults(r rng.Source, h *Hero, gs *setting.GameSetting, withReward bool) ([]Modification, error) {
	chapter := len(h.CompletedAdventures) + 1
	mods := []Modification{BeginAdventure{Next: Adventure{
		Name:             fmt.Sprintf("Chapter %d", chapter),
		ProgressRequired: g.cfg.AdventureProgressBase * (chapter + 1),
	}}}
	if !withReward {
		return mods, nil
	}
	if len(gs.StatNames) > 0 {
		mods = append(mods, IncreaseStat{Stat: rng.FromList(r, gs.StatNames), Amount: 1})
	}
	loot, err := g.NewLootMajorRewardModification(r, h.Level, h.LootMajorRewards, gs)
	if err != nil {
		return nil, err
	}
	return append(mods, loot), nil
}

// LevelUpModifications spends the XP for one level and grants its rewards.
func (g *ResultGenerator) LevelUpModifications(r rng.Source, h *Hero, gs *setting.GameSetting) []Modification {
	mods := []Modification{
		Increase{Attr: ScalarLevel, Amount: 1},
		Decrease{Attr: ScalarCurrentXP, Amount: g.cfg.XPRequiredForLevel(h.Level)},
	}
	if len(gs.StatNames) > 0 {
		for i := 0; i < 2; i++ {
			mods = append(mods, IncreaseStat{Stat: rng.FromList(r, gs.StatNames), Amount: 1})
		}
	}
	if len(gs.AbilityTypes) > 0 {
		at := rng.FromList(r, gs.AbilityTypes)
		if len(at.Options) > 0 {
			mods = append(mods, GrantAbility{Type: at.DisplayName, Ability: rng.FromList(r, at.Options)})
		}
	}
	if g.cfg.BuildUpGrowthInterval > 0 && (h.Level+1)%g.cfg.BuildUpGrowthInterval == 0 {
		mods = append(mods,
			Increase{Attr: ScalarMaxLootBuildUp, Amount: 1},
			Increase{Attr: ScalarMaxTrialBuildUp, Amount: 1},
			Increase{Attr: ScalarMaxQuestBuildUp, Amount: 1},
		)
	}
	return mods
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
