package engine

import (
	"errors"
	"fmt"
	"strings"

	"selecquest/internal/rng"
	"selecquest/internal/setting"
)

// HeroInitData is what a player chooses when creating a hero.
type HeroInitData struct {
	Name          string
	RaceName      string
	ClassName     string
	GameSettingID string
	Stats         []Stat
}

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("hero name is required")
	}
	return n, nil
}

// RollStats rolls 3d6 for every stat of the ruleset, then derives the health
// and magic pools from their base stats.
func RollStats(r rng.Source, gs *setting.GameSetting) []Stat {
	stats := make([]Stat, 0, len(gs.StatNames)+2)
	for _, name := range gs.StatNames {
		stats = append(stats, Stat{Name: name, Value: roll3d6(r)})
	}
	if gs.HealthStatName != "" {
		stats = append(stats, Stat{Name: gs.HealthStatName, Value: derivedPool(r, stats, gs.HealthBaseStatIndex)})
	}
	if gs.MagicStatName != "" {
		stats = append(stats, Stat{Name: gs.MagicStatName, Value: derivedPool(r, stats, gs.MagicBaseStatIndex)})
	}
	return stats
}

func roll3d6(r rng.Source) int {
	return rng.Range(r, 1, 6) + rng.Range(r, 1, 6) + rng.Range(r, 1, 6)
}

func derivedPool(r rng.Source, stats []Stat, base int) int {
	v := rng.Range(r, 1, 8)
	if base >= 0 && base < len(stats) {
		v += stats[base].Value / 3
	}
	return v
}

// NewHero builds a level 1 hero standing at the start of the prologue.
func NewHero(in HeroInitData, gs *setting.GameSetting, cfg GameConfig) (*Hero, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.GameSettingID != "" && in.GameSettingID != gs.GameSettingID {
		return nil, fmt.Errorf("hero is for game setting %q, got %q", in.GameSettingID, gs.GameSettingID)
	}
	if !hasRace(gs, in.RaceName) {
		return nil, fmt.Errorf("unknown race %q in game setting %q", in.RaceName, gs.GameSettingID)
	}
	if !hasClass(gs, in.ClassName) {
		return nil, fmt.Errorf("unknown class %q in game setting %q", in.ClassName, gs.GameSettingID)
	}

	rankings := make([]TrialRanking, 0, len(gs.TrialMajorRewardTypes))
	for _, t := range gs.TrialMajorRewardTypes {
		rankings = append(rankings, TrialRanking{TrialType: t, CurrentRanking: cfg.StartingTrialRanking})
	}
	abilities := make([]AbilityType, 0, len(gs.AbilityTypes))
	for _, a := range gs.AbilityTypes {
		abilities = append(abilities, AbilityType{Name: a.DisplayName})
	}

	return &Hero{
		Name:          name,
		RaceName:      in.RaceName,
		ClassName:     in.ClassName,
		GameSettingID: gs.GameSettingID,
		Stats:         append([]Stat(nil), in.Stats...),
		Abilities:     abilities,
		Level:         1,

		MaxLootBuildUp:  cfg.StartingMaxBuildUp,
		MaxTrialBuildUp: cfg.StartingMaxBuildUp,
		MaxQuestBuildUp: cfg.StartingMaxBuildUp,

		MaxLootEnvironmentalLimit:  cfg.StartingMaxEnvironmentalLimit,
		MaxTrialEnvironmentalLimit: cfg.StartingMaxEnvironmentalLimit,
		MaxQuestEnvironmentalLimit: cfg.StartingMaxEnvironmentalLimit,

		HasTrialRankingBeenRecalculated: [ModeCount]bool{true, true, true},
		TrialRankings:                   rankings,

		CurrentAdventure: Adventure{
			Name:             gs.PrologueAdventureName,
			ProgressRequired: gs.PrologueProgressRequired(),
		},
	}, nil
}

func hasRace(gs *setting.GameSetting, name string) bool {
	for _, r := range gs.HeroRaces {
		if r.RaceName == name {
			return true
		}
	}
	return false
}

func hasClass(gs *setting.GameSetting, name string) bool {
	for _, c := range gs.HeroClasses {
		if c.Name == name {
			return true
		}
	}
	return false
}
