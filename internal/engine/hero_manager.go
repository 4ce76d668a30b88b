package engine

import "fmt"

// HeroManager folds modification lists into heroes. It never changes the
// hero it is given.
type HeroManager struct {
	cfg GameConfig
}

func NewHeroManager(cfg GameConfig) *HeroManager {
	return &HeroManager{cfg: cfg}
}

// ApplyHeroTaskUpdates applies the direct effects of a finished task.
func (m *HeroManager) ApplyHeroTaskUpdates(h *Hero, mods []Modification) (*Hero, error) {
	return m.ApplyHeroModifications(h, mods, true)
}

// ApplyHeroModifications applies mods in order to a copy of h. Either every
// modification applies or an error is returned and no hero.
func (m *HeroManager) ApplyHeroModifications(h *Hero, mods []Modification, isTaskUpdate bool) (*Hero, error) {
	if h == nil {
		return nil, fmt.Errorf("apply modifications: nil hero")
	}
	out := h.Clone()
	for i, mod := range mods {
		if err := apply(out, mod); err != nil {
			return nil, ModificationError{Index: i, Reason: err.Error()}
		}
	}
	out.LootEnvironmentalLimit = clamp(out.LootEnvironmentalLimit, 0, out.MaxLootEnvironmentalLimit)
	out.TrialEnvironmentalLimit = clamp(out.TrialEnvironmentalLimit, 0, out.MaxTrialEnvironmentalLimit)
	out.QuestEnvironmentalLimit = clamp(out.QuestEnvironmentalLimit, 0, out.MaxQuestEnvironmentalLimit)
	if isTaskUpdate {
		out.TasksCompleted++
	}
	return out, nil
}

// HasHeroReachedNextLevel reports whether h has banked enough XP to level.
func (m *HeroManager) HasHeroReachedNextLevel(h *Hero) bool {
	return h.CurrentXP >= m.cfg.XPRequiredForLevel(h.Level)
}

func apply(h *Hero, mod Modification) error {
	switch mod := mod.(type) {
	case AddBuildUpRewards:
		list, err := buildUpList(h, mod.Mode)
		if err != nil {
			return err
		}
		for _, r := range mod.Rewards {
			if i := indexOfReward(*list, r.Name); i >= 0 {
				(*list)[i].Quantity += r.Quantity
				continue
			}
			*list = append(*list, r)
		}
	case RemoveBuildUpRewards:
		list, err := buildUpList(h, mod.Mode)
		if err != nil {
			return err
		}
		for _, r := range mod.Rewards {
			if i := indexOfReward(*list, r.Name); i >= 0 {
				(*list)[i].Quantity -= r.Quantity
			}
		}
		kept := (*list)[:0]
		for _, r := range *list {
			if r.Quantity > 0 {
				kept = append(kept, r)
			}
		}
		*list = kept
	case AddQuestLeads:
		h.QuestBuildUpRewards = append(h.QuestBuildUpRewards, mod.Leads...)
	case RemoveQuestLeads:
		drop := make(map[string]bool, len(mod.Leads))
		for _, l := range mod.Leads {
			drop[l.QuestlogName] = true
		}
		kept := h.QuestBuildUpRewards[:0]
		for _, l := range h.QuestBuildUpRewards {
			if !drop[l.QuestlogName] {
				kept = append(kept, l)
			}
		}
		h.QuestBuildUpRewards = kept
	case Increase:
		p, err := scalarPtr(h, mod.Attr)
		if err != nil {
			return err
		}
		*p += mod.Amount
	case Decrease:
		p, err := scalarPtr(h, mod.Attr)
		if err != nil {
			return err
		}
		*p -= mod.Amount
		if *p < 0 {
			*p = 0
		}
	case SetForMode:
		if !mod.Mode.IsValid() {
			return fmt.Errorf("invalid mode %d", mod.Mode)
		}
		switch mod.Flag {
		case FlagIsInTeardownMode:
			h.IsInTeardownMode[mod.Mode] = mod.Value
		case FlagHasTrialRankingBeenRecalculated:
			h.HasTrialRankingBeenRecalculated[mod.Mode] = mod.Value
		default:
			return fmt.Errorf("unknown mode flag %d", mod.Flag)
		}
	case AddCurrency:
		if !mod.Mode.IsValid() {
			return fmt.Errorf("invalid mode %d", mod.Mode)
		}
		switch mod.Ledger {
		case LedgerCurrency:
			h.Currency[mod.Mode] += mod.Amount
		case LedgerSpentCurrency:
			h.SpentCurrency[mod.Mode] += mod.Amount
		default:
			return fmt.Errorf("unknown currency ledger %d", mod.Ledger)
		}
	case SetLootMajorReward:
		replaced := false
		for i := range h.LootMajorRewards {
			if h.LootMajorRewards[i].Type == mod.Reward.Type {
				h.LootMajorRewards[i] = mod.Reward
				replaced = true
				break
			}
		}
		if !replaced {
			h.LootMajorRewards = append(h.LootMajorRewards, mod.Reward)
		}
	case AddTrialMajorReward:
		h.TrialMajorRewards = append(h.TrialMajorRewards, mod.Reward)
	case AddQuestMajorReward:
		h.QuestMajorRewards = append(h.QuestMajorRewards, mod.Reward)
	case SetTrialRankings:
		for _, r := range mod.Rankings {
			found := false
			for i := range h.TrialRankings {
				if h.TrialRankings[i].TrialType == r.TrialType {
					h.TrialRankings[i].CurrentRanking = r.CurrentRanking
					found = true
					break
				}
			}
			if !found {
				h.TrialRankings = append(h.TrialRankings, r)
			}
		}
	case BeginAdventure:
		if h.CurrentAdventure.Name != "" {
			h.CompletedAdventures = append(h.CompletedAdventures, h.CurrentAdventure.Name)
		}
		h.CurrentAdventure = mod.Next
		h.AdventureProgress = 0
	case IncreaseStat:
		found := false
		for i := range h.Stats {
			if h.Stats[i].Name == mod.Stat {
				h.Stats[i].Value += mod.Amount
				found = true
				break
			}
		}
		if !found {
			h.Stats = append(h.Stats, Stat{Name: mod.Stat, Value: mod.Amount})
		}
	case GrantAbility:
		grantAbility(h, mod.Type, mod.Ability)
	case nil:
		return fmt.Errorf("nil modification")
	default:
		return fmt.Errorf("unsupported modification %T", mod)
	}
	return nil
}

func buildUpList(h *Hero, m TaskMode) (*[]BuildUpReward, error) {
	switch m {
	case ModeLoot:
		return &h.LootBuildUpRewards, nil
	case ModeTrial:
		return &h.TrialBuildUpRewards, nil
	default:
		return nil, fmt.Errorf("mode %s has no stackable build-up rewards", m)
	}
}

func indexOfReward(list []BuildUpReward, name string) int {
	for i, r := range list {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func scalarPtr(h *Hero, s Scalar) (*int, error) {
	switch s {
	case ScalarCurrentXP:
		return &h.CurrentXP, nil
	case ScalarAdventureProgress:
		return &h.AdventureProgress, nil
	case ScalarLootEnvironmentalLimit:
		return &h.LootEnvironmentalLimit, nil
	case ScalarTrialEnvironmentalLimit:
		return &h.TrialEnvironmentalLimit, nil
	case ScalarQuestEnvironmentalLimit:
		return &h.QuestEnvironmentalLimit, nil
	case ScalarLevel:
		return &h.Level, nil
	case ScalarCompetitiveClass:
		return &h.CompetitiveClass, nil
	case ScalarMaxLootBuildUp:
		return &h.MaxLootBuildUp, nil
	case ScalarMaxTrialBuildUp:
		return &h.MaxTrialBuildUp, nil
	case ScalarMaxQuestBuildUp:
		return &h.MaxQuestBuildUp, nil
	default:
		return nil, fmt.Errorf("unknown scalar %d", s)
	}
}

func grantAbility(h *Hero, typeName, ability string) {
	for i := range h.Abilities {
		if h.Abilities[i].Name != typeName {
			continue
		}
		for j := range h.Abilities[i].Received {
			if h.Abilities[i].Received[j].Name == ability {
				h.Abilities[i].Received[j].Rank++
				return
			}
		}
		h.Abilities[i].Received = append(h.Abilities[i].Received, Ability{Name: ability, Rank: 1})
		return
	}
	h.Abilities = append(h.Abilities, AbilityType{
		Name:     typeName,
		Received: []Ability{{Name: ability, Rank: 1}},
	})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
