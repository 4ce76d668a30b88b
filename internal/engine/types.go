package engine

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TaskMode is one of the three adventuring economies.
type TaskMode int

const (
	ModeLoot TaskMode = iota
	ModeTrial
	ModeQuest
)

// ModeCount is the size of every per-mode array on Hero.
const ModeCount = 3

var modeNames = [ModeCount]string{"loot", "trial", "quest"}

func (m TaskMode) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m TaskMode) IsValid() bool {
	return m >= ModeLoot && m <= ModeQuest
}

// ParseTaskMode parses user input such as "loot", "TRIAL" or "2".
func ParseTaskMode(input string) (TaskMode, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "loot", "0":
		return ModeLoot, nil
	case "trial", "1":
		return ModeTrial, nil
	case "quest", "2":
		return ModeQuest, nil
	}
	best, bestDist := "", -1
	for _, name := range modeNames {
		if d := levenshtein.ComputeDistance(s, name); bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}
	if bestDist >= 0 && bestDist <= 2 {
		return 0, fmt.Errorf("invalid task mode %q (did you mean %q?)", input, best)
	}
	return 0, fmt.Errorf("invalid task mode %q (want loot, trial or quest)", input)
}

// Phase is the sub-state of a mode: accumulating rewards or liquidating them.
type Phase int

const (
	PhaseBuildUp Phase = iota
	PhaseTeardown
)

func (p Phase) String() string {
	if p == PhaseTeardown {
		return "teardown"
	}
	return "build-up"
}

type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Ability is one learned entry of an ability type, e.g. "Fireball" rank 2.
type Ability struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

type AbilityType struct {
	Name     string    `json:"name"`
	Received []Ability `json:"received"`
}

// BuildUpReward is a stackable intermediate reward (a loot item or a trophy).
type BuildUpReward struct {
	Name       string `json:"name"`
	NamePlural string `json:"namePlural"`
	Quantity   int    `json:"quantity"`
	Value      int    `json:"value"`
}

// QuestLead is a QUEST build-up reward. Leads never stack.
type QuestLead struct {
	QuestlogName string `json:"questlogName"`
	TaskName     string `json:"taskName"`
	Value        int    `json:"value"`
}

type TrialRanking struct {
	TrialType      string `json:"trialType"`
	CurrentRanking int    `json:"currentRanking"`
}

type Adventure struct {
	Name             string `json:"name"`
	ProgressRequired int    `json:"progressRequired"`
}

// LootMajorReward is the item currently equipped in one loot reward slot.
type LootMajorReward struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	EffectiveLevel int    `json:"effectiveLevel"`
}

// MajorReward is a named TRIAL or QUEST reward, grouped by kind.
type MajorReward struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// Hero is the whole of a player's progress. A Hero value is never modified by
// the engine once handed to it; every task produces a new Hero.
type Hero struct {
	Name          string `json:"name"`
	RaceName      string `json:"raceName"`
	ClassName     string `json:"className"`
	GameSettingID string `json:"gameSettingId"`

	Stats     []Stat        `json:"stats"`
	Abilities []AbilityType `json:"abilities"`

	Level          int `json:"level"`
	CurrentXP      int `json:"currentXp"`
	TasksCompleted int `json:"tasksCompleted"`

	Currency      [ModeCount]float64 `json:"currency"`
	SpentCurrency [ModeCount]float64 `json:"spentCurrency"`

	LootBuildUpRewards  []BuildUpReward `json:"lootBuildUpRewards"`
	TrialBuildUpRewards []BuildUpReward `json:"trialBuildUpRewards"`
	QuestBuildUpRewards []QuestLead     `json:"questBuildUpRewards"`

	MaxLootBuildUp  int `json:"maxLootBuildUp"`
	MaxTrialBuildUp int `json:"maxTrialBuildUp"`
	MaxQuestBuildUp int `json:"maxQuestBuildUp"`

	LootEnvironmentalLimit     int `json:"lootEnvironmentalLimit"`
	TrialEnvironmentalLimit    int `json:"trialEnvironmentalLimit"`
	QuestEnvironmentalLimit    int `json:"questEnvironmentalLimit"`
	MaxLootEnvironmentalLimit  int `json:"maxLootEnvironmentalLimit"`
	MaxTrialEnvironmentalLimit int `json:"maxTrialEnvironmentalLimit"`
	MaxQuestEnvironmentalLimit int `json:"maxQuestEnvironmentalLimit"`

	IsInTeardownMode                [ModeCount]bool `json:"isInTeardownMode"`
	HasTrialRankingBeenRecalculated [ModeCount]bool `json:"hasTrialRankingBeenRecalculated"`

	TrialRankings    []TrialRanking `json:"trialRankings"`
	CompetitiveClass int            `json:"competitiveClass"`

	CurrentAdventure    Adventure `json:"currentAdventure"`
	AdventureProgress   int       `json:"adventureProgress"`
	CompletedAdventures []string  `json:"completedAdventures"`

	LootMajorRewards  []LootMajorReward `json:"lootMajorRewards"`
	TrialMajorRewards []MajorReward     `json:"trialMajorRewards"`
	QuestMajorRewards []MajorReward     `json:"questMajorRewards"`
}

// Clone returns a deep copy of h.
func (h *Hero) Clone() *Hero {
	if h == nil {
		return nil
	}
	c := *h
	c.Stats = append([]Stat(nil), h.Stats...)
	if h.Abilities != nil {
		c.Abilities = make([]AbilityType, len(h.Abilities))
		for i, a := range h.Abilities {
			c.Abilities[i] = AbilityType{Name: a.Name, Received: append([]Ability(nil), a.Received...)}
		}
	}
	c.LootBuildUpRewards = append([]BuildUpReward(nil), h.LootBuildUpRewards...)
	c.TrialBuildUpRewards = append([]BuildUpReward(nil), h.TrialBuildUpRewards...)
	c.QuestBuildUpRewards = append([]QuestLead(nil), h.QuestBuildUpRewards...)
	c.TrialRankings = append([]TrialRanking(nil), h.TrialRankings...)
	c.CompletedAdventures = append([]string(nil), h.CompletedAdventures...)
	c.LootMajorRewards = append([]LootMajorReward(nil), h.LootMajorRewards...)
	c.TrialMajorRewards = append([]MajorReward(nil), h.TrialMajorRewards...)
	c.QuestMajorRewards = append([]MajorReward(nil), h.QuestMajorRewards...)
	return &c
}

// BuildUpCount is the summed quantity of the mode's build-up rewards. Quest
// leads count one each.
func (h *Hero) BuildUpCount(m TaskMode) int {
	switch m {
	case ModeLoot:
		return sumQuantity(h.LootBuildUpRewards)
	case ModeTrial:
		return sumQuantity(h.TrialBuildUpRewards)
	default:
		return len(h.QuestBuildUpRewards)
	}
}

// BuildUpEntries is the number of distinct build-up entries held for the mode.
func (h *Hero) BuildUpEntries(m TaskMode) int {
	switch m {
	case ModeLoot:
		return len(h.LootBuildUpRewards)
	case ModeTrial:
		return len(h.TrialBuildUpRewards)
	default:
		return len(h.QuestBuildUpRewards)
	}
}

// AvailableCurrency is the mode's earned currency less what has been spent.
func (h *Hero) AvailableCurrency(m TaskMode) float64 {
	return h.Currency[m] - h.SpentCurrency[m]
}

func sumQuantity(list []BuildUpReward) int {
	total := 0
	for _, r := range list {
		total += r.Quantity
	}
	return total
}

// AppState is what the caller hands the engine on every tick.
type AppState struct {
	Hero           *Hero
	ActiveTaskMode TaskMode
}

// Task is one unit of idle play. ResultingHero is the hero as it will be once
// the task's duration has elapsed.
type Task struct {
	Description   string
	DurationMs    int
	ResultingHero *Hero
}
