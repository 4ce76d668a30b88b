package engine

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"selecquest/internal/rng"
	"selecquest/internal/setting"
	"selecquest/internal/words"
)

const (
	TargetLevelMaxDelta     = 40
	TargetLevelMinDelta     = 1
	DefaultTargetIterations = 6

	// MaxLeadAttempts bounds the search for a lead the hero does not have yet.
	MaxLeadAttempts = 64

	bulkLevelGap = 10
)

// RandomizeTargetLevel draws a content level near the hero's level. Levels
// below 1 are raised to 1.
func RandomizeTargetLevel(r rng.Source, heroLevel int) int {
	lvl := rng.RandomizeNumber(r, heroLevel, TargetLevelMaxDelta, TargetLevelMinDelta)
	if lvl < 1 {
		return 1
	}
	return lvl
}

// DetermineTaskQuantity returns how many of a taskLevel target it takes to
// make up targetLevel. Targets within 10 levels are faced one at a time.
func DetermineTaskQuantity(r rng.Source, targetLevel, taskLevel int) int {
	if targetLevel-taskLevel <= bulkLevelGap {
		return 1
	}
	q := (targetLevel + rng.Range(r, 0, taskLevel-1)) / max(taskLevel, 1)
	if q < 1 {
		q = 1
	}
	return q
}

// RandomizeTargetFromList draws iterations candidates and keeps the one whose
// level is closest to targetLevel. Ties keep the earlier draw.
func RandomizeTargetFromList(r rng.Source, targetLevel int, options []setting.TaskTarget, iterations int) setting.TaskTarget {
	return closestByLevel(r, targetLevel, options, func(t setting.TaskTarget) int { return t.Level }, iterations)
}

func closestByLevel[T any](r rng.Source, targetLevel int, options []T, level func(T) int, iterations int) T {
	if iterations < 1 {
		iterations = 1
	}
	best := rng.FromList(r, options)
	for i := 0; i < iterations-1; i++ {
		next := rng.FromList(r, options)
		if abs(targetLevel-level(next)) < abs(targetLevel-level(best)) {
			best = next
		}
	}
	return best
}

// GenerateTaskNameModifiers returns the adjective prefix, with a trailing
// space, that describes how far targetLevel is from the target's own level.
// It returns "" when they are equal.
func GenerateTaskNameModifiers(r rng.Source, targetLevel int, target setting.TaskTarget, gs *setting.GameSetting) string {
	delta := targetLevel - target.Level
	pick := func(d setting.PrefixDegree) string {
		return rng.FromList(r, gs.PrefixOptions(target.Type, d))
	}
	pair := func(first, second setting.PrefixDegree) string {
		a, b := pick(first), pick(second)
		sep := " "
		if target.Type.UsesListSeparator() {
			sep = ", "
		}
		switch {
		case a == "":
			return b
		case b == "":
			return a
		}
		return a + sep + b
	}

	var prefix string
	switch {
	case delta <= -10:
		prefix = pick(setting.DegreeMinimal)
	case delta < -5:
		prefix = pair(setting.DegreeBadFirst, setting.DegreeBadSecond)
	case delta < 0:
		if rng.Coin(r) {
			prefix = pick(setting.DegreeBadFirst)
		} else {
			prefix = pick(setting.DegreeBadSecond)
		}
	case delta >= 10:
		prefix = pick(setting.DegreeMaximal)
	case delta > 5:
		prefix = pair(setting.DegreeGoodFirst, setting.DegreeGoodSecond)
	case delta > 0:
		if rng.Coin(r) {
			prefix = pick(setting.DegreeGoodFirst)
		} else {
			prefix = pick(setting.DegreeGoodSecond)
		}
	}
	if prefix == "" {
		return ""
	}
	return prefix + " "
}

type taskContents struct {
	name   string
	level  int
	reward BuildUpReward
}

// lootingContents picks a foe or location near the hero's level.
func lootingContents(r rng.Source, h *Hero, gs *setting.GameSetting) (taskContents, error) {
	targets := gs.TargetsOfType(setting.TargetFoe, setting.TargetLocation)
	if len(targets) == 0 {
		return taskContents{}, ContentError{Setting: gs.GameSettingID, Table: "FOE or LOCATION targets"}
	}
	targetLevel := RandomizeTargetLevel(r, h.Level)
	target := RandomizeTargetFromList(r, targetLevel, targets, DefaultTargetIterations)
	quantity := DetermineTaskQuantity(r, targetLevel, target.Level)

	name := target.Name
	if quantity != 1 {
		name = pluralName(target.Name, target.NamePlural)
	}
	targetLevel /= quantity
	name = GenerateTaskNameModifiers(r, targetLevel, target, gs) + name

	gerund := gs.LocationTaskGerund
	if target.Type == setting.TargetFoe {
		gerund = gs.FoeTaskGerund
	}
	return taskContents{
		name:  gerund + " " + words.Indefinite(name, quantity),
		level: targetLevel * quantity,
		reward: BuildUpReward{
			Name:       target.Reward,
			NamePlural: pluralName(target.Reward, target.RewardPlural),
			Quantity:   1,
			Value:      1,
		},
	}, nil
}

// gladiatingContents is a duel against a generated opponent half of the
// time, otherwise a trial from the ruleset.
func gladiatingContents(r rng.Source, h *Hero, gs *setting.GameSetting) (taskContents, error) {
	targetLevel := RandomizeTargetLevel(r, h.Level)

	if rng.Coin(r) && len(gs.HeroRaces) > 0 && len(gs.HeroClasses) > 0 {
		foeLevel := RandomizeTargetLevel(r, h.Level)
		race := rng.FromList(r, gs.HeroRaces)
		class := rng.FromList(r, gs.HeroClasses)
		quantity := DetermineTaskQuantity(r, targetLevel, foeLevel)

		var name string
		if quantity == 1 {
			foe := words.GenerateName(r, gs.StaticNames, gs.RandomNameParts)
			name = gs.DuelTaskGerund + " " + foe + ", the " + race.RaceName + " " + class.Name
		} else {
			name = gs.DuelTaskGerund + " " + words.Indefinite(
				"level "+strconv.Itoa(foeLevel)+" "+race.RaceName+" "+pluralName(class.Name, class.NamePlural), quantity)
		}
		return taskContents{
			name:  name,
			level: foeLevel * quantity,
			reward: BuildUpReward{
				Name:       race.RaceName + " " + race.TrophyName,
				NamePlural: race.RaceName + " " + pluralName(race.TrophyName, race.TrophyNamePlural),
				Quantity:   1,
				Value:      1,
			},
		}, nil
	}

	trials := gs.TargetsOfType(setting.TargetTrial)
	if len(trials) == 0 {
		return taskContents{}, ContentError{Setting: gs.GameSettingID, Table: "TRIAL targets"}
	}
	target := RandomizeTargetFromList(r, targetLevel, trials, DefaultTargetIterations)
	quantity := DetermineTaskQuantity(r, targetLevel, target.Level)

	name := target.Name
	if quantity != 1 {
		name = pluralName(target.Name, target.NamePlural)
	}
	targetLevel /= quantity
	name = GenerateTaskNameModifiers(r, targetLevel, target, gs) + name

	gerund := gs.TrialTaskGerund
	if target.Type == setting.TargetDuel {
		gerund = gs.DuelTaskGerund
	}
	return taskContents{
		name:  gerund + " " + words.Indefinite(name, quantity),
		level: targetLevel * quantity,
		reward: BuildUpReward{
			Name:       words.CapitalizeInitial(target.Reward),
			NamePlural: words.CapitalizeInitial(pluralName(target.Reward, target.RewardPlural)),
			Quantity:   1,
			Value:      1,
		},
	}, nil
}

// pluralName falls back to an inflected singular when the ruleset leaves the
// plural out.
func pluralName(singular, plural string) string {
	if plural != "" {
		return plural
	}
	return words.Pluralize(singular)
}

// investigatingContents gathers a lead the hero's questlog does not already
// mention.
func investigatingContents(r rng.Source, h *Hero, gs *setting.GameSetting) (string, QuestLead, error) {
	if len(gs.LeadGatheringTargets) == 0 {
		return "", QuestLead{}, ContentError{Setting: gs.GameSettingID, Table: "leadGatheringTargets"}
	}
	gathering := rng.FromList(r, gs.LeadGatheringTargets)
	taskName := words.CapitalizeInitial(
		gs.HydrateFromNameSources(r, gathering.GerundPhrase) + " " +
			gs.HydrateFromNameSources(r, rng.FromList(r, gathering.PredicateOptions)))

	leadType := rng.FromList(r, gathering.LeadTypes)
	targets := gs.LeadTargetsOfType(leadType)
	if len(targets) == 0 {
		return "", QuestLead{}, ContentError{Setting: gs.GameSettingID, Table: "leadTargets of type " + string(leadType)}
	}

	fold := cases.Fold()
	known := make([]string, 0, len(h.QuestBuildUpRewards))
	for _, l := range h.QuestBuildUpRewards {
		known = append(known, fold.String(l.QuestlogName))
	}

	for attempt := 0; attempt < MaxLeadAttempts; attempt++ {
		target := rng.FromList(r, targets)
		predicate := gs.HydrateFromNameSources(r, rng.FromList(r, target.PredicateOptions))
		if mentioned(known, fold.String(predicate)) {
			continue
		}
		return taskName, QuestLead{
			QuestlogName: words.CapitalizeInitial(target.Verb + " " + predicate),
			TaskName:     words.CapitalizeInitial(target.Gerund + " " + predicate),
			Value:        1,
		}, nil
	}
	return "", QuestLead{}, LeadExhaustedError{LeadType: string(leadType), Attempts: MaxLeadAttempts}
}

func mentioned(known []string, predicate string) bool {
	for _, k := range known {
		if strings.Contains(k, predicate) {
			return true
		}
	}
	return false
}
