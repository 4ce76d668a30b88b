// Package setting holds the content tables of a ruleset and the checks that
// every ruleset must pass before the task engine may use it.
package setting

import (
	"fmt"
	"regexp"
	"slices"
	"unicode/utf8"

	"selecquest/internal/rng"
)

const (
	trialMajorRewardTypeCount = 4
	gameViewTabCount          = 5
	gameViewTabMaxLen         = 8
	taskModeCount             = 3
)

// questMajorRewardNameCount is the number of QUEST major reward kinds; LOOT
// and TRIAL each have a single kind.
const questMajorRewardNameCount = 4

// Config is the full content schema of one ruleset as authored in YAML.
type Config struct {
	GameSettingID   string `yaml:"gameSettingId"`
	GameSettingName string `yaml:"gameSettingName"`

	HeroRaces           []HeroRace    `yaml:"heroRaces"`
	HeroClasses         []HeroClass   `yaml:"heroClasses"`
	StatNames           []string      `yaml:"statNames"`
	HealthStatName      string        `yaml:"healthStatName"`
	HealthBaseStatIndex int           `yaml:"healthBaseStatIndex"`
	MagicStatName       string        `yaml:"magicStatName"`
	MagicBaseStatIndex  int           `yaml:"magicBaseStatIndex"`
	AbilityTypes        []AbilityType `yaml:"abilityTypes"`

	PrologueAdventureName               string         `yaml:"prologueAdventureName"`
	PrologueTasks                       []PrologueTask `yaml:"prologueTasks"`
	AdventureTransitionTaskDescriptions []string       `yaml:"adventureTransitionTaskDescriptions"`

	StaticNames     []string   `yaml:"staticNames"`
	RandomNameParts [][]string `yaml:"randomNameParts"`

	BasicTaskTargets             []TaskTarget                  `yaml:"basicTaskTargets"`
	LootMajorRewardTypes         []LootMajorRewardType         `yaml:"lootMajorRewardTypes"`
	LootMajorRewardMaterialTypes []LootMajorRewardMaterialType `yaml:"lootMajorRewardMaterialTypes"`
	LootMajorRewardModifierTypes []LootMajorRewardModifierType `yaml:"lootMajorRewardModifierTypes"`

	GameViewTabDisplayNames []string       `yaml:"gameViewTabDisplayNames"`
	TaskModeData            []TaskModeData `yaml:"taskModeData"`

	Groups             []string `yaml:"groups"`
	LocationTaskGerund string   `yaml:"locationTaskGerund"`
	FoeTaskGerund      string   `yaml:"foeTaskGerund"`
	DuelTaskGerund     string   `yaml:"duelTaskGerund"`
	TrialTaskGerund    string   `yaml:"trialTaskGerund"`

	TrialMajorRewardTypes []string            `yaml:"trialMajorRewardTypes"`
	EpithetDescriptors    []string            `yaml:"epithetDescriptors"`
	EpithetBeingAll       []string            `yaml:"epithetBeingAll"`
	TitlePositionsAll     []HeroTitlePosition `yaml:"titlePositionsAll"`
	SobriquetModifiers    []string            `yaml:"sobriquetModifiers"`
	SobriquetNounPortions []string            `yaml:"sobriquetNounPortions"`
	HonorificTemplates    []string            `yaml:"honorificTemplates"`

	LeadGatheringTargets []LeadGatheringTarget `yaml:"leadGatheringTargets"`
	LeadTargets          []LeadTarget          `yaml:"leadTargets"`
	OfficePositionsAll   []string              `yaml:"officePositionsAll"`

	TaskPrefixes []TaskPrefix `yaml:"taskPrefixes"`
	NameSources  []NameSource `yaml:"nameSources"`
}

// GameSetting is a validated ruleset. The embedded Config is shared by every
// hero that plays the ruleset and must be treated as read-only.
type GameSetting struct {
	Config
}

// New validates a private copy of cfg and wraps it, so later changes to cfg
// do not reach the setting. On failure no GameSetting is returned.
func New(cfg Config) (*GameSetting, error) {
	cfg = cfg.clone()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &GameSetting{Config: cfg}, nil
}

// clone copies every table of c, including nested option lists.
func (c Config) clone() Config {
	out := c
	out.HeroRaces = slices.Clone(c.HeroRaces)
	out.HeroClasses = slices.Clone(c.HeroClasses)
	out.StatNames = slices.Clone(c.StatNames)
	out.AbilityTypes = cloneEach(c.AbilityTypes, func(a AbilityType) AbilityType {
		a.Options = slices.Clone(a.Options)
		return a
	})
	out.PrologueTasks = slices.Clone(c.PrologueTasks)
	out.AdventureTransitionTaskDescriptions = slices.Clone(c.AdventureTransitionTaskDescriptions)
	out.StaticNames = slices.Clone(c.StaticNames)
	out.RandomNameParts = cloneEach(c.RandomNameParts, func(parts []string) []string {
		return slices.Clone(parts)
	})

	out.BasicTaskTargets = slices.Clone(c.BasicTaskTargets)
	out.LootMajorRewardTypes = slices.Clone(c.LootMajorRewardTypes)
	out.LootMajorRewardMaterialTypes = cloneEach(c.LootMajorRewardMaterialTypes, func(m LootMajorRewardMaterialType) LootMajorRewardMaterialType {
		m.Options = slices.Clone(m.Options)
		return m
	})
	out.LootMajorRewardModifierTypes = cloneEach(c.LootMajorRewardModifierTypes, func(m LootMajorRewardModifierType) LootMajorRewardModifierType {
		m.Options = slices.Clone(m.Options)
		return m
	})

	out.GameViewTabDisplayNames = slices.Clone(c.GameViewTabDisplayNames)
	out.TaskModeData = cloneEach(c.TaskModeData, func(d TaskModeData) TaskModeData {
		d.StartBuildUpTaskDescriptionOptions = slices.Clone(d.StartBuildUpTaskDescriptionOptions)
		d.StartTearDownTaskDescriptionOptions = slices.Clone(d.StartTearDownTaskDescriptionOptions)
		d.EarnMajorRewardTaskDescriptionOptions = slices.Clone(d.EarnMajorRewardTaskDescriptionOptions)
		d.MajorRewardDisplayName = slices.Clone(d.MajorRewardDisplayName)
		return d
	})
	out.Groups = slices.Clone(c.Groups)

	out.TrialMajorRewardTypes = slices.Clone(c.TrialMajorRewardTypes)
	out.EpithetDescriptors = slices.Clone(c.EpithetDescriptors)
	out.EpithetBeingAll = slices.Clone(c.EpithetBeingAll)
	out.TitlePositionsAll = slices.Clone(c.TitlePositionsAll)
	out.SobriquetModifiers = slices.Clone(c.SobriquetModifiers)
	out.SobriquetNounPortions = slices.Clone(c.SobriquetNounPortions)
	out.HonorificTemplates = slices.Clone(c.HonorificTemplates)

	out.LeadGatheringTargets = cloneEach(c.LeadGatheringTargets, func(l LeadGatheringTarget) LeadGatheringTarget {
		l.LeadTypes = slices.Clone(l.LeadTypes)
		l.PredicateOptions = slices.Clone(l.PredicateOptions)
		return l
	})
	out.LeadTargets = cloneEach(c.LeadTargets, func(l LeadTarget) LeadTarget {
		l.PredicateOptions = slices.Clone(l.PredicateOptions)
		return l
	})
	out.OfficePositionsAll = slices.Clone(c.OfficePositionsAll)

	out.TaskPrefixes = cloneEach(c.TaskPrefixes, func(p TaskPrefix) TaskPrefix {
		p.Options = slices.Clone(p.Options)
		return p
	})
	out.NameSources = cloneEach(c.NameSources, func(n NameSource) NameSource {
		n.Options = slices.Clone(n.Options)
		return n
	})
	return out
}

func cloneEach[T any](in []T, copyOne func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = copyOne(v)
	}
	return out
}

// Validate checks the cross references and cardinalities the engine relies on.
func Validate(cfg Config) error {
	name := cfg.GameSettingName
	if name == "" {
		name = cfg.GameSettingID
	}

	materials := make([]string, 0, len(cfg.LootMajorRewardMaterialTypes))
	for _, m := range cfg.LootMajorRewardMaterialTypes {
		materials = append(materials, m.Name)
	}
	for _, rt := range cfg.LootMajorRewardTypes {
		if !contains(materials, rt.MaterialType) {
			return ValidationError{
				Setting: name,
				Rule:    "lootMajorRewardTypes.materialType",
				Detail:  fmt.Sprintf("%q references unknown material type %q%s", rt.Name, rt.MaterialType, suggest(rt.MaterialType, materials)),
			}
		}
	}

	modifiers := make([]string, 0, len(cfg.LootMajorRewardModifierTypes))
	for _, m := range cfg.LootMajorRewardModifierTypes {
		modifiers = append(modifiers, m.Name)
	}
	for _, mt := range cfg.LootMajorRewardMaterialTypes {
		for _, opt := range mt.Options {
			if !contains(modifiers, opt.ModifierType) {
				return ValidationError{
					Setting: name,
					Rule:    "lootMajorRewardMaterialTypes.options.modifierType",
					Detail:  fmt.Sprintf("material %q references unknown modifier type %q%s", opt.Name, opt.ModifierType, suggest(opt.ModifierType, modifiers)),
				}
			}
		}
	}

	if len(cfg.TrialMajorRewardTypes) != trialMajorRewardTypeCount {
		return ValidationError{
			Setting: name,
			Rule:    "trialMajorRewardTypes",
			Detail:  fmt.Sprintf("want exactly %d entries, got %d", trialMajorRewardTypeCount, len(cfg.TrialMajorRewardTypes)),
		}
	}

	if len(cfg.GameViewTabDisplayNames) != gameViewTabCount {
		return ValidationError{
			Setting: name,
			Rule:    "gameViewTabDisplayNames",
			Detail:  fmt.Sprintf("want exactly %d entries, got %d", gameViewTabCount, len(cfg.GameViewTabDisplayNames)),
		}
	}
	for _, tab := range cfg.GameViewTabDisplayNames {
		if utf8.RuneCountInString(tab) > gameViewTabMaxLen {
			return ValidationError{
				Setting: name,
				Rule:    "gameViewTabDisplayNames",
				Detail:  fmt.Sprintf("%q is longer than %d characters", tab, gameViewTabMaxLen),
			}
		}
	}

	want := [taskModeCount]int{1, 1, questMajorRewardNameCount}
	if len(cfg.TaskModeData) != taskModeCount {
		return ValidationError{
			Setting: name,
			Rule:    "taskModeData",
			Detail:  fmt.Sprintf("want one entry per mode (%d), got %d", taskModeCount, len(cfg.TaskModeData)),
		}
	}
	for i, md := range cfg.TaskModeData {
		if len(md.MajorRewardDisplayName) != want[i] {
			return ValidationError{
				Setting: name,
				Rule:    "taskModeData.majorRewardDisplayName",
				Detail:  fmt.Sprintf("mode %d wants exactly %d display names, got %d (LOOT 1, TRIAL 1, QUEST 4)", i, want[i], len(md.MajorRewardDisplayName)),
			}
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var placeholderRe = regexp.MustCompile(`%[a-zA-Z_]+%`)

// HydrateFromNameSources replaces every %source% placeholder in s with an
// independently drawn option of the matching name source. Placeholders with
// no matching source are replaced by the empty string.
func (gs *GameSetting) HydrateFromNameSources(r rng.Source, s string) string {
	if !placeholderRe.MatchString(s) {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(token string) string {
		src := gs.nameSource(token[1 : len(token)-1])
		if src == nil {
			return ""
		}
		return rng.FromList(r, src.Options)
	})
}

func (gs *GameSetting) nameSource(name string) *NameSource {
	for i := range gs.NameSources {
		if gs.NameSources[i].Source == name {
			return &gs.NameSources[i]
		}
	}
	return nil
}

// PrefixOptions returns the prefix table for (targetType, degree), or nil.
func (gs *GameSetting) PrefixOptions(targetType TaskTargetType, degree PrefixDegree) []string {
	for _, p := range gs.TaskPrefixes {
		if p.TaskTargetType == targetType && p.Degree == degree {
			return p.Options
		}
	}
	return nil
}

// TargetsOfType returns the basic task targets whose type is one of types.
func (gs *GameSetting) TargetsOfType(types ...TaskTargetType) []TaskTarget {
	var out []TaskTarget
	for _, t := range gs.BasicTaskTargets {
		for _, want := range types {
			if t.Type == want {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// LeadTargetsOfType returns the lead targets of the given lead type.
func (gs *GameSetting) LeadTargetsOfType(lt LeadType) []LeadTarget {
	var out []LeadTarget
	for _, t := range gs.LeadTargets {
		if t.LeadType == lt {
			out = append(out, t)
		}
	}
	return out
}

// MaterialType looks up a loot major reward material table by name.
func (gs *GameSetting) MaterialType(name string) (LootMajorRewardMaterialType, bool) {
	for _, m := range gs.LootMajorRewardMaterialTypes {
		if m.Name == name {
			return m, true
		}
	}
	return LootMajorRewardMaterialType{}, false
}

// ModifierType looks up a loot major reward modifier table by name.
func (gs *GameSetting) ModifierType(name string) (LootMajorRewardModifierType, bool) {
	for _, m := range gs.LootMajorRewardModifierTypes {
		if m.Name == name {
			return m, true
		}
	}
	return LootMajorRewardModifierType{}, false
}

// PrologueProgressRequired is the total duration of the prologue tasks.
func (gs *GameSetting) PrologueProgressRequired() int {
	total := 0
	for _, t := range gs.PrologueTasks {
		total += t.DurationSeconds
	}
	return total
}
