package setting

// TaskTargetType classifies a task target and selects its prefix tables.
type TaskTargetType string

const (
	TargetFoe      TaskTargetType = "FOE"
	TargetLocation TaskTargetType = "LOCATION"
	TargetTrial    TaskTargetType = "TRIAL"
	TargetDuel     TaskTargetType = "DUEL"
)

// UsesListSeparator reports whether two-word prefixes for this target type
// are joined with ", " rather than a space.
func (t TaskTargetType) UsesListSeparator() bool {
	return t == TargetLocation || t == TargetTrial
}

// PrefixDegree names one severity tier of a task prefix table.
type PrefixDegree string

const (
	DegreeMinimal    PrefixDegree = "minimal"
	DegreeBadFirst   PrefixDegree = "bad first"
	DegreeBadSecond  PrefixDegree = "bad second"
	DegreeMaximal    PrefixDegree = "maximal"
	DegreeGoodFirst  PrefixDegree = "good first"
	DegreeGoodSecond PrefixDegree = "good second"
)

type TaskTarget struct {
	Type         TaskTargetType `yaml:"type"`
	Name         string         `yaml:"name"`
	NamePlural   string         `yaml:"namePlural"`
	Level        int            `yaml:"level"`
	Reward       string         `yaml:"reward"`
	RewardPlural string         `yaml:"rewardPlural"`
}

type TaskPrefix struct {
	TaskTargetType TaskTargetType `yaml:"taskTargetType"`
	Degree         PrefixDegree   `yaml:"degree"`
	Options        []string       `yaml:"options"`
}

// NameSource is a named pool of fragments that hydrates %source% placeholders.
type NameSource struct {
	Source  string   `yaml:"source"`
	Options []string `yaml:"options"`
}

type HeroRace struct {
	RaceName         string `yaml:"raceName"`
	Description      string `yaml:"description"`
	TrophyName       string `yaml:"trophyName"`
	TrophyNamePlural string `yaml:"trophyNamePlural"`
}

type HeroClass struct {
	Name        string `yaml:"name"`
	NamePlural  string `yaml:"namePlural"`
	Description string `yaml:"description"`
}

type AbilityType struct {
	DisplayName string   `yaml:"displayName"`
	Options     []string `yaml:"options"`
}

type PrologueTask struct {
	TaskDescription string `yaml:"taskDescription"`
	DurationSeconds int    `yaml:"durationSeconds"`
}

type LootMajorRewardType struct {
	Name         string `yaml:"name"`
	MaterialType string `yaml:"materialType"`
}

type LootMajorRewardMaterialType struct {
	Name    string                    `yaml:"name"`
	Options []LootMajorRewardMaterial `yaml:"options"`
}

type LootMajorRewardMaterial struct {
	Name         string `yaml:"name"`
	Level        int    `yaml:"level"`
	ModifierType string `yaml:"modifierType"`
}

type LootMajorRewardModifierType struct {
	Name    string                    `yaml:"name"`
	Options []LootMajorRewardModifier `yaml:"options"`
}

type LootMajorRewardModifier struct {
	Name          string `yaml:"name"`
	LevelModifier int    `yaml:"levelModifier"`
}

// TaskModeData holds the per-mode display text. The ruleset carries exactly
// one entry per adventuring mode, in LOOT, TRIAL, QUEST order.
type TaskModeData struct {
	TaskModeActionName                    string   `yaml:"taskModeActionName"`
	StartBuildUpTaskDescriptionOptions    []string `yaml:"startBuildUpTaskDescriptionOptions"`
	StartTearDownTaskDescriptionOptions   []string `yaml:"startTearDownTaskDescriptionOptions"`
	EarnMajorRewardTaskDescriptionOptions []string `yaml:"earnMajorRewardTaskDescriptionOptions"`
	MajorRewardDisplayName                []string `yaml:"majorRewardDisplayName"`
	BuildUpRewardDisplayName              string   `yaml:"buildUpRewardDisplayName"`
	BuildUpLimitDisplayName               string   `yaml:"buildUpLimitDisplayName"`
	CurrencyDisplayName                   string   `yaml:"currencyDisplayName"`
	EnvironmentalLimitDisplayName         string   `yaml:"environmentalLimitDisplayName"`
}

type HeroTitlePosition struct {
	Description string `yaml:"description"`
}

// LeadType groups lead targets so that a gathering target can ask for a kind
// of lead.
type LeadType string

type LeadGatheringTarget struct {
	LeadTypes        []LeadType `yaml:"leadTypes"`
	GerundPhrase     string     `yaml:"gerundPhrase"`
	PredicateOptions []string   `yaml:"predicateOptions"`
}

type LeadTarget struct {
	LeadType         LeadType `yaml:"leadType"`
	Verb             string   `yaml:"verb"`
	Gerund           string   `yaml:"gerund"`
	PredicateOptions []string `yaml:"predicateOptions"`
}
