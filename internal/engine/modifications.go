package engine

// Modification is one declarative change to a hero. The set of variants is
// closed; HeroManager applies them with a type switch.
type Modification interface {
	isModification()
}

// Scalar names an integer attribute of Hero that Increase and Decrease act on.
type Scalar int

const (
	ScalarCurrentXP Scalar = iota
	ScalarAdventureProgress
	ScalarLootEnvironmentalLimit
	ScalarTrialEnvironmentalLimit
	ScalarQuestEnvironmentalLimit
	ScalarLevel
	ScalarCompetitiveClass
	ScalarMaxLootBuildUp
	ScalarMaxTrialBuildUp
	ScalarMaxQuestBuildUp
)

var scalarNames = map[Scalar]string{
	ScalarCurrentXP:               "currentXp",
	ScalarAdventureProgress:       "adventureProgress",
	ScalarLootEnvironmentalLimit:  "lootEnvironmentalLimit",
	ScalarTrialEnvironmentalLimit: "trialEnvironmentalLimit",
	ScalarQuestEnvironmentalLimit: "questEnvironmentalLimit",
	ScalarLevel:                   "level",
	ScalarCompetitiveClass:        "competitiveClass",
	ScalarMaxLootBuildUp:          "maxLootBuildUp",
	ScalarMaxTrialBuildUp:         "maxTrialBuildUp",
	ScalarMaxQuestBuildUp:         "maxQuestBuildUp",
}

func (s Scalar) String() string {
	if n, ok := scalarNames[s]; ok {
		return n
	}
	return "unknown"
}

// envLimitScalar maps a mode to its environmental limit attribute.
func envLimitScalar(m TaskMode) Scalar {
	switch m {
	case ModeLoot:
		return ScalarLootEnvironmentalLimit
	case ModeTrial:
		return ScalarTrialEnvironmentalLimit
	default:
		return ScalarQuestEnvironmentalLimit
	}
}

// ModeFlag names a per-mode boolean array of Hero.
type ModeFlag int

const (
	FlagIsInTeardownMode ModeFlag = iota
	FlagHasTrialRankingBeenRecalculated
)

// CurrencyLedger names a per-mode currency array of Hero.
type CurrencyLedger int

const (
	LedgerCurrency CurrencyLedger = iota
	LedgerSpentCurrency
)

// AddBuildUpRewards merges Rewards into the mode's build-up list by name,
// adding quantities. Mode must be ModeLoot or ModeTrial.
type AddBuildUpRewards struct {
	Mode    TaskMode
	Rewards []BuildUpReward
}

// RemoveBuildUpRewards subtracts Rewards' quantities by name and drops any
// entry left at zero or below.
type RemoveBuildUpRewards struct {
	Mode    TaskMode
	Rewards []BuildUpReward
}

type AddQuestLeads struct {
	Leads []QuestLead
}

// RemoveQuestLeads drops leads matching by questlog name.
type RemoveQuestLeads struct {
	Leads []QuestLead
}

type Increase struct {
	Attr   Scalar
	Amount int
}

// Decrease never takes an attribute below zero.
type Decrease struct {
	Attr   Scalar
	Amount int
}

type SetForMode struct {
	Flag  ModeFlag
	Mode  TaskMode
	Value bool
}

type AddCurrency struct {
	Ledger CurrencyLedger
	Mode   TaskMode
	Amount float64
}

// SetLootMajorReward replaces the item held in Reward.Type's slot.
type SetLootMajorReward struct {
	Reward LootMajorReward
}

type AddTrialMajorReward struct {
	Reward MajorReward
}

type AddQuestMajorReward struct {
	Reward MajorReward
}

// SetTrialRankings replaces the ranking of every listed trial type.
type SetTrialRankings struct {
	Rankings []TrialRanking
}

// BeginAdventure files the current adventure as completed and starts Next.
type BeginAdventure struct {
	Next Adventure
}

type IncreaseStat struct {
	Stat   string
	Amount int
}

// GrantAbility adds a rank of Ability under the ability type named Type.
type GrantAbility struct {
	Type    string
	Ability string
}

func (AddBuildUpRewards) isModification()    {}
func (RemoveBuildUpRewards) isModification() {}
func (AddQuestLeads) isModification()        {}
func (RemoveQuestLeads) isModification()     {}
func (Increase) isModification()             {}
func (Decrease) isModification()             {}
func (SetForMode) isModification()           {}
func (AddCurrency) isModification()          {}
func (SetLootMajorReward) isModification()   {}
func (AddTrialMajorReward) isModification()  {}
func (AddQuestMajorReward) isModification()  {}
func (SetTrialRankings) isModification()     {}
func (BeginAdventure) isModification()       {}
func (IncreaseStat) isModification()         {}
func (GrantAbility) isModification()         {}
