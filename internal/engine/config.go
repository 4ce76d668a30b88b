package engine

import "fmt"

// GameConfig holds the numeric tunables shared by every ruleset. The env tags
// are read by internal/config.
type GameConfig struct {
	// CompetitiveClassGraduationChanceCoefficient scales the odds of leaving
	// a competitive class: the chance is 1 in round(avgRanking² * coef) + 1.
	CompetitiveClassGraduationChanceCoefficient float64 `env:"GRADUATION_COEFFICIENT" envDefault:"0.5"`

	StartingTrialRanking int `env:"STARTING_TRIAL_RANKING" envDefault:"100"`

	StartingMaxBuildUp            int `env:"STARTING_MAX_BUILD_UP" envDefault:"10"`
	StartingMaxEnvironmentalLimit int `env:"STARTING_MAX_ENV_LIMIT" envDefault:"10"`
	BuildUpGrowthInterval         int `env:"BUILD_UP_GROWTH_INTERVAL" envDefault:"3"`

	XPBase   float64 `env:"XP_BASE" envDefault:"20"`
	XPGrowth float64 `env:"XP_GROWTH" envDefault:"10"`

	AdventureProgressBase int `env:"ADVENTURE_PROGRESS_BASE" envDefault:"60"`
}

// DefaultGameConfig mirrors the envDefault tags above.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		CompetitiveClassGraduationChanceCoefficient: 0.5,
		StartingTrialRanking:                        100,
		StartingMaxBuildUp:                          10,
		StartingMaxEnvironmentalLimit:               10,
		BuildUpGrowthInterval:                       3,
		XPBase:                                      20,
		XPGrowth:                                    10,
		AdventureProgressBase:                       60,
	}
}

// Validate rejects values that would stall or break task generation.
func (c GameConfig) Validate() error {
	switch {
	case c.CompetitiveClassGraduationChanceCoefficient < 0:
		return fmt.Errorf("graduation coefficient must be >= 0, got %v", c.CompetitiveClassGraduationChanceCoefficient)
	case c.StartingTrialRanking < 1:
		return fmt.Errorf("starting trial ranking must be >= 1, got %d", c.StartingTrialRanking)
	case c.StartingMaxBuildUp < 1:
		return fmt.Errorf("starting max build-up must be >= 1, got %d", c.StartingMaxBuildUp)
	case c.StartingMaxEnvironmentalLimit < 1:
		return fmt.Errorf("starting max environmental limit must be >= 1, got %d", c.StartingMaxEnvironmentalLimit)
	case c.BuildUpGrowthInterval < 1:
		return fmt.Errorf("build-up growth interval must be >= 1, got %d", c.BuildUpGrowthInterval)
	case c.XPBase <= 0 || c.XPGrowth < 0:
		return fmt.Errorf("xp curve must be positive, got base=%v growth=%v", c.XPBase, c.XPGrowth)
	case c.AdventureProgressBase < 1:
		return fmt.Errorf("adventure progress base must be >= 1, got %d", c.AdventureProgressBase)
	}
	return nil
}
