package engine

import "math"

// XPRequiredForLevel returns the XP a hero at level must bank to reach the
// next level: ceil(XPBase + XPGrowth * level^1.5). XP is spent on level-up, so
// the threshold is per level rather than cumulative.
func (c GameConfig) XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	req := c.XPBase + c.XPGrowth*math.Pow(float64(level), 1.5)
	// Use ceil to avoid making thresholds easier due to floating point rounding.
	return int(math.Ceil(req))
}

// TradeInCostForLevel is the currency a major reward of the given level costs.
// Every mode uses the same curve.
func TradeInCostForLevel(_ TaskMode, level int) float64 {
	l := float64(level)
	return math.Floor(5*l*l + 10*l + 20)
}

// LevelsGainedForXP reports how many successive levels xp would buy starting
// at level. Used by the status view to preview progress.
func (c GameConfig) LevelsGainedForXP(level, xp int) int {
	gained := 0
	for xp >= c.XPRequiredForLevel(level+gained) {
		xp -= c.XPRequiredForLevel(level + gained)
		gained++
		if gained > 1_000 {
			break
		}
	}
	return gained
}
