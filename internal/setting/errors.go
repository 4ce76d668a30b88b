package setting

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// ValidationError reports a ruleset that breaks one of the content invariants.
type ValidationError struct {
	Setting string
	Rule    string
	Detail  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("game setting %q: %s: %s", e.Setting, e.Rule, e.Detail)
}

// UnknownSettingError is returned when a hero references a ruleset id that
// was never registered.
type UnknownSettingError struct {
	ID         string
	Suggestion string
}

func (e UnknownSettingError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown game setting %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("unknown game setting %q", e.ID)
}

// closest returns the candidate with the smallest edit distance to s, as long
// as the distance is small enough to be a plausible typo.
func closest(s string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(s, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > typoLimit(len(s)) {
		return ""
	}
	return best
}

func typoLimit(n int) int {
	switch {
	case n <= 2:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

func suggest(s string, candidates []string) string {
	if c := closest(s, candidates); c != "" {
		return fmt.Sprintf(" (did you mean %q?)", c)
	}
	return ""
}
