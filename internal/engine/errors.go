package engine

import "fmt"

// SelectionError indicates that no rule on the active ladder wanted to run.
// It means the ladder is missing its unconditional fallback.
type SelectionError struct {
	Mode  TaskMode
	Phase Phase
}

func (e SelectionError) Error() string {
	return fmt.Sprintf("no task rule matched for mode %s in %s phase", e.Mode, e.Phase)
}

// LeadExhaustedError is returned when every lead the ruleset can offer for a
// lead type is already in the hero's questlog.
type LeadExhaustedError struct {
	LeadType string
	Attempts int
}

func (e LeadExhaustedError) Error() string {
	return fmt.Sprintf("no new %q lead found after %d attempts", e.LeadType, e.Attempts)
}

// LadderError reports a rule ladder that cannot be used.
type LadderError struct {
	Core   bool
	Key    LadderKey
	Reason string
}

func (e LadderError) Error() string {
	if e.Core {
		return fmt.Sprintf("core rules: %s", e.Reason)
	}
	return fmt.Sprintf("ladder %s/%s: %s", e.Key.Mode, e.Key.Phase, e.Reason)
}

// ModificationError reports a modification the hero manager cannot apply.
type ModificationError struct {
	Index  int
	Reason string
}

func (e ModificationError) Error() string {
	return fmt.Sprintf("modification %d: %s", e.Index, e.Reason)
}

// ContentError reports a ruleset table that is empty where a rule needs it.
type ContentError struct {
	Setting string
	Table   string
}

func (e ContentError) Error() string {
	return fmt.Sprintf("game setting %q has no usable %s", e.Setting, e.Table)
}
