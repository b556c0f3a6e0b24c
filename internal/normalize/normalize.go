// Package normalize repairs malformed punch sequences into the canonical
// entry, break-start, break-end, exit form.
package normalize

import (
	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/timeofday"
)

// Canonical is the punch count of a complete day.
const Canonical = 4

// Repairable is the only punch count the rules apply to.
const Repairable = 5

// Rule decides which positions of a five-punch sequence to drop. Apply
// returns ok=false when the rule does not match.
type Rule struct {
	Apply func(punches []timeofday.Time, schedule model.Schedule) (drop []int, ok bool)
	Name  string
}

// Result describes one normalization.
type Result struct {
	Rule    string // name of the rule that matched, empty on pass-through
	Punches []string
}

// Normalizer applies an ordered rule list to five-punch sequences.
type Normalizer struct {
	rules    []Rule
	schedule model.Schedule
}

// New creates a normalizer using DefaultRules.
func New(schedule model.Schedule) *Normalizer {
	return NewWithRules(schedule, DefaultRules())
}

// NewWithRules creates a normalizer evaluating rules in the given order.
// Fallback is always tried last.
func NewWithRules(schedule model.Schedule, rules []Rule) *Normalizer {
	return &Normalizer{schedule: schedule, rules: rules}
}

// Normalize returns the repaired punch sequence. Sequences that do not have
// exactly five punches are returned unchanged.
func (n *Normalizer) Normalize(punches []string) []string {
	return n.Resolve(punches).Punches
}

// Resolve is Normalize that also reports which rule matched.
func (n *Normalizer) Resolve(punches []string) Result {
	if len(punches) != Repairable {
		return Result{Punches: punches}
	}

	times := make([]timeofday.Time, len(punches))
	for i, p := range punches {
		t, err := timeofday.Parse(p)
		if err != nil {
			// Rules compare times, so an unreadable token can only go through
			// the positional fallback.
			drop, _ := Fallback.Apply(nil, n.schedule)
			return Result{Rule: Fallback.Name, Punches: keep(punches, drop)}
		}
		times[i] = t
	}

	canonical := make([]string, len(times))
	for i, t := range times {
		canonical[i] = t.String()
	}

	for _, rule := range n.rules {
		if drop, ok := rule.Apply(times, n.schedule); ok {
			return Result{Rule: rule.Name, Punches: keep(canonical, drop)}
		}
	}

	drop, _ := Fallback.Apply(times, n.schedule)
	return Result{Rule: Fallback.Name, Punches: keep(canonical, drop)}
}

// keep returns the values whose positions are not in drop, in original order.
func keep(values []string, drop []int) []string {
	dropped := make(map[int]bool, len(drop))
	for _, i := range drop {
		dropped[i] = true
	}
	out := make([]string, 0, len(values)-len(dropped))
	for i, v := range values {
		if !dropped[i] {
			out = append(out, v)
		}
	}
	return out
}
