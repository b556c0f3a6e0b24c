package normalize

import (
	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/timeofday"
)

// DefaultRules returns the repair rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		AdjacentDuplicate,
		TripleBreak,
		MultipleMorningEntries,
		MultipleEveningExits,
	}
}

// AdjacentDuplicate drops the second punch of the first consecutive pair
// recorded within the duplicate tolerance.
var AdjacentDuplicate = Rule{
	Name: "adjacent-duplicate",
	Apply: func(punches []timeofday.Time, schedule model.Schedule) ([]int, bool) {
		for i := 0; i+1 < len(punches); i++ {
			if timeofday.Distance(punches[i], punches[i+1]) <= schedule.DuplicateTolerance {
				return []int{i + 1}, true
			}
		}
		return nil, false
	},
}

// TripleBreak drops the middle one when exactly three punches fall in the
// lunch window.
var TripleBreak = Rule{
	Name: "triple-break",
	Apply: func(punches []timeofday.Time, schedule model.Schedule) ([]int, bool) {
		var inWindow []int
		for i, p := range punches {
			if schedule.InLunchWindow(p) {
				inWindow = append(inWindow, i)
			}
		}
		if len(inWindow) != 3 {
			return nil, false
		}
		return []int{inWindow[1]}, true
	},
}

// MultipleMorningEntries keeps the punch before lunch closest to the morning
// reference and drops every other one. With three or more morning punches the
// result has fewer than four punches.
var MultipleMorningEntries = Rule{
	Name: "multiple-morning-entries",
	Apply: func(punches []timeofday.Time, schedule model.Schedule) ([]int, bool) {
		var morning []int
		for i, p := range punches {
			if p < schedule.LunchStart {
				morning = append(morning, i)
			}
		}
		return keepClosest(punches, morning, schedule.MorningReference)
	},
}

// MultipleEveningExits keeps the punch after lunch closest to the evening
// reference and drops every other one. Like MultipleMorningEntries it can
// leave fewer than four punches.
var MultipleEveningExits = Rule{
	Name: "multiple-evening-exits",
	Apply: func(punches []timeofday.Time, schedule model.Schedule) ([]int, bool) {
		var evening []int
		for i, p := range punches {
			if p > schedule.LunchEnd {
				evening = append(evening, i)
			}
		}
		return keepClosest(punches, evening, schedule.EveningReference)
	},
}

// Fallback drops the middle position.
var Fallback = Rule{
	Name: "fallback",
	Apply: func(_ []timeofday.Time, _ model.Schedule) ([]int, bool) {
		return []int{Repairable / 2}, true
	},
}

// keepClosest returns every candidate position except the one closest to
// ref. Ties go to the earliest position.
func keepClosest(punches []timeofday.Time, candidates []int, ref timeofday.Time) ([]int, bool) {
	if len(candidates) < 2 {
		return nil, false
	}

	best := candidates[0]
	bestDistance := timeofday.Distance(punches[best], ref)
	for _, i := range candidates[1:] {
		if d := timeofday.Distance(punches[i], ref); d < bestDistance {
			best, bestDistance = i, d
		}
	}

	drop := make([]int, 0, len(candidates)-1)
	for _, i := range candidates {
		if i != best {
			drop = append(drop, i)
		}
	}
	return drop, true
}
