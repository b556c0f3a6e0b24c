package model

import (
	"time"

	"github.com/Veraticus/pointage/internal/timeofday"
)

// Schedule holds the single fixed morning/lunch/evening template that punch
// sequences are measured against.
type Schedule struct {
	StandardBreak      time.Duration
	StandardWork       time.Duration
	MorningReference   timeofday.Time
	LunchStart         timeofday.Time
	LunchEnd           timeofday.Time
	EveningReference   timeofday.Time
	DuplicateTolerance time.Duration
}

// DefaultSchedule returns the 09:00-18:00 template with a one hour lunch
// taken between 13:00 and 15:00.
func DefaultSchedule() Schedule {
	return Schedule{
		StandardBreak:      time.Hour,
		StandardWork:       8 * time.Hour,
		MorningReference:   timeofday.MustParse("09:00"),
		LunchStart:         timeofday.MustParse("13:00"),
		LunchEnd:           timeofday.MustParse("15:00"),
		EveningReference:   timeofday.MustParse("18:00"),
		DuplicateTolerance: 5 * time.Minute,
	}
}

// InLunchWindow reports whether t falls inside [LunchStart, LunchEnd].
func (s Schedule) InLunchWindow(t timeofday.Time) bool {
	return t >= s.LunchStart && t <= s.LunchEnd
}
