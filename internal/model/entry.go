package model

import (
	"strings"
	"time"

	"github.com/Veraticus/pointage/internal/timeofday"
)

// Observation texts attached to computed entries. Parts are joined with
// ObservationSeparator in detection order.
const (
	ObservationVerifyPrefix     = "to verify: original had 5 values: "
	ObservationMissingBreak     = "missing break data"
	ObservationAbsent           = "absent"
	ObservationIrregularFormat  = "irregular data: %d values"
	ObservationComputationError = "time computation error"
	ObservationSeparator        = " | "
)

// ComputedEntry is one ledger row before aggregation. Time and duration
// fields are HH:MM strings and are empty when not computed.
type ComputedEntry struct {
	Date          time.Time
	EmployeeID    string
	Name          string
	Department    string
	DateText      string
	Entry         string
	Exit          string
	BreakStart    string
	BreakEnd      string
	BreakDuration string
	WorkDuration  string
	StandardBreak string
	StandardWork  string
	Shortfall     string
	Overtime      string
	Observation   string
	Row           int
}

// AddObservation appends a part to the observation text.
func (e *ComputedEntry) AddObservation(part string) {
	if e.Observation == "" {
		e.Observation = part
		return
	}
	e.Observation += ObservationSeparator + part
}

// NeedsVerification reports whether the punches were repaired from five
// values and need a human check.
func (e ComputedEntry) NeedsVerification() bool {
	return strings.Contains(e.Observation, ObservationVerifyPrefix)
}

// BelowStandard reports whether the worked duration is shorter than the
// standard workday. Entries without a parsable work duration are not below.
func (e ComputedEntry) BelowStandard() bool {
	if e.WorkDuration == "" {
		return false
	}
	worked, err := timeofday.ParseDuration(e.WorkDuration)
	if err != nil {
		return false
	}
	standard, err := timeofday.ParseDuration(e.StandardWork)
	if err != nil {
		return false
	}
	return worked < standard
}

// LedgerColumns are the output ledger headers in column order.
var LedgerColumns = []string{
	"Matricule", "Name", "Dept", "Date", "Entry", "Exit",
	"Break Start", "Break End", "Break Time", "Std Break", "Worked", "Std Work",
	"Shortfall", "Overtime", "Cumul Shortfall", "Cumul Overtime", "Total Shortfall", "Observations",
}

// Column indexes into LedgerColumns used by renderers.
const (
	ColumnWorked      = 10
	ColumnShortfall   = 12
	ColumnObservation = 17
)

// LedgerRow is a computed entry with the employee running totals at its
// position in the report.
type LedgerRow struct {
	ComputedEntry
	CumulativeShortfall string
	CumulativeOvertime  string
	TotalShortfall      string
}

// Values returns the row cells in LedgerColumns order.
func (r LedgerRow) Values() []string {
	return []string{
		r.EmployeeID, r.Name, r.Department, r.DateText,
		r.Entry, r.Exit, r.BreakStart, r.BreakEnd,
		r.BreakDuration, r.StandardBreak, r.WorkDuration, r.StandardWork,
		r.Shortfall, r.Overtime, r.CumulativeShortfall, r.CumulativeOvertime,
		r.TotalShortfall, r.Observation,
	}
}
