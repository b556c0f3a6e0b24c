// Package aggregate computes per-employee running totals over an ordered
// ledger and the date range the ledger covers.
package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/timeofday"
)

// RunningTotal is the cumulative shortfall and overtime of one employee.
type RunningTotal struct {
	EmployeeID string
	Shortfall  time.Duration
	Overtime   time.Duration
	Days       int
}

// add accumulates the entry's durations. Malformed durations count as zero.
func (t *RunningTotal) add(entry model.ComputedEntry) {
	t.Days++
	if entry.Shortfall != "" {
		if d, err := timeofday.ParseDuration(entry.Shortfall); err == nil {
			t.Shortfall += d
		}
	}
	if entry.Overtime != "" {
		if d, err := timeofday.ParseDuration(entry.Overtime); err == nil {
			t.Overtime += d
		}
	}
}

// SortByEmployee orders entries by employee id then date, keeping input
// order for equal keys.
func SortByEmployee(entries []model.ComputedEntry) {
	slices.SortStableFunc(entries, func(a, b model.ComputedEntry) int {
		if c := cmp.Compare(a.EmployeeID, b.EmployeeID); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
}

// Aggregate attaches running totals to each entry. Entries must be grouped by
// employee id; totals restart at zero whenever the id changes.
func Aggregate(entries []model.ComputedEntry) []model.LedgerRow {
	rows := make([]model.LedgerRow, 0, len(entries))

	var total RunningTotal
	for i, entry := range entries {
		if i == 0 || entry.EmployeeID != total.EmployeeID {
			total = RunningTotal{EmployeeID: entry.EmployeeID}
		}
		total.add(entry)

		shortfall := timeofday.FormatDuration(total.Shortfall)
		rows = append(rows, model.LedgerRow{
			ComputedEntry:       entry,
			CumulativeShortfall: shortfall,
			CumulativeOvertime:  timeofday.FormatDuration(total.Overtime),
			TotalShortfall:      shortfall,
		})
	}

	return rows
}

// Totals returns the final running total of each employee group, in ledger
// order.
func Totals(entries []model.ComputedEntry) []RunningTotal {
	var totals []RunningTotal
	for i, entry := range entries {
		if i == 0 || entry.EmployeeID != totals[len(totals)-1].EmployeeID {
			totals = append(totals, RunningTotal{EmployeeID: entry.EmployeeID})
		}
		totals[len(totals)-1].add(entry)
	}
	return totals
}
