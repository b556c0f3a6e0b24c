package model

import "time"

// DateRange is a report period, formatted DD/MM/YYYY.
type DateRange struct {
	Start string
	End   string
}

// Report is everything a renderer needs: the aggregated ledger, its period
// and the input table it was computed from.
type Report struct {
	Range DateRange
	Input RawTable
	Rows  []LedgerRow
}

// VerifyCount returns the number of rows needing a human check.
func (r *Report) VerifyCount() int {
	n := 0
	for _, row := range r.Rows {
		if row.NeedsVerification() {
			n++
		}
	}
	return n
}

// Run is one archived processing of an input table.
type Run struct {
	CreatedAt    time.Time
	ID           string
	Sources      []string
	Range        DateRange
	RowCount     int
	VerifyCount  int
	SkippedCount int
}
