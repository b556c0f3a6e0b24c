package aggregate

import (
	"time"

	"github.com/Veraticus/pointage/internal/model"
)

// PlaceholderRange is used when no entry date parses.
var PlaceholderRange = model.DateRange{Start: "01/01/2025", End: "31/12/2025"}

// ReportRange returns the earliest and latest entry dates. Entries without a
// parsed date are ignored.
func ReportRange(entries []model.ComputedEntry) model.DateRange {
	var start, end time.Time
	found := false

	for _, entry := range entries {
		d := entry.Date
		if d.IsZero() {
			continue
		}
		if !found || d.Before(start) {
			start = d
		}
		if !found || d.After(end) {
			end = d
		}
		found = true
	}

	if !found {
		return PlaceholderRange
	}
	return model.DateRange{
		Start: start.Format(model.DateLayout),
		End:   end.Format(model.DateLayout),
	}
}
