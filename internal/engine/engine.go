// Package engine turns raw punch records into computed ledger entries.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/normalize"
	"github.com/Veraticus/pointage/internal/timeofday"
)

// ReasonInvalidDate is the skip reason for rows whose date does not parse.
const ReasonInvalidDate = "unparseable date"

// Engine computes work durations for punch records against a schedule.
type Engine struct {
	normalizer *normalize.Normalizer
	progress   ProgressFunc
	schedule   model.Schedule
}

// ProgressFunc is called after each input record is handled.
type ProgressFunc func(done, total int)

// Option configures an Engine.
type Option func(*Engine)

// WithProgress registers a progress callback for Process.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithNormalizer replaces the default five-punch normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// New creates an engine for the given schedule.
func New(schedule model.Schedule, opts ...Option) *Engine {
	e := &Engine{
		schedule:   schedule,
		normalizer: normalize.New(schedule),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Skipped describes an input record left out of the ledger.
type Skipped struct {
	EmployeeID string
	Date       string
	Reason     string
	Row        int
}

// Result is the outcome of processing a table of records.
type Result struct {
	Entries []model.ComputedEntry
	Skipped []Skipped
}

// VerifyCount returns the number of entries needing a human check.
func (r Result) VerifyCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.NeedsVerification() {
			n++
		}
	}
	return n
}

// Process computes an entry for every record whose date parses. Records with
// an unparseable date are reported in Result.Skipped and produce no entry.
func (e *Engine) Process(records []model.PunchRecord) Result {
	result := Result{Entries: make([]model.ComputedEntry, 0, len(records))}

	for i, rec := range records {
		date, err := model.ParseDate(rec.Date)
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{
				Row:        rec.Row,
				EmployeeID: rec.EmployeeID,
				Date:       rec.Date,
				Reason:     ReasonInvalidDate,
			})
		} else {
			result.Entries = append(result.Entries, e.Compute(rec, date))
		}

		if e.progress != nil {
			e.progress(i+1, len(records))
		}
	}

	return result
}

// Compute builds the ledger entry for one record on an already parsed date.
func (e *Engine) Compute(rec model.PunchRecord, date time.Time) model.ComputedEntry {
	entry := model.ComputedEntry{
		Date:          date,
		Row:           rec.Row,
		EmployeeID:    rec.EmployeeID,
		Name:          rec.Name,
		Department:    rec.Department,
		DateText:      rec.Date,
		StandardBreak: timeofday.FormatDuration(e.schedule.StandardBreak),
		StandardWork:  timeofday.FormatDuration(e.schedule.StandardWork),
	}

	punches := rec.Punches
	if len(punches) == normalize.Repairable {
		entry.AddObservation(model.ObservationVerifyPrefix + strings.Join(punches, " "))
		punches = e.normalizer.Normalize(punches)
	}

	switch len(punches) {
	case 4:
		e.computeFull(&entry, punches)
	case 2:
		e.computeWithoutBreak(&entry, punches)
	case 0:
		entry.AddObservation(model.ObservationAbsent)
		entry.Entry = "00:00"
		entry.Exit = "00:00"
		entry.BreakDuration = "00:00"
		entry.WorkDuration = "00:00"
	default:
		entry.AddObservation(fmt.Sprintf(model.ObservationIrregularFormat, len(punches)))
	}

	return entry
}

// computeFull handles entry, break start, break end, exit.
func (e *Engine) computeFull(entry *model.ComputedEntry, punches []string) {
	entry.Entry = punches[0]
	entry.BreakStart = punches[1]
	entry.BreakEnd = punches[2]
	entry.Exit = punches[3]

	breakStart, err := timeofday.Parse(entry.BreakStart)
	if err != nil {
		entry.AddObservation(model.ObservationComputationError)
		return
	}
	breakEnd, err := timeofday.Parse(entry.BreakEnd)
	if err != nil {
		entry.AddObservation(model.ObservationComputationError)
		return
	}
	pause := timeofday.Span(breakStart, breakEnd)
	entry.BreakDuration = timeofday.FormatDuration(pause)

	span, err := e.presence(entry.Entry, entry.Exit)
	if err != nil {
		entry.AddObservation(model.ObservationComputationError)
		return
	}
	e.settle(entry, span-pause)
}

// computeWithoutBreak handles entry and exit only; the standard break is
// assumed to have been taken.
func (e *Engine) computeWithoutBreak(entry *model.ComputedEntry, punches []string) {
	entry.Entry = punches[0]
	entry.Exit = punches[1]
	entry.AddObservation(model.ObservationMissingBreak)

	span, err := e.presence(entry.Entry, entry.Exit)
	if err != nil {
		entry.AddObservation(model.ObservationComputationError)
		return
	}
	e.settle(entry, span-e.schedule.StandardBreak)
}

func (e *Engine) presence(in, out string) (time.Duration, error) {
	entry, err := timeofday.Parse(in)
	if err != nil {
		return 0, err
	}
	exit, err := timeofday.Parse(out)
	if err != nil {
		return 0, err
	}
	return timeofday.Span(entry, exit), nil
}

// settle records the worked duration and compares it with the standard day.
// A break longer than the time present cannot be represented and counts as
// a computation failure.
func (e *Engine) settle(entry *model.ComputedEntry, worked time.Duration) {
	if worked < 0 {
		entry.AddObservation(model.ObservationComputationError)
		return
	}

	worked = worked.Truncate(time.Minute)
	entry.WorkDuration = timeofday.FormatDuration(worked)

	switch {
	case worked < e.schedule.StandardWork:
		entry.Shortfall = timeofday.FormatDuration(e.schedule.StandardWork - worked)
	case worked > e.schedule.StandardWork:
		entry.Overtime = timeofday.FormatDuration(worked - e.schedule.StandardWork)
	}
}
