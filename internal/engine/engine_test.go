package engine

import (
	"testing"
	"time"

	"github.com/Veraticus/pointage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

func record(punches ...string) model.PunchRecord {
	return model.PunchRecord{
		EmployeeID: "1001",
		Name:       "Amal Idrissi",
		Department: "Logistique",
		Date:       "05/03/2025",
		Punches:    punches,
	}
}

func TestEngine_Compute(t *testing.T) {
	tests := []struct {
		name        string
		punches     []string
		entry       string
		exit        string
		breakStart  string
		breakEnd    string
		breakTime   string
		worked      string
		shortfall   string
		overtime    string
		observation string
	}{
		{
			name:       "standard day",
			punches:    []string{"09:00", "13:00", "14:00", "18:00"},
			entry:      "09:00",
			exit:       "18:00",
			breakStart: "13:00",
			breakEnd:   "14:00",
			breakTime:  "01:00",
			worked:     "08:00",
		},
		{
			name:       "late arrival",
			punches:    []string{"09:30", "13:00", "14:00", "18:00"},
			entry:      "09:30",
			exit:       "18:00",
			breakStart: "13:00",
			breakEnd:   "14:00",
			breakTime:  "01:00",
			worked:     "07:30",
			shortfall:  "00:30",
		},
		{
			name:       "long day",
			punches:    []string{"08:00", "13:00", "13:45", "19:00"},
			entry:      "08:00",
			exit:       "19:00",
			breakStart: "13:00",
			breakEnd:   "13:45",
			breakTime:  "00:45",
			worked:     "10:15",
			overtime:   "02:15",
		},
		{
			name:       "night shift crossing midnight",
			punches:    []string{"22:00", "02:00", "02:30", "06:00"},
			entry:      "22:00",
			exit:       "06:00",
			breakStart: "02:00",
			breakEnd:   "02:30",
			breakTime:  "00:30",
			worked:     "07:30",
			shortfall:  "00:30",
		},
		{
			name:       "break crossing midnight",
			punches:    []string{"18:00", "23:30", "00:15", "03:00"},
			entry:      "18:00",
			exit:       "03:00",
			breakStart: "23:30",
			breakEnd:   "00:15",
			breakTime:  "00:45",
			worked:     "08:15",
			overtime:   "00:15",
		},
		{
			name:        "break longer than presence",
			punches:     []string{"09:00", "13:00", "13:00", "18:00"},
			entry:       "09:00",
			exit:        "18:00",
			breakStart:  "13:00",
			breakEnd:    "13:00",
			breakTime:   "24:00",
			observation: "time computation error",
		},
		{
			name:        "malformed break punch",
			punches:     []string{"09:00", "1x:00", "14:00", "18:00"},
			entry:       "09:00",
			exit:        "18:00",
			breakStart:  "1x:00",
			breakEnd:    "14:00",
			observation: "time computation error",
		},
		{
			name:        "malformed exit keeps the break",
			punches:     []string{"09:00", "13:00", "14:00", "18h"},
			entry:       "09:00",
			exit:        "18h",
			breakStart:  "13:00",
			breakEnd:    "14:00",
			breakTime:   "01:00",
			observation: "time computation error",
		},
		{
			name:        "entry and exit only",
			punches:     []string{"09:00", "18:00"},
			entry:       "09:00",
			exit:        "18:00",
			worked:      "08:00",
			observation: "missing break data",
		},
		{
			name:        "entry and exit only short day",
			punches:     []string{"09:00", "16:00"},
			entry:       "09:00",
			exit:        "16:00",
			worked:      "06:00",
			shortfall:   "02:00",
			observation: "missing break data",
		},
		{
			name:        "entry and exit shorter than assumed break",
			punches:     []string{"09:00", "09:30"},
			entry:       "09:00",
			exit:        "09:30",
			observation: "missing break data | time computation error",
		},
		{
			name:        "absent",
			punches:     nil,
			entry:       "00:00",
			exit:        "00:00",
			breakTime:   "00:00",
			worked:      "00:00",
			observation: "absent",
		},
		{
			name:        "three punches",
			punches:     []string{"09:00", "12:00", "13:00"},
			observation: "irregular data: 3 values",
		},
		{
			name:        "single punch",
			punches:     []string{"09:00"},
			observation: "irregular data: 1 values",
		},
		{
			name:        "six punches",
			punches:     []string{"09:00", "10:00", "12:00", "13:00", "17:00", "18:00"},
			observation: "irregular data: 6 values",
		},
		{
			name:        "five punches repaired",
			punches:     []string{"09:00", "09:02", "13:00", "14:00", "18:00"},
			entry:       "09:00",
			exit:        "18:00",
			breakStart:  "13:00",
			breakEnd:    "14:00",
			breakTime:   "01:00",
			worked:      "08:00",
			observation: "to verify: original had 5 values: 09:00 09:02 13:00 14:00 18:00",
		},
		{
			name:        "five punches reduced below four",
			punches:     []string{"07:00", "08:00", "09:00", "14:00", "18:00"},
			observation: "to verify: original had 5 values: 07:00 08:00 09:00 14:00 18:00 | irregular data: 3 values",
		},
	}

	e := New(model.DefaultSchedule())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Compute(record(tt.punches...), testDate)

			assert.Equal(t, tt.entry, got.Entry, "entry")
			assert.Equal(t, tt.exit, got.Exit, "exit")
			assert.Equal(t, tt.breakStart, got.BreakStart, "break start")
			assert.Equal(t, tt.breakEnd, got.BreakEnd, "break end")
			assert.Equal(t, tt.breakTime, got.BreakDuration, "break duration")
			assert.Equal(t, tt.worked, got.WorkDuration, "worked")
			assert.Equal(t, tt.shortfall, got.Shortfall, "shortfall")
			assert.Equal(t, tt.overtime, got.Overtime, "overtime")
			assert.Equal(t, tt.observation, got.Observation, "observation")

			assert.Equal(t, "01:00", got.StandardBreak)
			assert.Equal(t, "08:00", got.StandardWork)
			assert.Equal(t, "1001", got.EmployeeID)
			assert.Equal(t, "05/03/2025", got.DateText)
			assert.Equal(t, testDate, got.Date)
		})
	}
}

func TestEngine_Compute_NeedsVerification(t *testing.T) {
	e := New(model.DefaultSchedule())

	repaired := e.Compute(record("09:00", "13:00", "14:00", "14:30", "18:00"), testDate)
	assert.True(t, repaired.NeedsVerification())
	assert.Equal(t, "14:30", repaired.BreakEnd)

	regular := e.Compute(record("09:00", "13:00", "14:00", "18:00"), testDate)
	assert.False(t, regular.NeedsVerification())
}

func TestEngine_Compute_WorkIdentity(t *testing.T) {
	e := New(model.DefaultSchedule())

	// worked = (exit - entry) - (break end - break start) for same-day punches.
	for entryHour := 6; entryHour <= 10; entryHour++ {
		for pause := 15; pause <= 120; pause += 15 {
			in := time.Date(0, 1, 1, entryHour, 0, 0, 0, time.UTC)
			bs := time.Date(0, 1, 1, 12, 30, 0, 0, time.UTC)
			be := bs.Add(time.Duration(pause) * time.Minute)
			out := time.Date(0, 1, 1, 17, 45, 0, 0, time.UTC)

			got := e.Compute(record(in.Format("15:04"), bs.Format("15:04"), be.Format("15:04"), out.Format("15:04")), testDate)

			want := out.Sub(in) - be.Sub(bs)
			assert.Equal(t, formatHM(want), got.WorkDuration)
		}
	}
}

func TestEngine_Compute_CustomSchedule(t *testing.T) {
	schedule := model.DefaultSchedule()
	schedule.StandardWork = 7 * time.Hour
	schedule.StandardBreak = 30 * time.Minute
	e := New(schedule)

	got := e.Compute(record("09:00", "17:00"), testDate)
	assert.Equal(t, "07:30", got.WorkDuration)
	assert.Equal(t, "00:30", got.Overtime)
	assert.Empty(t, got.Shortfall)
	assert.Equal(t, "00:30", got.StandardBreak)
	assert.Equal(t, "07:00", got.StandardWork)
}

func TestEngine_Process(t *testing.T) {
	records := []model.PunchRecord{
		{EmployeeID: "1", Date: "03/03/2025", Punches: []string{"09:00", "13:00", "14:00", "18:00"}, Row: 0},
		{EmployeeID: "1", Date: "2025-03-04", Punches: []string{"09:00", "18:00"}, Row: 1},
		{EmployeeID: "1", Date: "4/3/2025", Punches: nil, Row: 2},
		{EmployeeID: "2", Date: "", Punches: nil, Row: 3},
	}

	var calls []int
	e := New(model.DefaultSchedule(), WithProgress(func(done, total int) {
		assert.Equal(t, len(records), total)
		calls = append(calls, done)
	}))

	result := e.Process(records)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, 0, result.Entries[0].Row)
	assert.Equal(t, 2, result.Entries[1].Row)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), result.Entries[1].Date)
	assert.Equal(t, "absent", result.Entries[1].Observation)

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, Skipped{EmployeeID: "1", Date: "2025-03-04", Reason: ReasonInvalidDate, Row: 1}, result.Skipped[0])
	assert.Equal(t, 3, result.Skipped[1].Row)

	assert.Equal(t, []int{1, 2, 3, 4}, calls)
}

func TestResult_VerifyCount(t *testing.T) {
	e := New(model.DefaultSchedule())
	result := e.Process([]model.PunchRecord{
		{EmployeeID: "1", Date: "03/03/2025", Punches: []string{"09:00", "09:01", "13:00", "14:00", "18:00"}},
		{EmployeeID: "1", Date: "04/03/2025", Punches: []string{"09:00", "13:00", "14:00", "18:00"}},
		{EmployeeID: "2", Date: "04/03/2025", Punches: []string{"08:00", "08:30", "13:00", "14:00", "18:00"}},
	})

	assert.Equal(t, 2, result.VerifyCount())
}

func formatHM(d time.Duration) string {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04")
}
