package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/pointage/internal/cli"
	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/report"
	"github.com/Veraticus/pointage/internal/service"
	"github.com/Veraticus/pointage/internal/sheets"
	"github.com/Veraticus/pointage/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable(t *testing.T) *testutil.PunchTable {
	t.Helper()
	return testutil.NewPunchTable(t).
		Day("1002", "Karim Benali", "Atelier", "04/03/2025", "08:00", "08:30", "13:00", "14:00", "18:00").
		Day("1001", "Amal Idrissi", "Logistique", "04/03/2025", "09:30", "13:00", "14:00", "18:00").
		Day("1001", "Amal Idrissi", "Logistique", "03/03/2025", "09:00", "13:00", "14:00", "18:00").
		Day("1002", "Karim Benali", "Atelier", "bad-date", "09:00", "18:00").
		Day("1002", "Karim Benali", "Atelier", "03/03/2025")
}

func TestBuildReport(t *testing.T) {
	path := sampleTable(t).WriteCSV("mars.csv")

	var progress []int
	result, err := buildReport(context.Background(), processOptions{
		Sources:  []string{path},
		Schedule: model.DefaultSchedule(),
		Sort:     true,
		Progress: func(done, _ int) { progress = append(progress, done) },
	})
	require.NoError(t, err)

	rows := result.Report.Rows
	require.Len(t, rows, 4)

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.EmployeeID + " " + r.DateText
	}
	assert.Equal(t, []string{"1001 03/03/2025", "1001 04/03/2025", "1002 03/03/2025", "1002 04/03/2025"}, got)

	assert.Equal(t, "00:30", rows[1].CumulativeShortfall)
	assert.Equal(t, "absent", rows[2].Observation)
	// Running totals restart for the second employee.
	assert.Equal(t, "00:00", rows[2].CumulativeShortfall)
	assert.True(t, rows[3].NeedsVerification())

	assert.Equal(t, model.DateRange{Start: "03/03/2025", End: "04/03/2025"}, result.Report.Range)
	assert.Equal(t, 5, result.Report.Input.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)

	require.Len(t, result.Totals, 2)
	assert.Equal(t, "1001", result.Totals[0].EmployeeID)
	assert.Equal(t, 30*time.Minute, result.Totals[0].Shortfall)
	assert.Equal(t, 2, result.Totals[1].Days)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 3, result.Skipped[0].Row)

	assert.Equal(t, []string{"mars.csv"}, result.Run.Sources)
	assert.Equal(t, 4, result.Run.RowCount)
	assert.Equal(t, 1, result.Run.VerifyCount)
	assert.Equal(t, 1, result.Run.SkippedCount)
}

func TestBuildReport_KeepsInputOrder(t *testing.T) {
	path := sampleTable(t).WriteCSV("mars.csv")

	result, err := buildReport(context.Background(), processOptions{
		Sources:  []string{path},
		Schedule: model.DefaultSchedule(),
	})
	require.NoError(t, err)

	rows := result.Report.Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "1002", rows[0].EmployeeID)
	assert.Equal(t, "04/03/2025", rows[1].DateText)
}

func TestBuildReport_MissingFile(t *testing.T) {
	_, err := buildReport(context.Background(), processOptions{
		Sources:  []string{filepath.Join(t.TempDir(), "absent.csv")},
		Schedule: model.DefaultSchedule(),
	})
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	path := sampleTable(t).WriteCSV("mars.csv")
	result, err := buildReport(context.Background(), processOptions{
		Sources:  []string{path},
		Schedule: model.DefaultSchedule(),
		Sort:     true,
	})
	require.NoError(t, err)

	db := testutil.SetupTestDB(t)
	mock := sheets.NewMockWriter()
	out := filepath.Join(t.TempDir(), "Etat_de_pointage.xlsx")

	writers := []service.ReportWriter{report.NewWorkbook(out, nil), mock}
	require.NoError(t, publish(context.Background(), result, writers, db.Storage))

	assert.Equal(t, 1, mock.WriteCallCount)
	assert.Same(t, result.Report, mock.LastReport)
	assert.FileExists(t, out)

	require.NotEmpty(t, result.Run.ID)
	stored, err := db.Storage.GetRunRows(context.Background(), result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Report.Rows, stored)
}

func TestPublish_WriterFailureStopsArchive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mock := sheets.NewMockWriter()
	mock.SetWriteError(errors.New("quota exceeded"))

	result := &processResult{Report: &model.Report{}, Run: &model.Run{}}
	err := publish(context.Background(), result, []service.ReportWriter{mock}, db.Storage)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, err.Error(), "quota exceeded")

	runs, err := db.Storage.GetRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPrintProcessSummary(t *testing.T) {
	rows := []model.LedgerRow{{ComputedEntry: model.ComputedEntry{
		EmployeeID: "1002", DateText: "04/03/2025",
		Observation: model.ObservationVerifyPrefix + "08:00 08:30 13:00 14:00 18:00",
	}}}
	summary := cli.Summary{Rows: 1, Verify: 1, Sources: []string{"mars.csv"}}

	var quiet bytes.Buffer
	require.NoError(t, printProcessSummary(&quiet, summary, rows, false))
	assert.NotContains(t, quiet.String(), "Observations")

	var verbose bytes.Buffer
	require.NoError(t, printProcessSummary(&verbose, summary, rows, true))
	assert.Contains(t, verbose.String(), "Observations")
	assert.Contains(t, verbose.String(), "1002")
}

func TestRootCommand_ProcessAndHistory(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("POINTAGE_STORAGE_PATH", filepath.Join(dir, "history.db"))

	input := sampleTable(t).WriteCSV("mars.csv")
	output := filepath.Join(dir, "out.xlsx")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		require.NoError(t, root.ExecuteContext(context.Background()), out.String())
		return out.String()
	}

	out := run("process", input, "-o", output, "--no-progress", "--archive", "--show-verify", "--show-totals", "--log-level", "error")
	assert.Contains(t, out, "03/03/2025 to 04/03/2025")
	assert.Contains(t, out, "Observations")
	assert.Contains(t, out, "Totals per employee")

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	ledger, err := f.GetRows(report.LedgerSheet)
	require.NoError(t, err)
	assert.Len(t, ledger, 3+4)

	listing := run("history", "list", "--log-level", "error")
	assert.Contains(t, listing, "mars.csv")

	version := run("version")
	assert.Contains(t, version, "pointage dev")
}

func TestRootCommand_InvalidSchedule(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	input := sampleTable(t).WriteCSV("mars.csv")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"process", input, "--standard-work", "eight", "--no-progress", "--log-level", "error"})

	err := root.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
