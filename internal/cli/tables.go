package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pointage/internal/aggregate"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/timeofday"
	"github.com/charmbracelet/lipgloss"
)

// Summary describes one processing run for the closing box.
type Summary struct {
	Output   string
	Range    model.DateRange
	Sources  []string
	Archived string
	Rows     int
	Verify   int
	Skipped  int
	Exported bool
}

// RenderSummary renders the end-of-run box.
func RenderSummary(s Summary) string {
	lines := []string{
		fmt.Sprintf("Period:      %s to %s", s.Range.Start, s.Range.End),
		fmt.Sprintf("Sources:     %s", strings.Join(s.Sources, ", ")),
		fmt.Sprintf("Rows:        %d", s.Rows),
	}

	if s.Verify > 0 {
		lines = append(lines, FormatWarning(fmt.Sprintf("To verify:   %d", s.Verify)))
	} else {
		lines = append(lines, FormatSuccess("To verify:   0"))
	}
	if s.Skipped > 0 {
		lines = append(lines, FormatWarning(fmt.Sprintf("Dropped:     %d (unparseable date)", s.Skipped)))
	}
	if s.Output != "" {
		lines = append(lines, fmt.Sprintf("Workbook:    %s", s.Output))
	}
	if s.Exported {
		lines = append(lines, "Sheets:      exported")
	}
	if s.Archived != "" {
		lines = append(lines, fmt.Sprintf("%s Archive run: %s", FolderIcon, s.Archived))
	}

	return RenderBox(ChartIcon+" Attendance report", strings.Join(lines, "\n"))
}

// RenderVerifyList lists the rows that need a human check.
func RenderVerifyList(rows []model.LedgerRow) string {
	var body [][]string
	for _, row := range rows {
		if !row.NeedsVerification() {
			continue
		}
		body = append(body, []string{row.EmployeeID, row.Name, row.DateText, row.Observation})
	}
	if len(body) == 0 {
		return FormatSuccess("No rows need verification")
	}
	return RenderTable([]string{"Matricule", "Name", "Date", "Observations"}, body)
}

// RenderTotals shows each employee's final shortfall and overtime.
func RenderTotals(totals []aggregate.RunningTotal) string {
	body := make([][]string, 0, len(totals))
	for _, t := range totals {
		body = append(body, []string{
			t.EmployeeID,
			fmt.Sprint(t.Days),
			timeofday.FormatDuration(t.Shortfall),
			timeofday.FormatDuration(t.Overtime),
		})
	}
	return FormatTitle("Totals per employee") + "\n" +
		RenderTable([]string{"Matricule", "Days", "Shortfall", "Overtime"}, body)
}

// RenderRuns lists archived runs, newest first.
func RenderRuns(runs []model.Run) string {
	if len(runs) == 0 {
		return FormatInfo("No archived runs")
	}

	body := make([][]string, 0, len(runs))
	for _, run := range runs {
		body = append(body, []string{
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Range.Start + " - " + run.Range.End,
			fmt.Sprint(run.RowCount),
			fmt.Sprint(run.VerifyCount),
			fmt.Sprint(run.SkippedCount),
			strings.Join(run.Sources, ", "),
		})
	}
	return RenderTable([]string{"Run", "Created", "Period", "Rows", "Verify", "Dropped", "Sources"}, body)
}

// RenderLedger shows the main ledger columns of archived rows.
func RenderLedger(rows []model.LedgerRow) string {
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, []string{
			row.EmployeeID, row.DateText, row.Entry, row.Exit,
			row.WorkDuration, row.Shortfall, row.Overtime,
			row.CumulativeShortfall, row.CumulativeOvertime, row.Observation,
		})
	}
	return RenderTable([]string{
		"Matricule", "Date", "Entry", "Exit", "Worked", "Shortfall", "Overtime",
		"Cumul Shortfall", "Cumul Overtime", "Observations",
	}, body)
}

// RenderTable aligns rows under a header using lipgloss widths.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = TableCellStyle.Width(widths[i] + TableCellStyle.GetPaddingRight()).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, render(headers, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, render(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
