// Package cli renders pointage's terminal output: the run summary, ledger
// tables, the progress bar and interrupt handling.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// The palette follows the report workbook: green headers, amber for rows
// to verify, red for shortfalls.
var (
	accentColor  = lipgloss.Color("#5FA33A")
	okColor      = lipgloss.Color("#92D050")
	verifyColor  = lipgloss.Color("#E6B422")
	alertColor   = lipgloss.Color("#E04040")
	infoColor    = lipgloss.Color("#7FB3D5")
	borderColor  = lipgloss.Color("#444")
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(okColor)
	warningStyle = lipgloss.NewStyle().Foreground(verifyColor)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(alertColor)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)

	// TableHeaderStyle underlines table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(borderColor)

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ClockIcon   = "⏱️"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle prefixes a section title with the clock icon.
func FormatTitle(title string) string {
	return titleStyle.Render(ClockIcon + " " + title)
}

// RenderBox draws content under a title inside a rounded border.
func RenderBox(title, content string) string {
	heading := titleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
