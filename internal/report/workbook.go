// Package report renders an attendance ledger as a styled Excel workbook.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/pointage/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names and layout of the workbook.
const (
	LedgerSheet = "Etat de pointage"
	InputSheet  = "Original Data"

	titleRow     = 1
	headerRow    = 3
	firstDataRow = 4

	ledgerWidth      = 15
	observationWidth = 40
	inputWidth       = 20
)

// Workbook writes reports to an .xlsx file on disk.
type Workbook struct {
	logger *slog.Logger
	path   string
}

// NewWorkbook creates a writer targeting path.
func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{path: path, logger: logger}
}

// Path returns the destination file.
func (w *Workbook) Path() string {
	return w.path
}

// Write renders the report and saves it, replacing any existing file.
func (w *Workbook) Write(ctx context.Context, report *model.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := Build(report)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			w.logger.Warn("failed to close workbook", "error", cerr)
		}
	}()

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}

	w.logger.Info("Report written",
		"path", w.path,
		"rows", len(report.Rows),
		"to_verify", report.VerifyCount())
	return nil
}

// WriteTo renders the report to an arbitrary writer.
func WriteTo(out io.Writer, report *model.Report) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Build lays out both sheets in a new in-memory workbook. The caller owns the
// returned file and must close it.
func Build(report *model.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	st, err := registerStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to register styles: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), LedgerSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeLedger(f, st, report); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", LedgerSheet, err)
	}

	if _, err := f.NewSheet(InputSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeInput(f, st, report.Input); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", InputSheet, err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeLedger(f *excelize.File, st *styles, report *model.Report) error {
	columns := len(model.LedgerColumns)
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("From %s to %s", report.Range.Start, report.Range.End)
	if err := writeTitle(f, LedgerSheet, last, title, st.title); err != nil {
		return err
	}
	if err := writeHeader(f, LedgerSheet, model.LedgerColumns, st.header); err != nil {
		return err
	}

	for i, row := range report.Rows {
		rowNum := firstDataRow + i
		if err := writeRow(f, LedgerSheet, rowNum, row.Values()); err != nil {
			return err
		}

		base, alert := st.cell, st.alert
		if row.NeedsVerification() {
			base, alert = st.verify, st.verifyAlert
		}
		if err := styleRange(f, LedgerSheet, rowNum, 1, columns, base); err != nil {
			return err
		}
		if row.BelowStandard() {
			if err := styleRange(f, LedgerSheet, rowNum, model.ColumnWorked+1, model.ColumnWorked+1, alert); err != nil {
				return err
			}
		}
		if row.Shortfall != "" {
			if err := styleRange(f, LedgerSheet, rowNum, model.ColumnShortfall+1, model.ColumnShortfall+1, alert); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(LedgerSheet, "A", last, ledgerWidth); err != nil {
		return err
	}
	obs, err := excelize.ColumnNumberToName(model.ColumnObservation + 1)
	if err != nil {
		return err
	}
	return f.SetColWidth(LedgerSheet, obs, obs, observationWidth)
}

func writeInput(f *excelize.File, st *styles, input model.RawTable) error {
	columns := max(len(input.Header), 1)
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}

	if err := writeTitle(f, InputSheet, last, "Original Input Data", st.title); err != nil {
		return err
	}
	if len(input.Header) > 0 {
		if err := writeHeader(f, InputSheet, input.Header, st.inputHeader); err != nil {
			return err
		}
	}
	for i, row := range input.Rows {
		rowNum := firstDataRow + i
		if err := writeRow(f, InputSheet, rowNum, row); err != nil {
			return err
		}
		if len(row) > 0 {
			if err := styleRange(f, InputSheet, rowNum, 1, len(row), st.cell); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(InputSheet, "A", last, inputWidth)
}

func writeTitle(f *excelize.File, sheet, lastColumn, title string, style int) error {
	first := fmt.Sprintf("A%d", titleRow)
	end := fmt.Sprintf("%s%d", lastColumn, titleRow)
	if end != first {
		if err := f.MergeCell(sheet, first, end); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(sheet, first, title); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, end, style)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	if err := writeRow(f, sheet, headerRow, header); err != nil {
		return err
	}
	return styleRange(f, sheet, headerRow, 1, len(header), style)
}

// writeRow stores every cell as text so HH:MM values are not reinterpreted.
func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, start, &cells)
}

func styleRange(f *excelize.File, sheet string, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
