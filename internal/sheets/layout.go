package sheets

import (
	"fmt"

	"github.com/Veraticus/pointage/internal/model"
	"google.golang.org/api/sheets/v4"
)

var (
	headerFill = &sheets.Color{Red: 0x92 / 255.0, Green: 0xD0 / 255.0, Blue: 0x50 / 255.0}
	verifyFill = &sheets.Color{Red: 1, Green: 0xEB / 255.0, Blue: 0x9C / 255.0}
	alertText  = &sheets.Color{Red: 1}
)

// prepareValues lays out the title, a blank row, the header and one row per
// ledger entry.
func prepareValues(report *model.Report) [][]any {
	values := make([][]any, 0, firstDataRowIdx+len(report.Rows))

	values = append(values,
		[]any{fmt.Sprintf("From %s to %s", report.Range.Start, report.Range.End)},
		[]any{},
		toRow(model.LedgerColumns),
	)
	for _, row := range report.Rows {
		values = append(values, toRow(row.Values()))
	}

	return values
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// formatRequests builds the batch update that styles the ledger sheet.
func formatRequests(sheetID int64, report *model.Report) []*sheets.Request {
	columns := int64(len(model.LedgerColumns))

	requests := []*sheets.Request{
		{
			UnmergeCells: &sheets.UnmergeCellsRequest{
				Range: &sheets.GridRange{SheetId: sheetID},
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range:  &sheets.GridRange{SheetId: sheetID, StartRowIndex: firstDataRowIdx},
				Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{}},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
		{
			MergeCells: &sheets.MergeCellsRequest{
				Range:     rowRange(sheetID, titleRowIndex, 0, columns),
				MergeType: "MERGE_ALL",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: rowRange(sheetID, titleRowIndex, 0, columns),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						HorizontalAlignment: "CENTER",
						TextFormat:          &sheets.TextFormat{Bold: true, FontSize: 14},
					},
				},
				Fields: "userEnteredFormat(horizontalAlignment,textFormat)",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: rowRange(sheetID, headerRowIndex, 0, columns),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor:     headerFill,
						HorizontalAlignment: "CENTER",
						TextFormat:          &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,horizontalAlignment,textFormat)",
			},
		},
	}

	for i, row := range report.Rows {
		rowIndex := int64(firstDataRowIdx + i)

		if row.NeedsVerification() {
			requests = append(requests, fillRequest(rowRange(sheetID, rowIndex, 0, columns)))
		}
		if row.BelowStandard() {
			requests = append(requests, alertRequest(rowRange(sheetID, rowIndex, model.ColumnWorked, model.ColumnWorked+1)))
		}
		if row.Shortfall != "" {
			requests = append(requests, alertRequest(rowRange(sheetID, rowIndex, model.ColumnShortfall, model.ColumnShortfall+1)))
		}
	}

	requests = append(requests,
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columns,
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: firstDataRowIdx},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)

	return requests
}

func rowRange(sheetID, row, fromCol, toCol int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    row,
		EndRowIndex:      row + 1,
		StartColumnIndex: fromCol,
		EndColumnIndex:   toCol,
	}
}

func fillRequest(r *sheets.GridRange) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  r,
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{BackgroundColor: verifyFill}},
			Fields: "userEnteredFormat.backgroundColor",
		},
	}
}

func alertRequest(r *sheets.GridRange) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  r,
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: &sheets.TextFormat{ForegroundColor: alertText}}},
			Fields: "userEnteredFormat.textFormat.foregroundColor",
		},
	}
}
