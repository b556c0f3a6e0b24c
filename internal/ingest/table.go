// Package ingest reads the punch table exported by the time clock into punch
// records. CSV, xlsx and xls inputs are supported.
package ingest

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
)

// Standard column names of the punch table.
const (
	ColumnEmployeeID = "Matricule"
	ColumnName       = "Nom"
	ColumnDepartment = "Départment"
	ColumnDate       = "Date"
	ColumnPunches    = "Pointages"
)

const bom = "\ufeff"

// requiredColumns is the positional order used when the table has no header.
var requiredColumns = []string{ColumnEmployeeID, ColumnName, ColumnDepartment, ColumnDate, ColumnPunches}

// columnAliases maps normalized header text to a standard column.
var columnAliases = map[string]string{
	"matricule":   ColumnEmployeeID,
	"id":          ColumnEmployeeID,
	"employee id": ColumnEmployeeID,
	"nom":         ColumnName,
	"name":        ColumnName,
	"prénom/nom":  ColumnName,
	"départment":  ColumnDepartment,
	"département": ColumnDepartment,
	"departement": ColumnDepartment,
	"department":  ColumnDepartment,
	"dept":        ColumnDepartment,
	"date":        ColumnDate,
	"pointages":   ColumnPunches,
	"punches":     ColumnPunches,
}

// Table is an ingested input: the raw cells and the records built from them.
type Table struct {
	Raw     model.RawTable
	Records []model.PunchRecord
}

// cellFunc rewrites a cell of the date column before it is stored.
type cellFunc func(string) string

// FromRows builds a table from raw rows. A first row naming the employee id
// column is treated as a header; otherwise the first five columns are taken
// in standard order.
func FromRows(rows [][]string) (*Table, error) {
	return fromRows(rows, nil)
}

func fromRows(rows [][]string, dateCell cellFunc) (*Table, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, common.ErrEmptyInput
	}

	var header []string
	var data [][]string
	if isHeader(rows[0]) {
		header = trimCells(rows[0])
		data = rows[1:]
	} else {
		width := maxWidth(rows)
		if width < len(requiredColumns) {
			return nil, fmt.Errorf("%w: expected at least %d columns, found %d",
				common.ErrMissingColumn, len(requiredColumns), width)
		}
		header = append([]string{}, requiredColumns...)
		for i := len(requiredColumns); i < width; i++ {
			header = append(header, fmt.Sprintf("Extra%d", i-len(requiredColumns)))
		}
		data = rows
	}

	index, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Raw:     model.RawTable{Header: header, Rows: make([][]string, 0, len(data))},
		Records: make([]model.PunchRecord, 0, len(data)),
	}
	for i, row := range data {
		row = trimCells(row)
		if dateCell != nil && index[ColumnDate] < len(row) {
			row[index[ColumnDate]] = dateCell(row[index[ColumnDate]])
		}
		table.Raw.Rows = append(table.Raw.Rows, row)
		table.Records = append(table.Records, model.PunchRecord{
			Row:        i,
			EmployeeID: cell(row, index[ColumnEmployeeID]),
			Name:       cell(row, index[ColumnName]),
			Department: cell(row, index[ColumnDepartment]),
			Date:       cell(row, index[ColumnDate]),
			Punches:    model.SplitPunches(cell(row, index[ColumnPunches])),
		})
	}

	return table, nil
}

// Merge concatenates tables in order and renumbers record rows.
func Merge(tables ...*Table) *Table {
	merged := &Table{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		offset := merged.Raw.Len()
		merged.Raw.Append(t.Raw)
		for _, rec := range t.Records {
			rec.Row += offset
			merged.Records = append(merged.Records, rec)
		}
	}
	return merged
}

func isHeader(row []string) bool {
	for _, c := range row {
		if columnAliases[normalizeHeader(c)] == ColumnEmployeeID {
			return true
		}
	}
	return false
}

func locateColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		if col, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, seen := index[col]; !seen {
				index[col] = i
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, bom)))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(strings.TrimPrefix(c, bom))
	}
	return out
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func maxWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return width
}
