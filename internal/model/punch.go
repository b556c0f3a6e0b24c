package model

import (
	"strings"
	"time"
)

// PunchRecord is one employee on one calendar day as read from the input
// table. Punches keep their original order and text.
type PunchRecord struct {
	EmployeeID string
	Name       string
	Department string
	Date       string // DD/MM/YYYY, unparsed
	Punches    []string
	Row        int // zero-based position in the input table
}

// SplitPunches splits a space-separated punch cell into tokens.
func SplitPunches(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return nil
	}
	return strings.Fields(cell)
}

// RawTable is the input table exactly as ingested, kept for the report's
// original-data sheet.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// Append adds the rows of other. Rows of a table with a different header are
// appended as they are.
func (t *RawTable) Append(other RawTable) {
	if len(t.Header) == 0 {
		t.Header = other.Header
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// DateLayout is the DD/MM/YYYY layout used for input and report dates.
const DateLayout = "02/01/2006"

// ParseDate parses a DD/MM/YYYY date. Day and month may be a single digit.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2/1/2006", strings.TrimSpace(s))
}
