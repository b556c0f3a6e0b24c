package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/pointage/internal/model"
)

// InputHeader is the header row of the canonical input table.
var InputHeader = []string{"Matricule", "Nom", "Départment", "Date", "Pointages"}

// PunchTable builds input tables row by row.
type PunchTable struct {
	t    *testing.T
	rows [][]string
}

// NewPunchTable starts an empty table.
func NewPunchTable(t *testing.T) *PunchTable {
	t.Helper()
	return &PunchTable{t: t}
}

// Day adds one employee day; punches are joined with spaces.
func (p *PunchTable) Day(id, name, dept, date string, punches ...string) *PunchTable {
	p.rows = append(p.rows, []string{id, name, dept, date, strings.Join(punches, " ")})
	return p
}

// Records returns the table as parsed punch records.
func (p *PunchTable) Records() []model.PunchRecord {
	records := make([]model.PunchRecord, len(p.rows))
	for i, row := range p.rows {
		records[i] = model.PunchRecord{
			EmployeeID: row[0],
			Name:       row[1],
			Department: row[2],
			Date:       row[3],
			Punches:    model.SplitPunches(row[4]),
			Row:        i,
		}
	}
	return records
}

// CSV renders the table as ;-delimited text with a header row.
func (p *PunchTable) CSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(InputHeader, ";"))
	b.WriteByte('\n')
	for _, row := range p.rows {
		b.WriteString(strings.Join(row, ";"))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCSV writes the table into a temporary directory and returns its path.
func (p *PunchTable) WriteCSV(name string) string {
	p.t.Helper()

	path := filepath.Join(p.t.TempDir(), name)
	if err := os.WriteFile(path, []byte(p.CSV()), 0o600); err != nil {
		p.t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
