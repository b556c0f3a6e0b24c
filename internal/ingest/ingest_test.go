package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/pointage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const headerCSV = `Matricule;Nom;Départment;Date;Pointages
1001;Amal Idrissi;Logistique;03/03/2025;09:00 13:00 14:00 18:00
1001;Amal Idrissi;Logistique;04/03/2025;
1002;Karim Benali;Atelier;03/03/2025;nan
`

func TestReadCSV_WithHeader(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(headerCSV), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Matricule", "Nom", "Départment", "Date", "Pointages"}, table.Raw.Header)
	require.Len(t, table.Records, 3)
	require.Equal(t, 3, table.Raw.Len())

	first := table.Records[0]
	assert.Equal(t, "1001", first.EmployeeID)
	assert.Equal(t, "Amal Idrissi", first.Name)
	assert.Equal(t, "Logistique", first.Department)
	assert.Equal(t, "03/03/2025", first.Date)
	assert.Equal(t, []string{"09:00", "13:00", "14:00", "18:00"}, first.Punches)
	assert.Equal(t, 0, first.Row)

	assert.Empty(t, table.Records[1].Punches)
	assert.Empty(t, table.Records[2].Punches)
	assert.Equal(t, 2, table.Records[2].Row)
}

func TestReadCSV_HeaderOrderAndAliases(t *testing.T) {
	input := "\ufeffDate;Pointages;Department;Name;Matricule\n05/03/2025;08:00 17:00;RH;Sara;77\n"

	table, err := ReadCSV(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, table.Records, 1)

	rec := table.Records[0]
	assert.Equal(t, "77", rec.EmployeeID)
	assert.Equal(t, "Sara", rec.Name)
	assert.Equal(t, "RH", rec.Department)
	assert.Equal(t, "05/03/2025", rec.Date)
	assert.Equal(t, []string{"08:00", "17:00"}, rec.Punches)
	assert.Equal(t, "Date", table.Raw.Header[0])
}

func TestReadCSV_WithoutHeader(t *testing.T) {
	input := "1001;Amal;Logistique;03/03/2025;09:00 18:00;badge-7\n1002;Karim;Atelier;03/03/2025;\n"

	table, err := ReadCSV(strings.NewReader(input), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Matricule", "Nom", "Départment", "Date", "Pointages", "Extra0"}, table.Raw.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "1001", table.Records[0].EmployeeID)
	assert.Equal(t, []string{"09:00", "18:00"}, table.Records[0].Punches)
	assert.Equal(t, "Atelier", table.Records[1].Department)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		wantErr error
	}{
		{name: "empty", input: "", wantErr: common.ErrEmptyInput},
		{name: "blank lines only", input: ";;\n;;\n", wantErr: common.ErrEmptyInput},
		{name: "too few columns", input: "1001;Amal;03/03/2025\n", wantErr: common.ErrMissingColumn},
		{name: "header missing punches", input: "Matricule;Nom;Départment;Date\n1;a;b;c\n", wantErr: common.ErrMissingColumn},
		{name: "unknown encoding", input: headerCSV, opts: Options{Encoding: "ebcdic"}, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadCSV_Windows1252(t *testing.T) {
	// "Départment" and "Séverine" with é encoded as 0xE9.
	input := "Matricule;Nom;D\xe9partment;Date;Pointages\n9;S\xe9verine;Achats;03/03/2025;09:00 18:00\n"

	table, err := ReadCSV(strings.NewReader(input), Options{Encoding: "windows-1252"})
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Séverine", table.Records[0].Name)
	assert.Equal(t, "Achats", table.Records[0].Department)
}

func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "pointage.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadFile_XLSX(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"Matricule", "Nom", "Départment", "Date", "Pointages"},
		{"1001", "Amal", "Logistique", "03/03/2025", "09:00 13:00 14:00 18:00"},
		{"1002", "Karim", "Atelier", 45721, "08:55 18:05"},
	})

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	assert.Equal(t, "03/03/2025", table.Records[0].Date)
	assert.Equal(t, []string{"09:00", "13:00", "14:00", "18:00"}, table.Records[0].Punches)
	// Serial 45721 is 2025-03-05.
	assert.Equal(t, "05/03/2025", table.Records[1].Date)
	assert.Equal(t, "05/03/2025", table.Raw.Rows[1][3])
	assert.Equal(t, []string{"08:55", "18:05"}, table.Records[1].Punches)
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	_, err := ReadFile(path, Options{})
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "march.csv")
	second := filepath.Join(dir, "april.csv")
	require.NoError(t, os.WriteFile(first, []byte(headerCSV), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("Matricule;Nom;Départment;Date;Pointages\n1003;Nadia;RH;01/04/2025;09:00 18:00\n"), 0o600))

	table, err := ReadFiles(context.Background(), []string{first, second}, Options{Concurrency: 2})
	require.NoError(t, err)

	require.Len(t, table.Records, 4)
	assert.Equal(t, 4, table.Raw.Len())
	assert.Equal(t, "1003", table.Records[3].EmployeeID)
	assert.Equal(t, 3, table.Records[3].Row)
	assert.Equal(t, "Matricule", table.Raw.Header[0])
}

func TestReadFiles_Error(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte(headerCSV), 0o600))

	_, err := ReadFiles(context.Background(), []string{good, filepath.Join(dir, "missing.csv")}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestMerge_SkipsNil(t *testing.T) {
	table, err := FromRows([][]string{{"1", "a", "b", "03/03/2025", "09:00 18:00"}})
	require.NoError(t, err)

	merged := Merge(nil, table, table)
	require.Len(t, merged.Records, 2)
	assert.Equal(t, 0, merged.Records[0].Row)
	assert.Equal(t, 1, merged.Records[1].Row)
}

func TestExcelDate(t *testing.T) {
	assert.Equal(t, "05/03/2025", excelDate("45721"))
	assert.Equal(t, "03/03/2025", excelDate("03/03/2025"))
	assert.Equal(t, "2025", excelDate("2025"))
}
