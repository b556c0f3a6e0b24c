package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Delimiter separates CSV fields in time clock exports.
const Delimiter = ';'

// maxXLSRows bounds how many rows are read from a legacy workbook.
const maxXLSRows = 100000

// Options controls how input files are decoded.
type Options struct {
	// Encoding of CSV input: utf-8 (default), windows-1252 or iso-8859-1.
	Encoding string
	// Concurrency bounds ReadFiles; zero means one reader per file.
	Concurrency int
}

// ReadFiles reads every path concurrently and merges the tables in argument
// order.
func ReadFiles(ctx context.Context, paths []string, opts Options) (*Table, error) {
	tables := make([]*Table, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := ReadFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(tables...), nil
}

// ReadFile reads one input file, choosing the reader from its extension.
func ReadFile(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", "":
		return ReadCSV(bytes.NewReader(data), opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data))
	case ".xls":
		return ReadXLS(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, ext)
	}
}

// ReadCSV reads a semicolon-delimited punch table.
func ReadCSV(r io.Reader, opts Options) (*Table, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		r = dec.Reader(r)
	}

	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return FromRows(rows)
}

// ReadXLSX reads the first worksheet of an xlsx workbook. Date cells stored
// as Excel serial numbers are converted to DD/MM/YYYY.
func ReadXLSX(r io.Reader) (*Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: no worksheet found", common.ErrEmptyInput)
	}

	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	return fromRows(rows, excelDate)
}

// ReadXLS reads the first worksheet of a legacy xls workbook.
func ReadXLS(r io.ReadSeeker) (*Table, error) {
	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: no worksheet found", common.ErrEmptyInput)
	}
	return fromRows(workbook.ReadAllCells(maxXLSRows), excelDate)
}

// excelDate converts an Excel serial date to DD/MM/YYYY and leaves any other
// value alone.
func excelDate(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 20000 || serial > 80000 {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(model.DateLayout)
}

func decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: encoding %q", common.ErrInvalidConfig, name)
	}
}
