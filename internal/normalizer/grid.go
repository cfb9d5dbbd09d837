package normalizer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"hometab/expense-tracker/internal/parsererror"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Grid is a rectangular-ish view of an uploaded file. Rows may have
// different lengths; cells past the end of a row read as empty.
type Grid [][]string

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// SupportedExtensions lists the file types LoadGrid understands.
var SupportedExtensions = []string{".csv", ".xlsx", ".xlsm", ".xls"}

// IsSupported reports whether name has an extension LoadGrid can read.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadGrid reads the first sheet of an uploaded file as strings. The file
// type is taken from the extension of name.
func LoadGrid(name string, r io.Reader) (Grid, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return loadCSV(name, r)
	case ".xlsx", ".xlsm":
		return loadXLSX(name, r)
	case ".xls":
		return loadXLS(name, r)
	default:
		return nil, &parsererror.UnsupportedFormatError{FilePath: name, Extension: ext}
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func loadCSV(name string, r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "comma separated values",
			Msg:            "cannot read rows",
			Err:            err,
		}
	}
	return Grid(rows), nil
}

func loadXLSX(name string, r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "xlsx workbook",
			Msg:            "cannot open workbook",
			Err:            err,
		}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Grid{}, nil
	}

	// Raw values keep dates as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "xlsx workbook",
			Msg:            "cannot read first sheet",
			Err:            err,
		}
	}
	return Grid(rows), nil
}

func loadXLS(name string, r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "xls workbook",
			Msg:            "cannot open workbook",
			Err:            err,
		}
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return Grid{}, nil
	}

	grid := make(Grid, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
