package categorizer

import (
	"fmt"
	"io"
	"strings"

	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// DefaultIndexSheet is the workbook tab holding the business index.
const DefaultIndexSheet = "אינדקס"

// Index sheet layout: business names in column D, categories in column E,
// below a single header row.
const (
	indexBusinessCol = 3
	indexCategoryCol = 4
)

// ReadIndex reads business to category rules from the index sheet of an
// Excel workbook. Rows with a blank or "nan" business or category are
// skipped; a later row for the same business wins.
func ReadIndex(r io.Reader, sheet string) (models.Mapping, error) {
	if sheet == "" {
		sheet = DefaultIndexSheet
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "xlsx", Msg: "cannot open workbook", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) <= indexCategoryCol {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "index sheet",
			Msg:            fmt.Sprintf("not enough columns in %q, expected business in D and category in E", sheet),
		}
	}

	mapping := models.Mapping{}
	for _, row := range rows[1:] {
		if len(row) <= indexCategoryCol {
			continue
		}
		business := strings.TrimSpace(row[indexBusinessCol])
		category := strings.TrimSpace(row[indexCategoryCol])
		if business == "" || strings.EqualFold(business, "nan") || models.IsEmptyCategory(category) {
			continue
		}
		mapping[business] = category
	}
	return mapping, nil
}
