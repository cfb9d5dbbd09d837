package categorizer

import (
	"bytes"
	"testing"

	"hometab/expense-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadIndex(t *testing.T) {
	buf := workbook(t, DefaultIndexSheet, [][]interface{}{
		{"#", "", "", "בית עסק", "קטגוריה"},
		{1, "", "", "Cafe X", "קפה"},
		{2, "", "", "  Grocer  ", " מזון "},
		{3, "", "", "nan", "קפה"},
		{4, "", "", "Pharmacy", "nan"},
		{5, "", "", "Cafe X", "Coffee"},
		{6, "", "", "Short row"},
	})

	mapping, err := ReadIndex(buf, "")

	require.NoError(t, err)
	assert.Equal(t, models.Mapping{"Cafe X": "Coffee", "Grocer": "מזון"}, mapping)
}

func TestReadIndex_Errors(t *testing.T) {
	t.Run("missing sheet", func(t *testing.T) {
		buf := workbook(t, "Other", [][]interface{}{{"a", "b", "c", "d", "e"}})
		_, err := ReadIndex(buf, "")
		assert.ErrorContains(t, err, "error reading sheet")
	})

	t.Run("too few columns", func(t *testing.T) {
		buf := workbook(t, DefaultIndexSheet, [][]interface{}{{"a", "b", "c"}})
		_, err := ReadIndex(buf, DefaultIndexSheet)
		assert.ErrorContains(t, err, "not enough columns")
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := ReadIndex(bytes.NewBufferString("plain text"), "")
		assert.Error(t, err)
	})
}
