package normalizer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestNormalizer() *Normalizer {
	return New(DefaultVocabulary(), logging.NewMockLogger())
}

func TestNormalize_ConcreteScenario(t *testing.T) {
	grid := Grid{
		{"תאריך רכישה", "שם בית עסק", "סכום עסקה"},
		{"01/03/2024", "Cafe X", "45.50"},
		{"TOTAL FOR DATE", "", "1200"},
	}

	records := newTestNormalizer().Normalize(grid)

	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-01", records[0].Date)
	assert.Equal(t, "Cafe X", records[0].Business)
	assert.True(t, decimal.RequireFromString("45.50").Equal(records[0].Amount))
	assert.Equal(t, "03/2024", records[0].Month)
	assert.Empty(t, records[0].Category)
	assert.Empty(t, records[0].Notes)
}

func TestNormalize_SectionsAreIndependent(t *testing.T) {
	grid := Grid{
		{"Card statement", "", ""},
		{"תאריך רכישה", "שם בית עסק", "סכום חיוב"},
		{"01/03/2024", "Cafe X", "45.50"},
		{"02/03/2024", "Grocer", "120"},
		{"", "", ""},
		{"סכום", "עסק", "תאריך עסקה", "extra"},
		{"30", "Parking", "05/03/2024", "ignored"},
	}

	records := newTestNormalizer().Normalize(grid)

	require.Len(t, records, 3)
	assert.Equal(t, "Cafe X", records[0].Business)
	assert.Equal(t, "Grocer", records[1].Business)
	assert.Equal(t, "Parking", records[2].Business)
	assert.Equal(t, "2024-03-05", records[2].Date)
	assert.True(t, decimal.NewFromInt(30).Equal(records[2].Amount))
}

func TestNormalize_SkipRules(t *testing.T) {
	grid := Grid{
		{"תאריך", "שם העסק", "סכום"},
		{"01/03/2024", "", "10"},                  // missing business
		{"", "Shop", "10"},                        // missing date
		{"nan", "Shop", "10"},                     // placeholder date
		{"01/03/2024", "NaN", "10"},               // placeholder business
		{"01/03/2024", "Shop", "0"},               // zero amount
		{"01/03/2024", "Shop", "abc"},             // unparseable amount
		{"01/03/2024", "Shop"},                    // amount cell missing
		{"01/03/2024", `סה"כ לחיוב`, "300"},       // summary marker
		{"01/03/2024", "Monthly Total", "300"},    // case-insensitive marker
		{"01/03/2024", "  Kept  ", " ₪1,234.50 "}, // noisy amount
	}

	records := newTestNormalizer().Normalize(grid)

	require.Len(t, records, 1)
	assert.Equal(t, "Kept", records[0].Business)
	assert.Equal(t, "1234.5", records[0].AmountText())
}

func TestNormalize_NoHeaders(t *testing.T) {
	grid := Grid{
		{"date", "merchant", "amount"},
		{"01/03/2024", "Cafe X", "45.50"},
	}
	assert.Empty(t, newTestNormalizer().Normalize(grid))
	assert.Empty(t, newTestNormalizer().Normalize(nil))
}

func TestNormalize_HeaderNeedsDateAndAnotherRole(t *testing.T) {
	n := newTestNormalizer()

	assert.Empty(t, n.DetectSections(Grid{{"תאריך", "something"}}))
	assert.Empty(t, n.DetectSections(Grid{{"שם בית עסק", "סכום"}}))
	assert.Len(t, n.DetectSections(Grid{{"תאריך", "סכום"}}), 1)
}

func TestNormalize_LabelsMatchExactly(t *testing.T) {
	n := newTestNormalizer()
	assert.Empty(t, n.DetectSections(Grid{{"תאריך רכישה מקורי", "שם בית עסק"}}))
	assert.Len(t, n.DetectSections(Grid{{"  תאריך רכישה ", "שם בית עסק"}}), 1)
}

func TestDetectSections_LastMatchingColumnWins(t *testing.T) {
	n := newTestNormalizer()
	sections := n.DetectSections(Grid{
		{"תאריך", "סכום", "שם בית עסק", "סכום חיוב"},
		{"01/03/2024", "999", "Cafe X", "12"},
	})

	require.Len(t, sections, 1)
	assert.Equal(t, Section{HeaderRow: 0, DateCol: 0, BusinessCol: 2, AmountCol: 3, EndRow: 2}, sections[0])

	records := n.Normalize(Grid{
		{"תאריך", "סכום", "שם בית עסק", "סכום חיוב"},
		{"01/03/2024", "999", "Cafe X", "12"},
	})
	require.Len(t, records, 1)
	assert.Equal(t, "12", records[0].AmountText())
}

func TestNormalize_SectionWithoutAmountEmitsNothing(t *testing.T) {
	grid := Grid{
		{"תאריך", "שם בית עסק"},
		{"01/03/2024", "Cafe X"},
	}
	assert.Empty(t, newTestNormalizer().Normalize(grid))
}

func TestNormalize_UnparseableDateIsKept(t *testing.T) {
	grid := Grid{
		{"תאריך", "עסק", "סכום"},
		{"sometime in spring", "Cafe X", "-20"},
	}

	records := newTestNormalizer().Normalize(grid)

	require.Len(t, records, 1)
	assert.Empty(t, records[0].Date)
	assert.Empty(t, records[0].Month)
	assert.Equal(t, "-20", records[0].AmountText())
}

func TestNormalize_DuplicatesWithinBatchAreKept(t *testing.T) {
	grid := Grid{
		{"תאריך", "עסק", "סכום"},
		{"01/03/2024", "Cafe X", "10"},
		{"01/03/2024", "Cafe X", "10"},
	}
	assert.Len(t, newTestNormalizer().Normalize(grid), 2)
}

func TestNormalizeFile_CSVWithBOM(t *testing.T) {
	content := "\ufeffתאריך רכישה,שם בית עסק,סכום עסקה\n01/03/2024,Cafe X,45.50\n\"02/03/2024\",\"Shop, Ltd\",\"1,000\"\nshort\n"

	records, err := newTestNormalizer().NormalizeFile("march.CSV", strings.NewReader(content))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Shop, Ltd", records[1].Business)
	assert.Equal(t, "1000", records[1].AmountText())
}

func TestNormalizeFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"פירוט עסקאות"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"תאריך רכישה", "שם בית עסק", "סכום חיוב"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{45352, "Cafe X", 45.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A5", &[]interface{}{"02/03/2024", "Grocer", "12.30"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := newTestNormalizer().NormalizeFile("card.xlsx", bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-01", records[0].Date)
	assert.Equal(t, "45.5", records[0].AmountText())
	assert.Equal(t, "2024-03-02", records[1].Date)
}

func TestLoadGrid_XLS(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "table.xls"))
	require.NoError(t, err)
	defer f.Close()

	grid, err := LoadGrid("table.xls", f)

	require.NoError(t, err)
	require.Len(t, grid, 12)
	filled := 0
	for _, row := range grid {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
	}
	assert.Positive(t, filled)
	assert.Empty(t, newTestNormalizer().Normalize(grid), "workbook has no expense headers")
}

func TestNormalizeFile_Errors(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.NormalizeFile("statement.pdf", strings.NewReader("%PDF"))
	var unsupported *parsererror.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".pdf", unsupported.Extension)

	_, err = n.NormalizeFile("broken.xlsx", strings.NewReader("not a zip"))
	var invalid *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &invalid)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.csv"))
	assert.True(t, IsSupported("b.XLSX"))
	assert.True(t, IsSupported("c.xls"))
	assert.False(t, IsSupported("d.txt"))
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("date: [\"Date\"]\nbusiness: [\"Merchant\"]\n"), 0o600))

	vocab, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date"}, vocab.Date)
	assert.Equal(t, []string{"Merchant"}, vocab.Business)
	assert.Equal(t, DefaultVocabulary().Amount, vocab.Amount)

	records := New(vocab, nil).Normalize(Grid{
		{"Date", "Merchant", "סכום"},
		{"2024-03-01", "Cafe X", "5"},
	})
	require.Len(t, records, 1)

	_, err = LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
