package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hometab/expense-tracker/internal/fileutils"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/parsererror"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Column headers of the expenses file. They match the household's existing
// spreadsheets so the file can be opened and edited by hand.
const (
	ColumnMonth    = "חודש"
	ColumnDate     = "תאריך רכישה"
	ColumnBusiness = "שם בית עסק"
	ColumnAmount   = "סכום עסקה"
	ColumnCategory = "קטגוריה"
	ColumnNotes    = "הערות"
)

// Columns is the persisted column order.
var Columns = []string{ColumnMonth, ColumnDate, ColumnBusiness, ColumnAmount, ColumnCategory, ColumnNotes}

type expenseRow struct {
	Month    string `csv:"חודש"`
	Date     string `csv:"תאריך רכישה"`
	Business string `csv:"שם בית עסק"`
	Amount   string `csv:"סכום עסקה"`
	Category string `csv:"קטגוריה"`
	Notes    string `csv:"הערות"`
}

type categoriesDoc struct {
	Categories []string `yaml:"categories"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileStore keeps expenses in a UTF-8 CSV file (with BOM, so spreadsheet
// programs detect the encoding) and the categories and mapping in YAML
// files. Legacy JSON files are read as well, since JSON is valid YAML.
type FileStore struct {
	ExpensesFile   string
	CategoriesFile string
	MappingFile    string
	logger         logging.Logger
}

// NewFileStore creates a FileStore over the given paths.
func NewFileStore(expensesFile, categoriesFile, mappingFile string, logger logging.Logger) *FileStore {
	return &FileStore{
		ExpensesFile:   expensesFile,
		CategoriesFile: categoriesFile,
		MappingFile:    mappingFile,
		logger:         logging.OrDefault(logger),
	}
}

func (s *FileStore) BackendName() string { return "file" }

// LoadTransactions reads the expenses file. A missing file is an empty history.
func (s *FileStore) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	data, err := readOptional(s.ExpensesFile)
	if err != nil {
		return nil, fmt.Errorf("error reading expenses file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Transaction{}, nil
	}

	var rows []expenseRow
	if err := gocsv.UnmarshalCSV(newExpensesReader(s.ExpensesFile, data), &rows); err != nil {
		return nil, fmt.Errorf("error parsing expenses file: %w", err)
	}

	records := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		records = append(records, s.fromRow(i, row))
	}

	s.logger.Debug("Loaded transactions",
		logging.F(logging.FieldFile, s.ExpensesFile),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}

func (s *FileStore) fromRow(i int, row expenseRow) models.Transaction {
	tx := models.Transaction{
		Date:     row.Date,
		Business: row.Business,
		Category: row.Category,
		Notes:    row.Notes,
	}
	amount, ok := models.ParseAmount(row.Amount)
	if !ok && row.Amount != "" {
		s.logger.WithError(&parsererror.ParseError{
			Source: filepath.Base(s.ExpensesFile),
			Line:   i + 2,
			Field:  "amount",
			Value:  row.Amount,
		}).Warn("Unreadable amount in expenses file, using zero", logging.F(logging.FieldRow, i+2))
	}
	tx.Amount = amount
	tx.RecomputeMonth()
	return tx
}

// expensesReader reads the hand-edited expenses file. Short rows and stray
// quotes are accepted. A row wider than the header fails with its line
// number, since its columns can no longer be trusted.
type expensesReader struct {
	*csv.Reader
	name  string
	width int
}

func newExpensesReader(path string, data []byte) *expensesReader {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &expensesReader{Reader: r, name: filepath.Base(path)}
}

func (r *expensesReader) Read() ([]string, error) {
	row, err := r.Reader.Read()
	if err != nil {
		return nil, err
	}
	if r.width == 0 {
		r.width = len(row)
		return row, nil
	}
	if len(row) > r.width {
		line, _ := r.FieldPos(0)
		return nil, &parsererror.ParseError{
			Source: r.name,
			Line:   line,
			Field:  "row",
			Value:  strings.Join(row, ","),
			Err:    fmt.Errorf("%d fields but the header has %d", len(row), r.width),
		}
	}
	return row, nil
}

func (r *expensesReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// SaveTransactions rewrites the expenses file.
func (s *FileStore) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	rows := make([]expenseRow, 0, len(records))
	for _, tx := range records {
		tx.RecomputeMonth()
		rows = append(rows, expenseRow{
			Month:    tx.Month,
			Date:     tx.Date,
			Business: tx.Business,
			Amount:   tx.AmountText(),
			Category: tx.Category,
			Notes:    tx.Notes,
		})
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	if len(rows) == 0 {
		// gocsv writes nothing for an empty slice; keep the header line.
		buf.WriteString(headerLine())
	} else {
		data, err := gocsv.MarshalBytes(&rows)
		if err != nil {
			return fmt.Errorf("error encoding expenses: %w", err)
		}
		buf.Write(data)
	}

	if err := fileutils.WriteFileAtomic(s.ExpensesFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing expenses file: %w", err)
	}
	s.logger.Debug("Saved transactions",
		logging.F(logging.FieldFile, s.ExpensesFile),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// LoadCategories reads the category set, seeding the defaults when the file
// does not exist yet.
func (s *FileStore) LoadCategories(ctx context.Context) ([]string, error) {
	data, err := readOptional(s.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}
	if data == nil {
		s.logger.Debug("Categories file not found, using defaults", logging.F(logging.FieldFile, s.CategoriesFile))
		return models.DefaultCategoriesCopy(), nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}

	// Accept both a bare list and a document with a top-level key.
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc categoriesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	return doc.Categories, nil
}

// SaveCategories rewrites the categories file.
func (s *FileStore) SaveCategories(ctx context.Context, categories []string) error {
	data, err := yaml.Marshal(categoriesDoc{Categories: categories})
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}
	if err := fileutils.WriteFileAtomic(s.CategoriesFile, data, 0644); err != nil {
		return fmt.Errorf("error writing categories file: %w", err)
	}
	return nil
}

// LoadMapping reads the business to category mapping. A missing file is an
// empty mapping.
func (s *FileStore) LoadMapping(ctx context.Context) (models.Mapping, error) {
	data, err := readOptional(s.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("error reading mapping file: %w", err)
	}
	mapping := models.Mapping{}
	if len(bytes.TrimSpace(data)) == 0 {
		return mapping, nil
	}
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("error parsing mapping file: %w", err)
	}
	return mapping, nil
}

// SaveMapping rewrites the mapping file.
func (s *FileStore) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	if mapping == nil {
		mapping = models.Mapping{}
	}
	data, err := yaml.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("error marshaling mapping: %w", err)
	}
	if err := fileutils.WriteFileAtomic(s.MappingFile, data, 0644); err != nil {
		return fmt.Errorf("error writing mapping file: %w", err)
	}
	s.logger.Debug("Saved mapping",
		logging.F(logging.FieldFile, s.MappingFile),
		logging.F(logging.FieldCount, len(mapping)))
	return nil
}

func headerLine() string {
	var b bytes.Buffer
	for i, c := range Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c)
	}
	b.WriteByte('\n')
	return b.String()
}

// readOptional returns nil data and no error when path does not exist.
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}
