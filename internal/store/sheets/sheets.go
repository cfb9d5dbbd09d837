// Package sheets stores expenses in a Google Sheets spreadsheet, one tab per
// collection.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/parsererror"
	"hometab/expense-tracker/internal/store"

	"github.com/google/uuid"
)

// BackendName is the name this backend reports in logs and errors.
const BackendName = "sheets"

// ChunkSize is the number of rows written per update request.
const ChunkSize = 1000

// ColumnID heads the identifier column of the expenses tab.
const ColumnID = "מזהה"

const (
	columnCategoryName = "קטגוריה"
	columnRuleBusiness = "שם בית עסק"
	columnRuleCategory = "קטגוריה"
)

// Config names the spreadsheet and its tabs.
type Config struct {
	SpreadsheetID   string
	ExpensesSheet   string
	CategoriesSheet string
	MappingSheet    string
}

func (c Config) withDefaults() Config {
	if c.ExpensesSheet == "" {
		c.ExpensesSheet = "Expenses"
	}
	if c.CategoriesSheet == "" {
		c.CategoriesSheet = "Categories"
	}
	if c.MappingSheet == "" {
		c.MappingSheet = "Mapping"
	}
	return c
}

// Store is a store.Store over a spreadsheet.
type Store struct {
	api    ValuesAPI
	cfg    Config
	logger logging.Logger
}

// New connects to the Sheets API with the given service account credentials.
func New(ctx context.Context, cfg Config, credentialsJSON []byte, logger logging.Logger) (*Store, error) {
	api, err := NewValuesAPI(ctx, credentialsJSON)
	if err != nil {
		return nil, err
	}
	return NewWithAPI(api, cfg, logger)
}

// NewWithAPI creates a Store over an existing ValuesAPI.
func NewWithAPI(api ValuesAPI, cfg Config, logger logging.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if api == nil {
		return nil, errors.New("sheets values API not initialized")
	}
	return &Store{api: api, cfg: cfg.withDefaults(), logger: logging.OrDefault(logger)}, nil
}

func (s *Store) BackendName() string { return BackendName }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &parsererror.StorageError{Backend: BackendName, Operation: op, Err: err}
}

func expenseHeader() []string {
	return append([]string{ColumnID}, store.Columns...)
}

func (s *Store) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.readTable(ctx, s.cfg.ExpensesSheet, "A:G")
	if err != nil {
		return nil, wrap("load transactions", err)
	}
	records := []models.Transaction{}
	if len(rows) == 0 {
		return records, nil
	}

	idx := headerIndex(rows[0])
	for i, row := range rows[1:] {
		get := func(col string) string { return cell(row, idx, col) }
		tx := models.Transaction{
			ID:       get(ColumnID),
			Date:     get(store.ColumnDate),
			Business: get(store.ColumnBusiness),
			Category: get(store.ColumnCategory),
			Notes:    get(store.ColumnNotes),
		}
		if tx.Date == "" && tx.Business == "" && get(store.ColumnAmount) == "" {
			continue
		}
		if amount, ok := models.ParseAmount(get(store.ColumnAmount)); ok {
			tx.Amount = amount
		} else if get(store.ColumnAmount) != "" {
			s.logger.Warn("Unreadable amount in spreadsheet, using zero",
				logging.F(logging.FieldRow, i+2),
				logging.F("amount", get(store.ColumnAmount)))
		}
		tx.RecomputeMonth()
		records = append(records, tx)
	}
	return records, nil
}

func (s *Store) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	values := [][]interface{}{toRow(expenseHeader())}
	for _, tx := range records {
		tx.RecomputeMonth()
		id := tx.ID
		if id == "" {
			id = uuid.NewString()
		}
		values = append(values, []interface{}{id, tx.Month, tx.Date, tx.Business, tx.AmountText(), tx.Category, tx.Notes})
	}
	return wrap("save transactions", s.writeTable(ctx, s.cfg.ExpensesSheet, "A:G", "G", values))
}

func (s *Store) LoadCategories(ctx context.Context) ([]string, error) {
	rows, err := s.readTable(ctx, s.cfg.CategoriesSheet, "A:A")
	if err != nil {
		return nil, wrap("load categories", err)
	}
	if len(rows) == 0 {
		return models.DefaultCategoriesCopy(), nil
	}
	categories := []string{}
	for _, row := range rows[1:] {
		cols := toStrings(row)
		if len(cols) == 0 || cols[0] == "" {
			continue
		}
		categories = append(categories, cols[0])
	}
	return categories, nil
}

func (s *Store) SaveCategories(ctx context.Context, categories []string) error {
	values := [][]interface{}{{columnCategoryName}}
	for _, c := range categories {
		values = append(values, []interface{}{c})
	}
	return wrap("save categories", s.writeTable(ctx, s.cfg.CategoriesSheet, "A:A", "A", values))
}

func (s *Store) LoadMapping(ctx context.Context) (models.Mapping, error) {
	rows, err := s.readTable(ctx, s.cfg.MappingSheet, "A:B")
	if err != nil {
		return nil, wrap("load mapping", err)
	}
	mapping := models.Mapping{}
	if len(rows) == 0 {
		return mapping, nil
	}
	for _, row := range rows[1:] {
		cols := toStrings(row)
		if len(cols) < 2 || cols[0] == "" {
			continue
		}
		mapping[cols[0]] = cols[1]
	}
	return mapping, nil
}

func (s *Store) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	values := [][]interface{}{{columnRuleBusiness, columnRuleCategory}}
	for _, business := range mapping.Businesses() {
		values = append(values, []interface{}{business, mapping[business]})
	}
	return wrap("save mapping", s.writeTable(ctx, s.cfg.MappingSheet, "A:B", "B", values))
}

func (s *Store) readTable(ctx context.Context, sheet, cols string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	rows, err := s.api.Get(ctx, s.cfg.SpreadsheetID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rng, err)
	}
	return rows, nil
}

// writeTable clears the tab's columns and writes values from row 1 in chunks.
func (s *Store) writeTable(ctx context.Context, sheet, cols, lastCol string, values [][]interface{}) error {
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	if err := s.api.Clear(ctx, s.cfg.SpreadsheetID, rng); err != nil {
		return fmt.Errorf("failed to clear %s: %w", rng, err)
	}

	for start := 0; start < len(values); start += ChunkSize {
		end := start + ChunkSize
		if end > len(values) {
			end = len(values)
		}
		chunk := fmt.Sprintf("%s!A%d:%s%d", sheet, start+1, lastCol, end)
		if err := s.api.Update(ctx, s.cfg.SpreadsheetID, chunk, values[start:end]); err != nil {
			return fmt.Errorf("failed to update %s: %w", chunk, err)
		}
		s.logger.Debug("Wrote spreadsheet rows",
			logging.F("range", chunk),
			logging.F(logging.FieldCount, end-start))
	}
	return nil
}

func headerIndex(header []interface{}) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range toStrings(header) {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return idx
}

func cell(row []interface{}, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func toRow(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
