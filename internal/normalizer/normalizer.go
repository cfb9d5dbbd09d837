// Package normalizer turns heterogeneous bank and card exports into canonical
// transaction records.
//
// Exports carry no fixed header row. Instead the grid is scanned for header
// rows recognised through a label Vocabulary; every header opens a section
// that runs until the next header, and each section has its own column
// layout. Rows that are empty, summaries, or carry no usable amount are
// dropped silently.
package normalizer

import (
	"io"
	"strings"

	"hometab/expense-tracker/internal/dateutils"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Section is a header row and the column indexes it declares. A negative
// index means the role is absent.
type Section struct {
	HeaderRow   int
	DateCol     int
	BusinessCol int
	AmountCol   int
	EndRow      int // exclusive
}

// Normalizer converts grids to transactions.
type Normalizer struct {
	vocab  Vocabulary
	dates  *dateutils.Parser
	logger logging.Logger
}

// New creates a Normalizer using vocab and the default date strategies.
func New(vocab Vocabulary, logger logging.Logger) *Normalizer {
	return &Normalizer{
		vocab:  vocab,
		dates:  dateutils.DefaultParser(),
		logger: logging.OrDefault(logger),
	}
}

// NormalizeFile loads name from r and normalizes its first sheet. Only
// loading can fail; content problems simply yield fewer records.
func (n *Normalizer) NormalizeFile(name string, r io.Reader) ([]models.Transaction, error) {
	grid, err := LoadGrid(name, r)
	if err != nil {
		return nil, err
	}
	records := n.Normalize(grid)
	n.logger.Info("Normalized uploaded file",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}

type candidate struct {
	rawDate  string
	business string
	amount   decimal.Decimal
}

// Normalize extracts every transaction found in grid. It never fails: a grid
// without recognisable headers yields an empty slice.
func (n *Normalizer) Normalize(grid Grid) []models.Transaction {
	sections := n.DetectSections(grid)
	if len(sections) == 0 {
		n.logger.Debug("No header rows found in grid", logging.F(logging.FieldRow, len(grid)))
		return []models.Transaction{}
	}

	var candidates []candidate
	for i, s := range sections {
		found := n.scanSection(grid, s)
		n.logger.Debug("Scanned section",
			logging.F(logging.FieldSection, i),
			logging.F(logging.FieldRow, s.HeaderRow),
			logging.F(logging.FieldCount, len(found)))
		candidates = append(candidates, found...)
	}

	records := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		tx := models.Transaction{
			Business: c.business,
			Amount:   c.amount,
		}
		if d, _, err := n.dates.Parse(c.rawDate); err == nil {
			tx.SetDate(d)
		} else {
			n.logger.Debug("Keeping record with unparseable date",
				logging.F(logging.FieldBusiness, c.business),
				logging.F("raw_date", c.rawDate))
			tx.ClearDate()
		}
		records = append(records, tx)
	}
	return records
}

// DetectSections finds all header rows in grid. A row is a header when it has
// a date label and at least one business or amount label. When a label
// repeats in a row the right-most matching column is used.
func (n *Normalizer) DetectSections(grid Grid) []Section {
	var sections []Section
	for r, row := range grid {
		s := Section{HeaderRow: r, DateCol: -1, BusinessCol: -1, AmountCol: -1}
		for c, cell := range row {
			switch n.vocab.roleOf(cell) {
			case roleDate:
				s.DateCol = c
			case roleBusiness:
				s.BusinessCol = c
			case roleAmount:
				s.AmountCol = c
			}
		}
		if s.DateCol >= 0 && (s.BusinessCol >= 0 || s.AmountCol >= 0) {
			sections = append(sections, s)
		}
	}

	for i := range sections {
		if i+1 < len(sections) {
			sections[i].EndRow = sections[i+1].HeaderRow
		} else {
			sections[i].EndRow = len(grid)
		}
	}
	return sections
}

func (n *Normalizer) scanSection(grid Grid, s Section) []candidate {
	var out []candidate
	for r := s.HeaderRow + 1; r < s.EndRow; r++ {
		rawDate := grid.Cell(r, s.DateCol)
		business := grid.Cell(r, s.BusinessCol)
		if isBlank(rawDate) || isBlank(business) {
			continue
		}
		if n.vocab.isSummary(business) {
			continue
		}
		if s.AmountCol < 0 {
			continue
		}
		amount, ok := models.ParseAmount(grid.Cell(r, s.AmountCol))
		if !ok || amount.IsZero() {
			continue
		}
		out = append(out, candidate{rawDate: rawDate, business: business, amount: amount})
	}
	return out
}

func isBlank(s string) bool {
	return s == "" || strings.EqualFold(s, "nan")
}
