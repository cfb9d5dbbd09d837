package normalizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary lists the header labels that identify each column role, plus
// the markers of summary rows. Header labels match exactly after trimming;
// summary markers match as case-insensitive substrings of the business cell.
type Vocabulary struct {
	Date           []string `yaml:"date"`
	Business       []string `yaml:"business"`
	Amount         []string `yaml:"amount"`
	SummaryMarkers []string `yaml:"summary_markers"`
}

// DefaultVocabulary returns the labels used by the supported Israeli card
// and bank exports.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Date:           []string{"תאריך רכישה", "תאריך", "תאריך עסקה"},
		Business:       []string{"שם בית עסק", "שם בית העסק", "עסק", "שם העסק"},
		Amount:         []string{"סכום חיוב", "סכום עסקה", "סכום", "סכום מקורי"},
		SummaryMarkers: []string{"TOTAL FOR DATE", "סך חיוב", `סה"כ`, "סהכ", "total"},
	}
}

// LoadVocabulary reads a YAML label table. Roles left empty in the file keep
// their default labels.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("error reading labels file: %w", err)
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("error parsing labels file: %w", err)
	}

	def := DefaultVocabulary()
	if len(v.Date) == 0 {
		v.Date = def.Date
	}
	if len(v.Business) == 0 {
		v.Business = def.Business
	}
	if len(v.Amount) == 0 {
		v.Amount = def.Amount
	}
	if len(v.SummaryMarkers) == 0 {
		v.SummaryMarkers = def.SummaryMarkers
	}
	return v, nil
}

type role int

const (
	roleNone role = iota
	roleDate
	roleBusiness
	roleAmount
)

// roleOf classifies a header cell. Date labels take precedence over business
// labels, which take precedence over amount labels.
func (v Vocabulary) roleOf(cell string) role {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return roleNone
	}
	switch {
	case contains(v.Date, cell):
		return roleDate
	case contains(v.Business, cell):
		return roleBusiness
	case contains(v.Amount, cell):
		return roleAmount
	}
	return roleNone
}

func (v Vocabulary) isSummary(business string) bool {
	lower := strings.ToLower(business)
	for _, marker := range v.SummaryMarkers {
		if marker == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
