// Package models provides the data structures shared by the expense tracker.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the canonical persisted date text.
	DateLayout = "2006-01-02"
	// MonthLayout is the canonical month bucket text.
	MonthLayout = "01/2006"
)

// Transaction is a single canonical expense record.
//
// Month is always derived from Date and must never be edited independently.
// ID is only populated by stores that have a notion of row identity.
type Transaction struct {
	ID       string          `json:"id,omitempty" yaml:"id,omitempty"`
	Month    string          `json:"month" yaml:"month"`
	Date     string          `json:"date" yaml:"date"`
	Business string          `json:"business" yaml:"business"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Category string          `json:"category" yaml:"category"`
	Notes    string          `json:"notes" yaml:"notes"`
}

// SetDate stores t as the canonical date and recomputes Month.
func (t *Transaction) SetDate(d time.Time) {
	t.Date = d.Format(DateLayout)
	t.Month = d.Format(MonthLayout)
}

// ClearDate marks the date as unknown. The record keeps its other fields.
func (t *Transaction) ClearDate() {
	t.Date = ""
	t.Month = ""
}

// RecomputeMonth derives Month from Date. An unparseable date clears Month.
func (t *Transaction) RecomputeMonth() {
	d, ok := t.ParsedDate()
	if !ok {
		t.Month = ""
		return
	}
	t.Month = d.Format(MonthLayout)
}

// ParsedDate parses the canonical Date text.
func (t Transaction) ParsedDate() (time.Time, bool) {
	if t.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// AmountText is the text form of Amount used wherever amounts are compared
// as text.
func (t Transaction) AmountText() string {
	return t.Amount.String()
}

// IsUncategorized reports whether the record still needs a category.
func (t Transaction) IsUncategorized() bool {
	return IsEmptyCategory(t.Category)
}

// IsEmptyCategory treats blank text and the spreadsheet placeholders
// "nan", "none" and "null" as no category.
func IsEmptyCategory(category string) bool {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// ParseMonth parses a MM/YYYY month bucket.
func ParseMonth(month string) (time.Time, bool) {
	m, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, false
	}
	return m, true
}
