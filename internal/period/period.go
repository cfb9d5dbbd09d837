// Package period infers which month the user is currently reviewing.
package period

import (
	"time"

	"hometab/expense-tracker/internal/models"
)

// DefaultMinTransactions is the monthly record count at which a month is
// considered active.
const DefaultMinTransactions = 15

// LatestActiveMonth returns the latest MM/YYYY month with at least
// minTransactions records. When no month qualifies it falls back to the month
// of the latest parseable date, and then to the month of now. Records with an
// empty or malformed month never count towards a month. A minTransactions
// below one selects DefaultMinTransactions.
func LatestActiveMonth(records []models.Transaction, minTransactions int, now time.Time) string {
	if minTransactions < 1 {
		minTransactions = DefaultMinTransactions
	}

	counts := make(map[string]int)
	for _, tx := range records {
		if tx.Month == "" {
			continue
		}
		counts[tx.Month]++
	}

	var (
		best     time.Time
		bestText string
	)
	for month, n := range counts {
		if n < minTransactions {
			continue
		}
		m, ok := models.ParseMonth(month)
		if !ok {
			continue
		}
		if bestText == "" || m.After(best) {
			best, bestText = m, m.Format(models.MonthLayout)
		}
	}
	if bestText != "" {
		return bestText
	}

	if latest, ok := LatestDate(records); ok {
		return latest.Format(models.MonthLayout)
	}
	return now.Format(models.MonthLayout)
}

// LatestDate returns the latest parseable record date.
func LatestDate(records []models.Transaction) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, tx := range records {
		d, ok := tx.ParsedDate()
		if !ok {
			continue
		}
		if !found || d.After(latest) {
			latest, found = d, true
		}
	}
	return latest, found
}
