// Package summary computes the spending figures shown by the summary command.
package summary

import (
	"sort"
	"strings"
	"time"

	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/period"

	"github.com/shopspring/decimal"
)

// TrailingMonths is the length of the recent-spending window.
const TrailingMonths = 12

// CategoryAmount is an amount attributed to one category.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// MonthAmount is the spending of one calendar month, keyed YYYY-MM.
type MonthAmount struct {
	Month  string
	Amount decimal.Decimal
}

// Dashboard holds the headline figures.
type Dashboard struct {
	ActiveMonth      string
	ActiveMonthTotal decimal.Decimal
	TrailingTotal    decimal.Decimal
	MonthlyAverage   decimal.Decimal
	TopCategory      *CategoryAmount
	// CategoryAverages is the mean amount per record in each category over
	// the trailing window, highest first.
	CategoryAverages []CategoryAmount
	MonthlyTotals    []MonthAmount
}

// Build computes the dashboard for records as of now.
func Build(records []models.Transaction, minTransactions int, now time.Time) Dashboard {
	d := Dashboard{
		ActiveMonth:      period.LatestActiveMonth(records, minTransactions, now),
		ActiveMonthTotal: decimal.Zero,
		TrailingTotal:    decimal.Zero,
		MonthlyAverage:   decimal.Zero,
	}

	for _, tx := range records {
		if tx.Month == d.ActiveMonth {
			d.ActiveMonthTotal = d.ActiveMonthTotal.Add(tx.Amount)
		}
	}

	recent := Trailing(records, now)
	sums := map[string]decimal.Decimal{}
	counts := map[string]int64{}
	months := map[string]decimal.Decimal{}
	for _, tx := range recent {
		d.TrailingTotal = d.TrailingTotal.Add(tx.Amount)
		c := categoryLabel(tx.Category)
		sums[c] = sums[c].Add(tx.Amount)
		counts[c]++
		m := tx.Date[:7]
		months[m] = months[m].Add(tx.Amount)
	}
	d.MonthlyAverage = d.TrailingTotal.Div(decimal.NewFromInt(TrailingMonths))

	totals := sortedAmounts(sums)
	if len(totals) > 0 {
		top := totals[0]
		d.TopCategory = &top
	}

	avgs := make(map[string]decimal.Decimal, len(sums))
	for c, sum := range sums {
		avgs[c] = sum.Div(decimal.NewFromInt(counts[c]))
	}
	d.CategoryAverages = sortedAmounts(avgs)

	for m, amount := range months {
		d.MonthlyTotals = append(d.MonthlyTotals, MonthAmount{Month: m, Amount: amount})
	}
	sort.Slice(d.MonthlyTotals, func(i, j int) bool {
		return d.MonthlyTotals[i].Month < d.MonthlyTotals[j].Month
	})
	return d
}

// Trailing returns the dated records no older than TrailingMonths before now.
func Trailing(records []models.Transaction, now time.Time) []models.Transaction {
	cutoff := now.AddDate(0, -TrailingMonths, 0)
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	var out []models.Transaction
	for _, tx := range records {
		d, ok := tx.ParsedDate()
		if !ok || d.Before(cutoff) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// YearRow is one category line of a yearly summary.
type YearRow struct {
	Category string
	Total    decimal.Decimal
	Count    int
	Average  decimal.Decimal
}

// YearSummary aggregates one calendar year by category, highest total first.
type YearSummary struct {
	Year  int
	Rows  []YearRow
	Total YearRow
}

// Years lists the years that have dated records, most recent first.
func Years(records []models.Transaction) []int {
	seen := map[int]struct{}{}
	for _, tx := range records {
		if d, ok := tx.ParsedDate(); ok {
			seen[d.Year()] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Yearly summarizes the records dated in year.
func Yearly(records []models.Transaction, year int) YearSummary {
	byCat := map[string]*YearRow{}
	for _, tx := range records {
		d, ok := tx.ParsedDate()
		if !ok || d.Year() != year {
			continue
		}
		c := categoryLabel(tx.Category)
		row, ok := byCat[c]
		if !ok {
			row = &YearRow{Category: c, Total: decimal.Zero}
			byCat[c] = row
		}
		row.Total = row.Total.Add(tx.Amount)
		row.Count++
	}

	s := YearSummary{Year: year, Total: YearRow{Total: decimal.Zero, Average: decimal.Zero}}
	for _, row := range byCat {
		row.Average = row.Total.Div(decimal.NewFromInt(int64(row.Count)))
		s.Rows = append(s.Rows, *row)
		s.Total.Total = s.Total.Total.Add(row.Total)
		s.Total.Count += row.Count
	}
	sort.Slice(s.Rows, func(i, j int) bool {
		if !s.Rows[i].Total.Equal(s.Rows[j].Total) {
			return s.Rows[i].Total.GreaterThan(s.Rows[j].Total)
		}
		return s.Rows[i].Category < s.Rows[j].Category
	})
	if s.Total.Count > 0 {
		s.Total.Average = s.Total.Total.Div(decimal.NewFromInt(int64(s.Total.Count)))
	}
	return s
}

func categoryLabel(category string) string {
	if models.IsEmptyCategory(category) {
		return ""
	}
	return strings.TrimSpace(category)
}

func sortedAmounts(m map[string]decimal.Decimal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for c, a := range m {
		out = append(out, CategoryAmount{Category: c, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
