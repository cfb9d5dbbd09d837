// Package dateutils parses the many date spellings found in bank exports.
//
// Dates are tried against an ordered list of strategies; the first strategy
// that succeeds wins. The default list prefers explicit day-first layouts and
// only then falls back to spreadsheet serial numbers and a permissive parser,
// day-first before month-first.
package dateutils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hometab/expense-tracker/internal/parsererror"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// Layouts tried by the default parser, in order.
const (
	LayoutSlashDMY      = "2/1/2006"
	LayoutDashDMY       = "2-1-2006"
	LayoutDotDMY        = "2.1.2006"
	LayoutISO           = "2006-1-2"
	LayoutSlashDMYShort = "2/1/06"
	LayoutDashDMYShort  = "2-1-06"
)

// DefaultLayouts is the ordered list of explicit layouts.
var DefaultLayouts = []string{
	LayoutSlashDMY,
	LayoutDashDMY,
	LayoutDotDMY,
	LayoutISO,
	LayoutSlashDMYShort,
	LayoutDashDMYShort,
}

// Strategy turns date text into a calendar date.
type Strategy interface {
	Name() string
	Parse(s string) (time.Time, bool)
}

// LayoutStrategy parses text with a single Go time layout.
type LayoutStrategy struct {
	Layout string
}

func (s LayoutStrategy) Name() string { return s.Layout }

func (s LayoutStrategy) Parse(v string) (time.Time, bool) {
	t, err := time.Parse(s.Layout, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var serialPattern = regexp.MustCompile(`^\d{5}(\.\d+)?$`)

// ExcelSerialStrategy accepts spreadsheet day numbers such as "45352".
// Only five digit serials are considered, which covers 1927 to 2173.
type ExcelSerialStrategy struct{}

func (ExcelSerialStrategy) Name() string { return "excel-serial" }

func (ExcelSerialStrategy) Parse(v string) (time.Time, bool) {
	if !serialPattern.MatchString(v) {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return truncateToDay(t), true
}

// PermissiveStrategy guesses the layout. Ambiguous numeric dates resolve
// day-first unless MonthFirst is set; the default list tries day-first and
// then month-first, so "03/13/2024" still yields a date.
type PermissiveStrategy struct {
	MonthFirst bool
}

func (s PermissiveStrategy) Name() string {
	if s.MonthFirst {
		return "permissive-month-first"
	}
	return "permissive"
}

func (s PermissiveStrategy) Parse(v string) (time.Time, bool) {
	t, err := dateparse.ParseIn(v, time.UTC, dateparse.PreferMonthFirst(s.MonthFirst))
	if err != nil {
		return time.Time{}, false
	}
	return truncateToDay(t), true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parser applies strategies in order.
type Parser struct {
	strategies []Strategy
}

// NewParser builds a parser from an explicit strategy list.
func NewParser(strategies ...Strategy) *Parser {
	return &Parser{strategies: strategies}
}

// DefaultParser is the layout list followed by the serial and permissive
// fallbacks.
func DefaultParser() *Parser {
	strategies := make([]Strategy, 0, len(DefaultLayouts)+3)
	for _, layout := range DefaultLayouts {
		strategies = append(strategies, LayoutStrategy{Layout: layout})
	}
	strategies = append(strategies,
		ExcelSerialStrategy{},
		PermissiveStrategy{},
		PermissiveStrategy{MonthFirst: true},
	)
	return NewParser(strategies...)
}

// Parse returns the first successful interpretation of s and the name of
// the strategy that produced it. Failures are *parsererror.ParseError.
func (p *Parser) Parse(s string) (time.Time, string, error) {
	s = CleanDateString(s)
	if s == "" {
		return time.Time{}, "", &parsererror.ParseError{Source: "dateutils", Field: "date", Err: ErrEmptyDate}
	}
	for _, strategy := range p.strategies {
		if t, ok := strategy.Parse(s); ok {
			return t, strategy.Name(), nil
		}
	}
	return time.Time{}, "", &parsererror.ParseError{Source: "dateutils", Field: "date", Value: s, Err: ErrUnknownLayout}
}

var (
	// ErrEmptyDate is the cause of a failure on blank date text.
	ErrEmptyDate = errors.New("empty value")

	// ErrUnknownLayout means no strategy accepted the text.
	ErrUnknownLayout = errors.New("no known date layout")
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims s and collapses internal whitespace runs.
func CleanDateString(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
