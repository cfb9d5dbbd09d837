package models

import (
	"sort"
	"strings"
)

// DefaultCategories seeds the category set when none has been saved yet.
var DefaultCategories = []string{
	"מזון וקניות בית",
	"אחזקת רכב",
	"דלק ונסיעות",
	"בילויים ויציאות משותפות",
	"קפה ואוכל בחוץ",
	"חשבונות דירה",
	"תקשורת",
	"חוגים ותחביבים",
	"ביטוחים ובריאות",
	"שונות",
}

// DefaultCategoriesCopy returns a fresh copy of DefaultCategories.
func DefaultCategoriesCopy() []string {
	out := make([]string, len(DefaultCategories))
	copy(out, DefaultCategories)
	return out
}

// NormalizeCategories trims labels, drops blanks and duplicates, and sorts
// the result.
func NormalizeCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ContainsCategory reports whether category is in the set.
func ContainsCategory(categories []string, category string) bool {
	category = strings.TrimSpace(category)
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
