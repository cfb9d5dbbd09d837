package models

import (
	"sort"
	"strings"
)

// Mapping associates a trimmed business name with a category. Keys are
// case-sensitive.
type Mapping map[string]string

// Clone returns an independent copy of m. A nil mapping clones to an empty one.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Learn records that business belongs to category. Blank business names or
// categories are ignored. It reports whether the mapping changed.
func (m Mapping) Learn(business, category string) bool {
	business = strings.TrimSpace(business)
	category = strings.TrimSpace(category)
	if business == "" || IsEmptyCategory(category) {
		return false
	}
	if m[business] == category {
		return false
	}
	m[business] = category
	return true
}

// Lookup returns the category for the trimmed business name.
func (m Mapping) Lookup(business string) (string, bool) {
	c, ok := m[strings.TrimSpace(business)]
	return c, ok
}

// MergeResult counts what a Merge changed.
type MergeResult struct {
	Added   int
	Updated int
}

// Merge copies every rule of other into m, last write wins.
func (m Mapping) Merge(other Mapping) MergeResult {
	var res MergeResult
	for business, category := range other {
		business = strings.TrimSpace(business)
		category = strings.TrimSpace(category)
		if business == "" || category == "" {
			continue
		}
		old, exists := m[business]
		switch {
		case !exists:
			res.Added++
		case old != category:
			res.Updated++
		default:
			continue
		}
		m[business] = category
	}
	return res
}

// Businesses returns the mapping keys in sorted order.
func (m Mapping) Businesses() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
