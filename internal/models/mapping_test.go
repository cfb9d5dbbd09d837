package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapping_Learn(t *testing.T) {
	m := Mapping{}

	assert.True(t, m.Learn("  Cafe X ", "Food"))
	assert.Equal(t, "Food", m["Cafe X"])
	assert.False(t, m.Learn("Cafe X", "Food"), "same rule is not a change")
	assert.True(t, m.Learn("Cafe X", "Coffee"), "last write wins")
	assert.False(t, m.Learn("", "Food"))
	assert.False(t, m.Learn("Shop", "nan"))
	assert.Len(t, m, 1)

	c, ok := m.Lookup(" Cafe X")
	assert.True(t, ok)
	assert.Equal(t, "Coffee", c)
	_, ok = m.Lookup("cafe x")
	assert.False(t, ok, "lookups are case-sensitive")
}

func TestMapping_Merge(t *testing.T) {
	m := Mapping{"A": "1", "B": "2"}
	res := m.Merge(Mapping{"A": "1", "B": "3", "C": "4", " ": "x", "D": ""})

	assert.Equal(t, MergeResult{Added: 1, Updated: 1}, res)
	assert.Equal(t, Mapping{"A": "1", "B": "3", "C": "4"}, m)
	assert.Equal(t, []string{"A", "B", "C"}, m.Businesses())
}

func TestMapping_CloneIsIndependent(t *testing.T) {
	var nilMap Mapping
	assert.NotNil(t, nilMap.Clone())

	m := Mapping{"A": "1"}
	c := m.Clone()
	c["A"] = "2"
	assert.Equal(t, "1", m["A"])
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" b ", "a", "", "b", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, got)

	assert.True(t, ContainsCategory(got, " a"))
	assert.False(t, ContainsCategory(got, "d"))
}

func TestDefaultCategoriesCopy(t *testing.T) {
	c := DefaultCategoriesCopy()
	c[0] = "changed"
	assert.NotEqual(t, "changed", DefaultCategories[0])
	assert.Len(t, c, 10)
}

func TestCategorizationStats_SuccessRate(t *testing.T) {
	assert.Zero(t, CategorizationStats{}.SuccessRate())
	assert.InDelta(t, 50.0, CategorizationStats{Eligible: 4, Assigned: 2}.SuccessRate(), 0.001)
}
