package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_SharesEntriesWithDerivedLoggers(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("root")
	mock.WithField(FieldFile, "march.csv").Warn("derived")
	mock.WithError(errors.New("boom")).Error("failed")

	entries := mock.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "derived", entries[1].Message)
	assert.Equal(t, []Field{{Key: FieldFile, Value: "march.csv"}}, entries[1].Fields)
	assert.EqualError(t, entries[2].Error, "boom")

	assert.True(t, mock.HasEntry("WARN", "derived"))
	assert.Len(t, mock.EntriesByLevel("ERROR"), 1)

	mock.Clear()
	assert.Empty(t, mock.Entries())
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Debug("zero")
	assert.True(t, mock.HasEntry("DEBUG", "zero"))
}
