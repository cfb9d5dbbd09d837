package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hometab/expense-tracker/internal/config"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/store"
	"hometab/expense-tracker/internal/store/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Storage.File.Expenses = filepath.Join(dir, "expenses.csv")
	cfg.Storage.File.Categories = filepath.Join(dir, "categories.yaml")
	cfg.Storage.File.Mapping = filepath.Join(dir, "mapping.yaml")
	cfg.Storage.SQLite.Path = filepath.Join(dir, "expenses.db")
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func(t *testing.T) *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "file backend",
			config: func(t *testing.T) *config.Config { return testConfig(t, "file") },
		},
		{
			name:   "memory backend",
			config: func(t *testing.T) *config.Config { return testConfig(t, "memory") },
		},
		{
			name:   "sqlite backend",
			config: func(t *testing.T) *config.Config { return testConfig(t, "sqlite") },
		},
		{
			name: "sheets backend without credentials",
			config: func(t *testing.T) *config.Config {
				cfg := testConfig(t, "sheets")
				cfg.Storage.Sheets.SpreadsheetID = "id"
				return cfg
			},
			expectError: true,
			errorMsg:    "missing service account credentials",
		},
		{
			name: "missing labels file",
			config: func(t *testing.T) *config.Config {
				cfg := testConfig(t, "memory")
				cfg.Normalizer.LabelsFile = filepath.Join(t.TempDir(), "labels.yaml")
				return cfg
			},
			expectError: true,
			errorMsg:    "error loading labels file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := NewContainerWithLogger(context.Background(), tt.config(t), logging.NewMockLogger())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, container)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, container)
			defer container.Close()

			assert.NotNil(t, container.GetLogger())
			assert.NotNil(t, container.GetConfig())
			assert.NotNil(t, container.GetStore())
			assert.NotNil(t, container.GetFileStore())
			assert.NotNil(t, container.GetNormalizer())
			assert.NotNil(t, container.GetCategorizer())
			assert.NotNil(t, container.GetPipeline())
		})
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	c, err := NewContainer(nil)
	assert.Nil(t, c)
	assert.EqualError(t, err, "configuration cannot be nil")
}

func TestNewContainer_LabelsFile(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Normalizer.LabelsFile = filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(cfg.Normalizer.LabelsFile, []byte("date: [Date]\nbusiness: [Payee]\namount: [Amount]\n"), 0644))

	c, err := NewContainerWithLogger(context.Background(), cfg, nil)
	require.NoError(t, err)

	records := c.GetNormalizer().Normalize([][]string{
		{"Date", "Payee", "Amount"},
		{"01/03/2024", "Cafe X", "45.50"},
	})
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-01", records[0].Date)
}

func TestStoreOptions(t *testing.T) {
	cfg := testConfig(t, "sheets")
	cfg.Storage.Sheets.SpreadsheetID = "sheet"
	cfg.Storage.Retry.BackoffMS = 250

	opts := StoreOptions(cfg)

	assert.Equal(t, "sheets", string(opts.Backend))
	assert.Equal(t, "sheet", opts.Sheets.SpreadsheetID)
	assert.Equal(t, "Expenses", opts.Sheets.ExpensesSheet)
	assert.Equal(t, 3, opts.Retry.Attempts)
	assert.Equal(t, 250*time.Millisecond, opts.Retry.Backoff)
	assert.True(t, opts.FallbackToFile)
}

func TestContainer_Close(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	cfg.Storage.FallbackToFile = false
	cfg.Storage.Retry.Attempts = 1

	c, err := NewContainerWithLogger(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &sqlite.Store{}, c.GetStore())

	require.NoError(t, c.Close())

	_, err = c.GetStore().LoadMapping(context.Background())
	assert.ErrorIs(t, err, store.ErrClosed)
}
