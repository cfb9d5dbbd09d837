// Package cmdtest runs subcommands against an in-memory container in tests.
package cmdtest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/config"
	"hometab/expense-tracker/internal/container"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// Env is the container installed for one test.
type Env struct {
	Container *container.Container
	Logger    *logging.MockLogger
	Config    *config.Config
}

// Setup installs a memory backed container as root.AppContainer and
// restores the previous one when the test ends. The local file store points
// into a temporary directory.
func Setup(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage.Backend = "memory"
	cfg.Storage.File.Expenses = filepath.Join(dir, "expenses.csv")
	cfg.Storage.File.Categories = filepath.Join(dir, "categories.yaml")
	cfg.Storage.File.Mapping = filepath.Join(dir, "mapping.yaml")

	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(context.Background(), cfg, logger)
	require.NoError(t, err)

	previous := root.AppContainer
	root.AppContainer = c
	t.Cleanup(func() {
		root.AppContainer = previous
		_ = c.Close()
	})
	return &Env{Container: c, Logger: logger, Config: cfg}
}

// Seed replaces the stored transactions.
func (e *Env) Seed(t *testing.T, records ...models.Transaction) {
	t.Helper()
	require.NoError(t, e.Container.GetStore().SaveTransactions(context.Background(), records))
}

// Stored returns the stored transactions.
func (e *Env) Stored(t *testing.T) []models.Transaction {
	t.Helper()
	records, err := e.Container.GetStore().LoadTransactions(context.Background())
	require.NoError(t, err)
	return records
}

// Tx builds a stored record. date is YYYY-MM-DD.
func Tx(date, business, amount, category string) models.Transaction {
	tx := models.Transaction{
		Business: business,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
	if d, err := time.Parse(models.DateLayout, date); err == nil {
		tx.SetDate(d)
	}
	return tx
}

// Run parses args into cmd, resetting its flags first, and invokes RunE.
// It returns everything the command printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	require.NoError(t, cmd.ParseFlags(args))

	rest := cmd.Flags().Args()
	if cmd.Args != nil {
		if err := cmd.Args(cmd, rest); err != nil {
			return out.String(), err
		}
	}
	err := cmd.RunE(cmd, rest)
	return out.String(), err
}
