package root_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"hometab/expense-tracker/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var initOnce sync.Once

func setup(t *testing.T) {
	t.Helper()
	initOnce.Do(root.Init)

	for _, name := range []string{"config", "log-level", "log-format", "backend"} {
		f := root.Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	for _, key := range []string{"EXPENSES_LOG_LEVEL", "EXPENSES_LOG_FORMAT", "EXPENSES_STORAGE_BACKEND"} {
		t.Setenv(key, "")
	}

	previous := root.AppContainer
	root.AppContainer = nil
	t.Cleanup(func() { root.AppContainer = previous })
}

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`log:
  level: warn
  format: json
storage:
  backend: %s
  file:
    expenses: %s
    categories: %s
    mapping: %s
  sqlite:
    path: %s
`, backend,
		filepath.Join(dir, "expenses.csv"),
		filepath.Join(dir, "categories.yaml"),
		filepath.Join(dir, "mapping.yaml"),
		filepath.Join(dir, "expenses.db"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "expense-tracker", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "expenses")
	assert.True(t, root.Cmd.SilenceUsage)
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	setup(t)

	for _, name := range []string{"config", "log-level", "log-format", "backend"} {
		f := root.Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue)
		assert.NotEmpty(t, f.Usage)
	}
}

func TestLoadConfig(t *testing.T) {
	setup(t)
	path := writeConfig(t, "file")

	require.NoError(t, root.Cmd.ParseFlags([]string{"--config", path}))
	cfg, err := root.LoadConfig(root.Cmd)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Storage.Backend)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	setup(t)
	path := writeConfig(t, "file")

	require.NoError(t, root.Cmd.ParseFlags([]string{"--config", path, "--backend", "sqlite", "--log-level", "debug"}))
	cfg, err := root.LoadConfig(root.Cmd)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "unset flags keep the file value")
}

func TestLoadConfig_Errors(t *testing.T) {
	setup(t)

	require.NoError(t, root.Cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, err := root.LoadConfig(root.Cmd)
	assert.ErrorContains(t, err, "error reading config file")

	path := writeConfig(t, "file")
	require.NoError(t, root.Cmd.ParseFlags([]string{"--config", path, "--backend", "dropbox"}))
	_, err = root.LoadConfig(root.Cmd)
	assert.ErrorContains(t, err, "invalid storage backend")
}

func TestRootCommand_Lifecycle(t *testing.T) {
	setup(t)
	path := writeConfig(t, "sqlite")
	require.NoError(t, root.Cmd.ParseFlags([]string{"--config", path}))

	_, err := root.GetContainer()
	assert.ErrorIs(t, err, root.ErrNoContainer)

	require.NoError(t, root.Cmd.PersistentPreRunE(root.Cmd, nil))
	c, err := root.GetContainer()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.GetConfig().Storage.Backend)

	require.NoError(t, root.Cmd.PersistentPreRunE(root.Cmd, nil), "an existing container is reused")
	same, err := root.GetContainer()
	require.NoError(t, err)
	assert.Same(t, c, same)

	require.NoError(t, root.Cmd.PersistentPostRunE(root.Cmd, nil))
	_, err = root.GetContainer()
	assert.ErrorIs(t, err, root.ErrNoContainer)
	assert.NoError(t, root.Cmd.PersistentPostRunE(root.Cmd, nil))
}

func TestRootCommand_PreRunFailure(t *testing.T) {
	setup(t)
	path := writeConfig(t, "sheets")
	require.NoError(t, root.Cmd.ParseFlags([]string{"--config", path}))

	err := root.Cmd.PersistentPreRunE(root.Cmd, nil)
	assert.ErrorContains(t, err, "storage.sheets.spreadsheet_id required")
	assert.Nil(t, root.AppContainer)
}
