package mapping

import (
	"path/filepath"
	"strings"
	"testing"

	"hometab/expense-tracker/cmd/cmdtest"
	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedMapping(t *testing.T, env *cmdtest.Env, m models.Mapping) {
	t.Helper()
	require.NoError(t, env.Container.GetStore().SaveMapping(t.Context(), m))
}

func storedMapping(t *testing.T, env *cmdtest.Env) models.Mapping {
	t.Helper()
	m, err := env.Container.GetStore().LoadMapping(t.Context())
	require.NoError(t, err)
	return m
}

func TestMappingCommand_SubCommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range Cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"list", "set", "remove", "import-index"} {
		assert.True(t, names[want], want)
	}

	sheet := importCmd.Flags().Lookup("sheet")
	require.NotNil(t, sheet)
	assert.Equal(t, categorizer.DefaultIndexSheet, sheet.DefValue)
}

func TestMappingList(t *testing.T) {
	env := cmdtest.Setup(t)

	out, err := cmdtest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No mapping rules")

	seedMapping(t, env, models.Mapping{"Grocer": "מזון וקניות בית", "Cafe X": "קפה ואוכל בחוץ"})
	out, err = cmdtest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "BUSINESS")
	assert.Less(t, strings.Index(out, "Cafe X"), strings.Index(out, "Grocer"), "rules are sorted by business")
}

func TestMappingSet(t *testing.T) {
	env := cmdtest.Setup(t)

	out, err := cmdtest.Run(t, setCmd, " Cafe X ", "קפה ואוכל בחוץ")
	require.NoError(t, err)
	assert.Contains(t, out, "Cafe X -> קפה ואוכל בחוץ")
	assert.Equal(t, models.Mapping{"Cafe X": "קפה ואוכל בחוץ"}, storedMapping(t, env))

	out, err = cmdtest.Run(t, setCmd, "Cafe X", "קפה ואוכל בחוץ")
	require.NoError(t, err)
	assert.Contains(t, out, "Mapping unchanged")

	_, err = cmdtest.Run(t, setCmd, "Cafe X", "null")
	assert.ErrorContains(t, err, "must not be empty")
	assert.Error(t, setCmd.Args(setCmd, []string{"only-one"}))
}

func TestMappingRemove(t *testing.T) {
	env := cmdtest.Setup(t)
	seedMapping(t, env, models.Mapping{"Cafe X": "קפה ואוכל בחוץ", "Grocer": "מזון וקניות בית"})

	out, err := cmdtest.Run(t, removeCmd, "Cafe X")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed mapping for Cafe X")
	assert.Equal(t, models.Mapping{"Grocer": "מזון וקניות בית"}, storedMapping(t, env))

	_, err = cmdtest.Run(t, removeCmd, "Unknown")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func writeIndex(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "index.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestMappingImportIndex(t *testing.T) {
	env := cmdtest.Setup(t)
	seedMapping(t, env, models.Mapping{"Cafe X": "שונות", "Fuel": "דלק ונסיעות"})

	path := writeIndex(t, categorizer.DefaultIndexSheet, [][]interface{}{
		{"#", "", "", "בית עסק", "קטגוריה"},
		{1, "", "", "Cafe X", "קפה ואוכל בחוץ"},
		{2, "", "", "Grocer", "מזון וקניות בית"},
		{3, "", "", "Fuel", "דלק ונסיעות"},
	})

	out, err := cmdtest.Run(t, importCmd, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Read 3 rules: 1 added, 1 updated")
	assert.Equal(t, models.Mapping{
		"Cafe X": "קפה ואוכל בחוץ",
		"Grocer": "מזון וקניות בית",
		"Fuel":   "דלק ונסיעות",
	}, storedMapping(t, env))
	assert.True(t, env.Logger.HasEntry("INFO", "Mapping index imported"))
}

func TestMappingImportIndex_Sheet(t *testing.T) {
	env := cmdtest.Setup(t)
	path := writeIndex(t, "Rules", [][]interface{}{
		{"#", "", "", "Business", "Category"},
		{1, "", "", "Grocer", "מזון וקניות בית"},
	})

	_, err := cmdtest.Run(t, importCmd, path)
	assert.Error(t, err, "default sheet does not exist")

	out, err := cmdtest.Run(t, importCmd, "--sheet", "Rules", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 added")
	assert.Equal(t, "מזון וקניות בית", storedMapping(t, env)["Grocer"])

	_, err = cmdtest.Run(t, importCmd, filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorContains(t, err, "file does not exist")
}
