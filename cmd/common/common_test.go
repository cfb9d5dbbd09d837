package common

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"hometab/expense-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestContext(t *testing.T) {
	cmd := &cobra.Command{}
	assert.NotNil(t, Context(cmd))

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	cmd.SetContext(ctx)
	assert.Equal(t, "v", Context(cmd).Value(ctxKey{}))
}

func TestIndex(t *testing.T) {
	rows := Index([]models.Transaction{{Business: "a"}, {Business: "b"}})
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, 1, rows[1].Index)
	assert.Equal(t, "b", rows[1].Business)
}

func TestPrintTransactions(t *testing.T) {
	var buf bytes.Buffer
	rows := Index([]models.Transaction{
		{Month: "03/2024", Date: "2024-03-01", Business: "Cafe X", Amount: decimal.RequireFromString("45.5"), Category: "קפה ואוכל בחוץ"},
	})

	require.NoError(t, PrintTransactions(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "BUSINESS")
	assert.Contains(t, lines[1], "Cafe X")
	assert.Contains(t, lines[1], "45.50")
	assert.True(t, strings.HasPrefix(lines[1], "0 "))
}
