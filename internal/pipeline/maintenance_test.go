package pipeline

import (
	"context"
	"errors"
	"testing"

	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history() []models.Transaction {
	return []models.Transaction{
		{Date: "2024-01-01", Business: "Cafe X", Amount: decimal.NewFromInt(10)},
		{Date: "2024-01-02", Business: " Cafe X ", Amount: decimal.NewFromInt(11), Category: "none"},
		{Date: "2024-01-03", Business: "Grocer", Amount: decimal.NewFromInt(12), Category: "Food"},
		{Date: "2024-01-04", Business: "Pharmacy", Amount: decimal.NewFromInt(13), Category: "NaN"},
	}
}

func TestRecategorize(t *testing.T) {
	st := &store.MockStore{Transactions: history(), Mapping: models.Mapping{"Cafe X": "Coffee"}}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	stats, err := p.Recategorize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Assigned)
	assert.Equal(t, "Coffee", st.Transactions[0].Category)
	assert.Equal(t, "Coffee", st.Transactions[1].Category)
	assert.Equal(t, "Food", st.Transactions[2].Category)
	assert.Equal(t, "NaN", st.Transactions[3].Category, "no rule, left as is")
}

func TestRecategorize_NothingToDo(t *testing.T) {
	st := &store.MockStore{Transactions: history()}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	stats, err := p.Recategorize(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.Assigned)
	assert.Zero(t, st.SaveTransactionsCalls)
}

func TestRecategorize_LoadFailure(t *testing.T) {
	st := &store.MockStore{LoadTransactionsError: errors.New("offline")}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	_, err := p.Recategorize(context.Background())

	assert.ErrorContains(t, err, "error loading transactions")
	assert.Zero(t, st.SaveTransactionsCalls)
}

func TestAssign(t *testing.T) {
	st := &store.MockStore{Transactions: history(), Mapping: models.Mapping{}}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	changed, err := p.Assign(context.Background(), "Cafe X", " Coffee ")

	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Equal(t, "Coffee", st.Mapping["Cafe X"])
	assert.Equal(t, "Coffee", st.Transactions[1].Category)

	_, err = p.Assign(context.Background(), "Cafe X", "null")
	assert.Error(t, err)
}

func TestAssign_LearnsRuleWithoutMatches(t *testing.T) {
	st := &store.MockStore{Transactions: history()}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	changed, err := p.Assign(context.Background(), "New Shop", "Misc")

	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, "Misc", st.Mapping["New Shop"])
	assert.Zero(t, st.SaveTransactionsCalls)
}

func TestClean(t *testing.T) {
	st := &store.MockStore{Transactions: history()}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	changed, err := p.Clean(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Empty(t, st.Transactions[1].Category)
	assert.Empty(t, st.Transactions[3].Category)
	assert.Equal(t, "Food", st.Transactions[2].Category)
}

func TestDelete(t *testing.T) {
	st := &store.MockStore{Transactions: history()}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	removed, err := p.Delete(context.Background(), []int{0, 2, 2})

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	require.Len(t, st.Transactions, 2)
	assert.Equal(t, "2024-01-02", st.Transactions[0].Date)
	assert.Equal(t, "2024-01-04", st.Transactions[1].Date)

	_, err = p.Delete(context.Background(), []int{5})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReset(t *testing.T) {
	st := &store.MockStore{Transactions: history(), Mapping: models.Mapping{"A": "1"}}
	p, _ := newTestPipeline(st, categorizer.StrategyMapping)

	require.NoError(t, p.Reset(context.Background()))
	assert.Empty(t, st.Transactions)
	assert.Equal(t, "1", st.Mapping["A"])
}

func TestSortedPositions(t *testing.T) {
	assert.Equal(t, []int{1, 3, 7}, SortedPositions([]int{7, 1, 3, 1}))
	assert.Empty(t, SortedPositions(nil))
}
