package list

import (
	"testing"

	"hometab/expense-tracker/cmd/cmdtest"
	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []common.IndexedTransaction {
	return common.Index([]models.Transaction{
		cmdtest.Tx("2024-03-01", "Cafe X", "45.50", "קפה ואוכל בחוץ"),
		cmdtest.Tx("2024-03-05", "GROCER TLV", "120", "מזון וקניות בית"),
		cmdtest.Tx("2024-02-20", "Fuel", "200", ""),
		cmdtest.Tx("2024-03-03", "Cafe Y", "12", "nan"),
	})
}

func businesses(rows []common.IndexedTransaction) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Business
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "default sort is newest first",
			filter: Filter{Sort: SortDate},
			want:   []string{"GROCER TLV", "Cafe Y", "Cafe X", "Fuel"},
		},
		{
			name:   "by amount",
			filter: Filter{Sort: SortAmount},
			want:   []string{"Fuel", "GROCER TLV", "Cafe X", "Cafe Y"},
		},
		{
			name:   "by business descending",
			filter: Filter{Sort: SortBusiness},
			want:   []string{"GROCER TLV", "Fuel", "Cafe Y", "Cafe X"},
		},
		{
			name:   "month",
			filter: Filter{Month: "02/2024", Sort: SortDate},
			want:   []string{"Fuel"},
		},
		{
			name:   "business substring ignores case",
			filter: Filter{Business: "cafe", Sort: SortDate},
			want:   []string{"Cafe Y", "Cafe X"},
		},
		{
			name:   "category",
			filter: Filter{Category: "מזון וקניות בית", Sort: SortDate},
			want:   []string{"GROCER TLV"},
		},
		{
			name:   "uncategorized",
			filter: Filter{Category: "none", Sort: SortDate},
			want:   []string{"Cafe Y", "Fuel"},
		},
		{
			name:   "limit",
			filter: Filter{Sort: SortAmount, Limit: 2},
			want:   []string{"Fuel", "GROCER TLV"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, businesses(Apply(sample(), tt.filter)))
		})
	}
}

func TestApply_KeepsIndex(t *testing.T) {
	rows := Apply(sample(), Filter{Business: "fuel", Sort: SortDate})
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Index)
}

func TestListCommand(t *testing.T) {
	env := cmdtest.Setup(t)

	out, err := cmdtest.Run(t, Cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions")

	env.Seed(t,
		cmdtest.Tx("2024-03-01", "Cafe X", "45.50", "קפה ואוכל בחוץ"),
		cmdtest.Tx("2024-03-05", "Grocer", "120", ""),
	)
	out, err = cmdtest.Run(t, Cmd, "--sort", "amount")
	require.NoError(t, err)
	assert.Contains(t, out, "BUSINESS")
	assert.Contains(t, out, "2 transactions, total 165.50")

	out, err = cmdtest.Run(t, Cmd, "-b", "grocer")
	require.NoError(t, err)
	assert.Contains(t, out, "1 transactions, total 120.00")
	assert.NotContains(t, out, "Cafe X")

	_, err = cmdtest.Run(t, Cmd, "--sort", "size")
	assert.ErrorContains(t, err, "invalid sort key: size")
}
