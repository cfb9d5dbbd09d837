// Package list handles printing stored transactions
package list

import (
	"fmt"
	"sort"
	"strings"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/models"

	"github.com/spf13/cobra"
)

// Sort keys accepted by --sort.
const (
	SortDate     = "date"
	SortAmount   = "amount"
	SortBusiness = "business"
	SortCategory = "category"
)

// Filter selects the transactions to print. Empty fields match everything.
type Filter struct {
	Category string
	Month    string
	Business string
	Sort     string
	Limit    int
}

var filter Filter

// Cmd represents the list command
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transactions",
	Long: `List stored transactions, newest first by default. The index column is the
position expected by the delete command.

Example:
  expense-tracker list --month 03/2024 --sort amount`,
	Args: cobra.NoArgs,
	RunE: listFunc,
}

func init() {
	Cmd.Flags().StringVarP(&filter.Category, "category", "c", "", "Only show this category (\"none\" for uncategorized)")
	Cmd.Flags().StringVarP(&filter.Month, "month", "m", "", "Only show this month (MM/YYYY)")
	Cmd.Flags().StringVarP(&filter.Business, "business", "b", "", "Only show businesses containing this text")
	Cmd.Flags().StringVarP(&filter.Sort, "sort", "s", SortDate, "Sort by date, amount, business or category (descending)")
	Cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 0, "Show at most this many transactions")
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if !validSort(filter.Sort) {
		return fmt.Errorf("invalid sort key: %s", filter.Sort)
	}

	records, err := c.GetStore().LoadTransactions(common.Context(cmd))
	if err != nil {
		return fmt.Errorf("error loading transactions: %w", err)
	}

	rows := Apply(common.Index(records), filter)
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No transactions")
		return nil
	}
	if err := common.PrintTransactions(cmd.OutOrStdout(), rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d transactions, total %s\n", len(rows), total(rows))
	return nil
}

func validSort(key string) bool {
	switch key {
	case SortDate, SortAmount, SortBusiness, SortCategory:
		return true
	}
	return false
}

// Apply filters and sorts rows. Ties keep their stored order.
func Apply(rows []common.IndexedTransaction, f Filter) []common.IndexedTransaction {
	business := strings.ToLower(strings.TrimSpace(f.Business))
	month := strings.TrimSpace(f.Month)

	var out []common.IndexedTransaction
	for _, r := range rows {
		if !matchesCategory(r.Transaction, f.Category) {
			continue
		}
		if month != "" && r.Month != month {
			continue
		}
		if business != "" && !strings.Contains(strings.ToLower(r.Business), business) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case SortAmount:
			return a.Amount.GreaterThan(b.Amount)
		case SortBusiness:
			return a.Business > b.Business
		case SortCategory:
			return a.Category > b.Category
		default:
			return a.Date > b.Date
		}
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func matchesCategory(tx models.Transaction, category string) bool {
	category = strings.TrimSpace(category)
	switch {
	case category == "":
		return true
	case models.IsEmptyCategory(category):
		return tx.IsUncategorized()
	default:
		return strings.TrimSpace(tx.Category) == category
	}
}

func total(rows []common.IndexedTransaction) string {
	records := make([]models.Transaction, len(rows))
	for i, r := range rows {
		records[i] = r.Transaction
	}
	return models.SumAmounts(records).StringFixed(2)
}
