// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"hometab/expense-tracker/internal/models"

	"github.com/spf13/cobra"
)

// Context returns the command context, or a background context when the
// command is run outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// IndexedTransaction is a stored record together with its position in the
// stored history, the index the delete command takes.
type IndexedTransaction struct {
	Index int
	models.Transaction
}

// Index pairs every record with its position.
func Index(records []models.Transaction) []IndexedTransaction {
	out := make([]IndexedTransaction, len(records))
	for i, tx := range records {
		out[i] = IndexedTransaction{Index: i, Transaction: tx}
	}
	return out
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(tx models.Transaction) string {
	return tx.Amount.StringFixed(2)
}

// PrintTransactions writes rows as an aligned table.
func PrintTransactions(w io.Writer, rows []IndexedTransaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMONTH\tDATE\tBUSINESS\tAMOUNT\tCATEGORY\tNOTES")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Index, r.Month, r.Date, r.Business, FormatAmount(r.Transaction), r.Category, r.Notes)
	}
	return tw.Flush()
}
