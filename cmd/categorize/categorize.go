// Package categorize handles re-categorization of stored transactions
package categorize

import (
	"fmt"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/categorizer"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize stored transactions that have no category",
	Long: `Apply the configured categorization strategy (the learned mapping, or the
categories already used for the same business) to every stored transaction that
has no category, then list the businesses still left without one.`,
	Args: cobra.NoArgs,
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)
	out := cmd.OutOrStdout()

	stats, err := c.GetPipeline().Recategorize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Categorized %d of %d uncategorized transactions (%s)\n", stats.Assigned, stats.Eligible, c.GetPipeline().Strategy())

	records, err := c.GetStore().LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("error loading transactions: %w", err)
	}
	remaining := categorizer.Uncategorized(records)
	if len(remaining) == 0 {
		fmt.Fprintln(out, "All transactions are categorized")
		return nil
	}
	fmt.Fprintf(out, "%d businesses still have uncategorized transactions:\n", len(remaining))
	for _, b := range remaining {
		fmt.Fprintf(out, "  %s\n", b)
	}
	return nil
}
