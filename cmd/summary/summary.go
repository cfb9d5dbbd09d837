// Package summary handles the spending summary command
package summary

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/summary"

	"github.com/spf13/cobra"
)

const uncategorizedLabel = "(uncategorized)"

var (
	year int

	// now is replaced in tests.
	now = time.Now
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show spending figures",
	Long: `Show the latest active month and its total, the spending of the last 12
months with the monthly average and per-category averages, followed by a
per-category summary of every year (or only of --year).`,
	Args: cobra.NoArgs,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().IntVarP(&year, "year", "y", 0, "Only summarize this year")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	records, err := c.GetStore().LoadTransactions(common.Context(cmd))
	if err != nil {
		return fmt.Errorf("error loading transactions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No transactions")
		return nil
	}

	d := summary.Build(records, c.GetConfig().Summary.MinTransactions, now())
	c.GetLogger().Debug("Summary built",
		logging.F(logging.FieldMonth, d.ActiveMonth),
		logging.F(logging.FieldCount, len(records)))
	if err := printDashboard(out, d); err != nil {
		return err
	}

	years := summary.Years(records)
	if year != 0 {
		years = []int{year}
	}
	for _, y := range years {
		fmt.Fprintln(out)
		if err := printYear(out, summary.Yearly(records, y)); err != nil {
			return err
		}
	}
	return nil
}

func label(category string) string {
	if category == "" {
		return uncategorizedLabel
	}
	return category
}

func printDashboard(w io.Writer, d summary.Dashboard) error {
	if d.ActiveMonth != "" {
		fmt.Fprintf(w, "Active month: %s (total %s)\n", d.ActiveMonth, d.ActiveMonthTotal.StringFixed(2))
	}
	fmt.Fprintf(w, "Last %d months: %s (average %s per month)\n",
		summary.TrailingMonths, d.TrailingTotal.StringFixed(2), d.MonthlyAverage.StringFixed(2))
	if d.TopCategory != nil {
		fmt.Fprintf(w, "Top category: %s (%s)\n", label(d.TopCategory.Category), d.TopCategory.Amount.StringFixed(2))
	}
	if len(d.CategoryAverages) == 0 {
		return nil
	}

	fmt.Fprintln(w, "Average transaction by category:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ca := range d.CategoryAverages {
		fmt.Fprintf(tw, "  %s\t%s\n", label(ca.Category), ca.Amount.StringFixed(2))
	}
	return tw.Flush()
}

func printYear(w io.Writer, s summary.YearSummary) error {
	fmt.Fprintf(w, "Year %d\n", s.Year)
	if len(s.Rows) == 0 {
		fmt.Fprintln(w, "  No transactions")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CATEGORY\tTOTAL\tCOUNT\tAVERAGE")
	for _, r := range s.Rows {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n", label(r.Category), r.Total.StringFixed(2), r.Count, r.Average.StringFixed(2))
	}
	fmt.Fprintf(tw, "  TOTAL\t%s\t%d\t%s\n", s.Total.Total.StringFixed(2), s.Total.Count, s.Total.Average.StringFixed(2))
	return tw.Flush()
}
