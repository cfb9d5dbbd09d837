// Package clean handles removing placeholder categories
package clean

import (
	"fmt"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the clean command
var Cmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear placeholder categories such as nan or none",
	Long: `Clear categories that only spell out a missing value ("nan", "none",
"null") left behind by spreadsheet round trips, so those transactions show up
as uncategorized again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		n, err := c.GetPipeline().Clean(common.Context(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d transactions\n", n)
		return nil
	},
}
