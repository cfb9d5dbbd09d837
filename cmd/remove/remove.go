// Package remove handles deleting stored transactions by index
package remove

import (
	"fmt"
	"strconv"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/pipeline"

	"github.com/spf13/cobra"
)

// Cmd represents the delete command
var Cmd = &cobra.Command{
	Use:   "delete <index>...",
	Short: "Delete stored transactions",
	Long: `Delete stored transactions by the index shown in the first column of the
list command. Nothing is deleted if any index does not exist.`,
	Args: cobra.MinimumNArgs(1),
	RunE: deleteFunc,
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	positions := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid index %q", a)
		}
		positions = append(positions, n)
	}

	deleted, err := c.GetPipeline().Delete(common.Context(cmd), pipeline.SortedPositions(positions))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d transactions\n", deleted)
	return nil
}
