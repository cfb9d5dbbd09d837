// Package reset handles deleting every stored transaction
package reset

import (
	"errors"
	"fmt"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"

	"github.com/spf13/cobra"
)

// ErrNotConfirmed is returned when reset runs without --yes.
var ErrNotConfirmed = errors.New("refusing to delete all transactions without --yes")

var confirmed bool

// Cmd represents the reset command
var Cmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored transaction",
	Long: `Delete every stored transaction. Categories and mapping rules are kept.
The command does nothing unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrNotConfirmed
		}
		if err := c.GetPipeline().Reset(common.Context(cmd)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All transactions deleted")
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deleting all transactions")
}
