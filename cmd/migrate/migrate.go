// Package migrate handles copying local data into the configured backend
package migrate

import (
	"fmt"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/store"

	"github.com/spf13/cobra"
)

// SourceFile is the only supported migration source.
const SourceFile = "file"

var from string

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the local files into the configured storage backend",
	Long: `Copy transactions, categories and mapping from the local expense files into
the configured storage backend, replacing what the backend holds.

Example:
  expense-tracker migrate --from file --backend sqlite`,
	Args: cobra.NoArgs,
	RunE: migrateFunc,
}

func init() {
	Cmd.Flags().StringVar(&from, "from", SourceFile, "Source of the data (file)")
}

func migrateFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if from != SourceFile {
		return fmt.Errorf("unsupported migration source: %s", from)
	}

	dst := c.GetStore()
	if store.NameOf(dst) == store.NameOf(c.GetFileStore()) {
		return fmt.Errorf("the configured backend is already the local file store")
	}

	res, err := store.Copy(common.Context(cmd), c.GetFileStore(), dst)
	if err != nil {
		return err
	}
	c.GetLogger().Info("Migration completed",
		logging.F(logging.FieldBackend, store.NameOf(dst)),
		logging.F(logging.FieldCount, res.Transactions))
	fmt.Fprintf(cmd.OutOrStdout(), "Copied %d transactions, %d categories and %d mapping rules to %s\n",
		res.Transactions, res.Categories, res.Rules, store.NameOf(dst))
	return nil
}
