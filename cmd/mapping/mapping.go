// Package mapping handles editing of the business to category mapping
package mapping

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/fileutils"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/store"

	"github.com/spf13/cobra"
)

var indexSheet string

// Cmd represents the mapping command
var Cmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect and edit the business to category mapping",
	Long: `Inspect and edit the learned business to category mapping used to
categorize uploaded transactions.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every mapping rule",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var setCmd = &cobra.Command{
	Use:   "set <business> <category>",
	Short: "Add or replace a mapping rule",
	Args:  cobra.ExactArgs(2),
	RunE:  setFunc,
}

var removeCmd = &cobra.Command{
	Use:   "remove <business>",
	Short: "Remove a mapping rule",
	Args:  cobra.ExactArgs(1),
	RunE:  removeFunc,
}

var importCmd = &cobra.Command{
	Use:   "import-index <file.xlsx>",
	Short: "Merge rules from an Excel index sheet",
	Long: `Merge mapping rules from an Excel workbook. The business name is read from
column D and the category from column E of the index sheet; the first row is
a header. Existing rules are overwritten by the workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	importCmd.Flags().StringVar(&indexSheet, "sheet", categorizer.DefaultIndexSheet, "Name of the index sheet")
	Cmd.AddCommand(listCmd, setCmd, removeCmd, importCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	mapping, err := loadMapping(common.Context(cmd), c.GetStore())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(mapping) == 0 {
		fmt.Fprintln(out, "No mapping rules")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUSINESS\tCATEGORY")
	for _, b := range mapping.Businesses() {
		fmt.Fprintf(tw, "%s\t%s\n", b, mapping[b])
	}
	return tw.Flush()
}

func setFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" || models.IsEmptyCategory(args[1]) {
		return fmt.Errorf("business and category must not be empty")
	}
	ctx := common.Context(cmd)
	mapping, err := loadMapping(ctx, c.GetStore())
	if err != nil {
		return err
	}

	if !mapping.Learn(args[0], args[1]) {
		fmt.Fprintln(cmd.OutOrStdout(), "Mapping unchanged")
		return nil
	}
	if err := c.GetStore().SaveMapping(ctx, mapping); err != nil {
		return fmt.Errorf("error saving mapping: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
	return nil
}

func removeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)
	mapping, err := loadMapping(ctx, c.GetStore())
	if err != nil {
		return err
	}

	business := strings.TrimSpace(args[0])
	if _, ok := mapping[business]; !ok {
		return fmt.Errorf("mapping for %q: %w", business, store.ErrNotFound)
	}
	delete(mapping, business)
	if err := c.GetStore().SaveMapping(ctx, mapping); err != nil {
		return fmt.Errorf("error saving mapping: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed mapping for %s\n", business)
	return nil
}

func importFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)

	f, err := fileutils.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	index, err := categorizer.ReadIndex(f, indexSheet)
	if err != nil {
		return err
	}

	mapping, err := loadMapping(ctx, c.GetStore())
	if err != nil {
		return err
	}
	res := mapping.Merge(index)
	if res.Added+res.Updated > 0 {
		if err := c.GetStore().SaveMapping(ctx, mapping); err != nil {
			return fmt.Errorf("error saving mapping: %w", err)
		}
	}

	c.GetLogger().Info("Mapping index imported",
		logging.F(logging.FieldFile, args[0]),
		logging.F(logging.FieldCount, len(index)))
	fmt.Fprintf(cmd.OutOrStdout(), "Read %d rules: %d added, %d updated\n", len(index), res.Added, res.Updated)
	return nil
}

func loadMapping(ctx context.Context, st store.Store) (models.Mapping, error) {
	mapping, err := st.LoadMapping(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading mapping: %w", err)
	}
	if mapping == nil {
		mapping = models.Mapping{}
	}
	return mapping, nil
}
