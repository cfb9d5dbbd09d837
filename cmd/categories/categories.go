// Package categories handles editing of the category set
package categories

import (
	"context"
	"fmt"
	"strings"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List and edit the expense categories",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the categories",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var addCmd = &cobra.Command{
	Use:   "add <category>...",
	Short: "Add categories",
	Args:  cobra.MinimumNArgs(1),
	RunE:  addFunc,
}

var removeCmd = &cobra.Command{
	Use:   "remove <category>...",
	Short: "Remove categories",
	Long: `Remove categories from the category set. Transactions and mapping rules
that use them are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: removeFunc,
}

func init() {
	Cmd.AddCommand(listCmd, addCmd, removeCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	categories, err := load(common.Context(cmd), c.GetStore())
	if err != nil {
		return err
	}
	for _, category := range categories {
		fmt.Fprintln(cmd.OutOrStdout(), category)
	}
	return nil
}

func addFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)
	current, err := load(ctx, c.GetStore())
	if err != nil {
		return err
	}

	updated := models.NormalizeCategories(append(current, args...))
	added := len(updated) - len(current)
	if added == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No new categories")
		return nil
	}
	if err := c.GetStore().SaveCategories(ctx, updated); err != nil {
		return fmt.Errorf("error saving categories: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d categories\n", added)
	return nil
}

func removeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)
	current, err := load(ctx, c.GetStore())
	if err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(args))
	for _, a := range args {
		a = strings.TrimSpace(a)
		if !models.ContainsCategory(current, a) {
			return fmt.Errorf("category %q: %w", a, store.ErrNotFound)
		}
		drop[a] = struct{}{}
	}

	kept := make([]string, 0, len(current))
	for _, category := range current {
		if _, ok := drop[category]; !ok {
			kept = append(kept, category)
		}
	}
	if err := c.GetStore().SaveCategories(ctx, kept); err != nil {
		return fmt.Errorf("error saving categories: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d categories\n", len(current)-len(kept))
	return nil
}

// load returns the stored categories in their canonical form.
func load(ctx context.Context, st store.Store) ([]string, error) {
	categories, err := st.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading categories: %w", err)
	}
	return models.NormalizeCategories(categories), nil
}
