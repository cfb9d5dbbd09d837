// Package assign handles manual categorization of a business
package assign

import (
	"fmt"
	"strings"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"

	"github.com/spf13/cobra"
)

var (
	business string
	category string
)

// Cmd represents the assign command
var Cmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a category to every uncategorized transaction of a business",
	Long: `Assign a category to every uncategorized transaction of a business and
remember the rule, so future uploads of the same business are categorized
automatically.

Example:
  expense-tracker assign --business "Cafe X" --category "קפה ואוכל בחוץ"`,
	Args: cobra.NoArgs,
	RunE: assignFunc,
}

func init() {
	Cmd.Flags().StringVarP(&business, "business", "b", "", "Business name, as shown by the categorize command")
	Cmd.Flags().StringVarP(&category, "category", "c", "", "Category to assign")
	_ = Cmd.MarkFlagRequired("business")
	_ = Cmd.MarkFlagRequired("category")
}

func assignFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if strings.TrimSpace(business) == "" {
		return fmt.Errorf("business must not be empty")
	}
	ctx := common.Context(cmd)
	out := cmd.OutOrStdout()

	categories, err := c.GetStore().LoadCategories(ctx)
	if err != nil {
		c.GetLogger().WithError(err).Warn("Failed to load categories")
	} else if !models.ContainsCategory(categories, category) {
		c.GetLogger().Warn("Category is not in the category list",
			logging.F(logging.FieldCategory, category))
		fmt.Fprintf(out, "Warning: %q is not a known category, add it with \"categories add\"\n", strings.TrimSpace(category))
	}

	changed, err := c.GetPipeline().Assign(ctx, business, category)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Assigned %q to %d transactions of %q\n", strings.TrimSpace(category), changed, strings.TrimSpace(business))
	return nil
}
