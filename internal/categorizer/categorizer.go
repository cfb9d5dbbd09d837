// Package categorizer fills in missing transaction categories.
//
// A Categorizer runs an ordered list of strategies over a batch of records.
// Only records without a category are touched, and the first strategy that
// finds a category wins. The input slice is never modified.
package categorizer

import (
	"context"
	"fmt"
	"strings"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
)

// Categorizer applies strategies to batches of transactions.
type Categorizer struct {
	logger logging.Logger
}

// NewCategorizer creates a Categorizer.
func NewCategorizer(logger logging.Logger) *Categorizer {
	return &Categorizer{logger: logging.OrDefault(logger)}
}

// Apply returns a copy of records where every uncategorized record has been
// given the first category found by strategies. Records that already carry a
// category are returned unchanged. A strategy error is logged and counted,
// and the next strategy is tried. Apply only fails when ctx is done.
func (c *Categorizer) Apply(ctx context.Context, records []models.Transaction, strategies ...Strategy) ([]models.Transaction, models.CategorizationStats, error) {
	out := make([]models.Transaction, len(records))
	copy(out, records)

	stats := models.CategorizationStats{Total: len(out)}
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("categorization interrupted: %w", err)
		}
		if !out[i].IsUncategorized() {
			continue
		}
		stats.Eligible++

		category, found := c.categorize(ctx, out[i], strategies, &stats)
		if !found {
			stats.Uncategorized++
			continue
		}
		out[i].Category = category
		stats.Assigned++
	}

	stats.LogSummary(c.logger, strategyNames(strategies))
	return out, stats, nil
}

func (c *Categorizer) categorize(ctx context.Context, tx models.Transaction, strategies []Strategy, stats *models.CategorizationStats) (string, bool) {
	for _, s := range strategies {
		category, found, err := s.Categorize(ctx, tx)
		if err != nil {
			stats.Failed++
			c.logger.WithError(err).Warn("Categorization strategy failed",
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F(logging.FieldBusiness, tx.Business))
			continue
		}
		if found && !models.IsEmptyCategory(category) {
			return category, true
		}
	}
	return "", false
}

// Assign sets category on every uncategorized record of business and records
// the rule in mapping. It returns the updated copy of records and how many
// records changed.
func Assign(records []models.Transaction, mapping models.Mapping, business, category string) ([]models.Transaction, int) {
	out := make([]models.Transaction, len(records))
	copy(out, records)
	if models.IsEmptyCategory(category) {
		return out, 0
	}
	category = strings.TrimSpace(category)

	mapping.Learn(business, category)
	business = strings.TrimSpace(business)

	changed := 0
	for i := range out {
		if out[i].IsUncategorized() && strings.TrimSpace(out[i].Business) == business {
			out[i].Category = category
			changed++
		}
	}
	return out, changed
}

// Uncategorized lists the distinct business names that still have
// uncategorized records, in first-seen order.
func Uncategorized(records []models.Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range records {
		if !tx.IsUncategorized() {
			continue
		}
		b := strings.TrimSpace(tx.Business)
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

func strategyNames(strategies []Strategy) string {
	switch len(strategies) {
	case 0:
		return "none"
	case 1:
		return strategies[0].Name()
	}
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	return strings.Join(names, ",")
}
