package pipeline

import (
	"context"
	"fmt"
	"sort"

	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/store"
)

// The operations below edit the stored history directly. Unlike Import they
// fail when the history cannot be loaded, since saving afterwards would
// replace the stored records with an empty set.

// Recategorize applies the configured strategy to every stored record that
// has no category and saves the result when anything changed.
func (p *Pipeline) Recategorize(ctx context.Context) (models.CategorizationStats, error) {
	records, err := p.store.LoadTransactions(ctx)
	if err != nil {
		return models.CategorizationStats{}, fmt.Errorf("error loading transactions: %w", err)
	}

	out, stats, err := p.categorizer.Apply(ctx, records, p.strategies(ctx, records)...)
	if err != nil {
		return stats, err
	}
	if stats.Assigned == 0 {
		return stats, nil
	}
	if err := p.store.SaveTransactions(ctx, out); err != nil {
		return stats, fmt.Errorf("error saving transactions: %w", err)
	}
	return stats, nil
}

// Assign gives category to every uncategorized record of business and learns
// the rule. It returns how many records changed.
func (p *Pipeline) Assign(ctx context.Context, business, category string) (int, error) {
	if models.IsEmptyCategory(category) {
		return 0, fmt.Errorf("category must not be empty")
	}

	records, err := p.store.LoadTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading transactions: %w", err)
	}
	mapping, err := p.store.LoadMapping(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to load mapping, starting a new one")
		mapping = models.Mapping{}
	}

	out, changed := categorizer.Assign(records, mapping, business, category)

	if err := p.store.SaveMapping(ctx, mapping); err != nil {
		return 0, fmt.Errorf("error saving mapping: %w", err)
	}
	if changed > 0 {
		if err := p.store.SaveTransactions(ctx, out); err != nil {
			return 0, fmt.Errorf("error saving transactions: %w", err)
		}
	}
	p.logger.Info("Category assigned",
		logging.F(logging.FieldBusiness, business),
		logging.F(logging.FieldCategory, category),
		logging.F(logging.FieldCount, changed))
	return changed, nil
}

// Clean resets categories that only spell out a missing value ("nan",
// "none", "null") to empty. It returns how many records changed.
func (p *Pipeline) Clean(ctx context.Context) (int, error) {
	records, err := p.store.LoadTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading transactions: %w", err)
	}

	changed := 0
	for i := range records {
		if records[i].Category != "" && models.IsEmptyCategory(records[i].Category) {
			records[i].Category = ""
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := p.store.SaveTransactions(ctx, records); err != nil {
		return 0, fmt.Errorf("error saving transactions: %w", err)
	}
	return changed, nil
}

// Delete removes the records at the given positions of the stored history.
// Any position out of range fails the whole call with store.ErrNotFound.
func (p *Pipeline) Delete(ctx context.Context, positions []int) (int, error) {
	records, err := p.store.LoadTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading transactions: %w", err)
	}

	drop := make(map[int]struct{}, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(records) {
			return 0, fmt.Errorf("record %d: %w", pos, store.ErrNotFound)
		}
		drop[pos] = struct{}{}
	}

	kept := make([]models.Transaction, 0, len(records)-len(drop))
	for i, tx := range records {
		if _, ok := drop[i]; !ok {
			kept = append(kept, tx)
		}
	}
	if err := p.store.SaveTransactions(ctx, kept); err != nil {
		return 0, fmt.Errorf("error saving transactions: %w", err)
	}
	return len(drop), nil
}

// Reset deletes every stored transaction. Categories and mapping are kept.
func (p *Pipeline) Reset(ctx context.Context) error {
	if err := p.store.SaveTransactions(ctx, []models.Transaction{}); err != nil {
		return fmt.Errorf("error saving transactions: %w", err)
	}
	p.logger.Info("All transactions deleted", logging.F(logging.FieldBackend, store.NameOf(p.store)))
	return nil
}

// SortedPositions returns positions in ascending order without duplicates.
func SortedPositions(positions []int) []int {
	seen := make(map[int]struct{}, len(positions))
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
