package store

import (
	"context"
	"fmt"
)

// CopyResult counts what Copy transferred.
type CopyResult struct {
	Transactions int
	Categories   int
	Rules        int
}

// Copy replaces every collection of dst with the contents of src.
func Copy(ctx context.Context, src, dst Store) (CopyResult, error) {
	var res CopyResult

	records, err := src.LoadTransactions(ctx)
	if err != nil {
		return res, fmt.Errorf("error loading transactions: %w", err)
	}
	if err := dst.SaveTransactions(ctx, records); err != nil {
		return res, fmt.Errorf("error saving transactions: %w", err)
	}
	res.Transactions = len(records)

	categories, err := src.LoadCategories(ctx)
	if err != nil {
		return res, fmt.Errorf("error loading categories: %w", err)
	}
	if err := dst.SaveCategories(ctx, categories); err != nil {
		return res, fmt.Errorf("error saving categories: %w", err)
	}
	res.Categories = len(categories)

	mapping, err := src.LoadMapping(ctx)
	if err != nil {
		return res, fmt.Errorf("error loading mapping: %w", err)
	}
	if err := dst.SaveMapping(ctx, mapping); err != nil {
		return res, fmt.Errorf("error saving mapping: %w", err)
	}
	res.Rules = len(mapping)
	return res, nil
}
