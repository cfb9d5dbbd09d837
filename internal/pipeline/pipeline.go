// Package pipeline runs an uploaded file through normalization,
// categorization and deduplication, and persists the merged history.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/dedup"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/normalizer"
	"hometab/expense-tracker/internal/store"
)

var (
	// ErrNoRecords is returned when an uploaded file yields no transactions.
	ErrNoRecords = errors.New("could not parse file")

	// ErrHistoryUnavailable is returned when the stored history could not be
	// read. Saving then would replace the history with the new batch alone.
	ErrHistoryUnavailable = errors.New("transaction history unavailable")
)

// Result describes one import run.
type Result struct {
	File          string
	Parsed        int
	Accepted      int
	Duplicates    int
	Uncategorized int
	Stats         models.CategorizationStats

	// Records is the merged history that was (or should have been) saved.
	Records []models.Transaction
}

// Pipeline owns one storage collaborator and the components applied to
// every import.
type Pipeline struct {
	store       store.Store
	normalizer  *normalizer.Normalizer
	categorizer *categorizer.Categorizer
	strategy    string
	logger      logging.Logger
}

// New creates a Pipeline. strategy must name a known categorization strategy.
func New(st store.Store, n *normalizer.Normalizer, c *categorizer.Categorizer, strategy string, logger logging.Logger) (*Pipeline, error) {
	strategy, err := categorizer.ParseStrategyName(strategy)
	if err != nil {
		return nil, err
	}
	logger = logging.OrDefault(logger)
	if c == nil {
		c = categorizer.NewCategorizer(logger)
	}
	return &Pipeline{
		store:       st,
		normalizer:  n,
		categorizer: c,
		strategy:    strategy,
		logger:      logger,
	}, nil
}

// Strategy returns the configured categorization strategy name.
func (p *Pipeline) Strategy() string { return p.strategy }

// Import normalizes the file read from r and merges its new transactions
// into the stored history. name is used to pick the file format.
//
// When saving fails the error is returned together with a Result whose
// Records hold the merged history, so nothing computed is lost.
func (p *Pipeline) Import(ctx context.Context, name string, r io.Reader) (Result, error) {
	candidates, err := p.Normalize(name, r)
	if err != nil {
		return Result{File: name}, err
	}

	res, err := p.Process(ctx, candidates)
	res.File = name
	return res, err
}

// Normalize extracts the candidate transactions of one file without touching
// storage, so several files can be normalized concurrently. A file without
// any recognizable transaction yields ErrNoRecords.
func (p *Pipeline) Normalize(name string, r io.Reader) ([]models.Transaction, error) {
	candidates, err := p.normalizer.NormalizeFile(name, r)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		p.logger.WithField(logging.FieldFile, name).Warn("No transactions found in file")
		return nil, fmt.Errorf("%s: %w", name, ErrNoRecords)
	}
	return candidates, nil
}

// Process categorizes and deduplicates already normalized candidates
// against the stored history and saves the merged result.
//
// When the history cannot be loaded the candidates are still categorized
// and deduplicated against an empty history, but nothing is saved: the
// error wraps ErrHistoryUnavailable and Result.Records holds the batch.
func (p *Pipeline) Process(ctx context.Context, candidates []models.Transaction) (Result, error) {
	history, loadErr := p.loadHistory(ctx)

	categorized, stats, err := p.categorizer.Apply(ctx, candidates, p.strategies(ctx, history)...)
	if err != nil {
		return Result{}, err
	}

	dd := dedup.Deduplicate(history, categorized)
	merged := dedup.Merge(history, dd)

	res := Result{
		Parsed:        len(candidates),
		Accepted:      len(dd.Accepted),
		Duplicates:    dd.Duplicates,
		Uncategorized: countUncategorized(dd.Accepted),
		Stats:         stats,
		Records:       merged,
	}

	p.logger.Info("Import processed",
		logging.F(logging.FieldCount, res.Parsed),
		logging.F(logging.FieldAccepted, res.Accepted),
		logging.F(logging.FieldDuplicates, res.Duplicates))

	if loadErr != nil {
		return res, fmt.Errorf("%w, not saving %d transactions: %w", ErrHistoryUnavailable, res.Accepted, loadErr)
	}
	if res.Accepted == 0 {
		return res, nil
	}
	if err := p.store.SaveTransactions(ctx, merged); err != nil {
		p.logger.WithError(err).Error("Failed to save transactions",
			logging.F(logging.FieldBackend, store.NameOf(p.store)))
		return res, fmt.Errorf("error saving transactions: %w", err)
	}
	return res, nil
}

// loadHistory returns an empty history together with the load error, so
// categorizing and dedup can go on without it.
func (p *Pipeline) loadHistory(ctx context.Context) ([]models.Transaction, error) {
	history, err := p.store.LoadTransactions(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to load transaction history, treating it as empty",
			logging.F(logging.FieldBackend, store.NameOf(p.store)))
		return []models.Transaction{}, err
	}
	return history, nil
}

func (p *Pipeline) strategies(ctx context.Context, history []models.Transaction) []categorizer.Strategy {
	if p.strategy == categorizer.StrategyHistory {
		return []categorizer.Strategy{categorizer.NewHistoryStrategy(history, p.logger)}
	}
	return []categorizer.Strategy{categorizer.LoadMappingStrategy(ctx, p.store, p.logger)}
}

func countUncategorized(records []models.Transaction) int {
	n := 0
	for _, tx := range records {
		if tx.IsUncategorized() {
			n++
		}
	}
	return n
}
