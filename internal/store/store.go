// Package store persists transactions, the category set and the learned
// business to category mapping.
//
// All backends share replace-all semantics: every Save call overwrites the
// whole collection. Concrete backends live in sub-packages; FileStore and
// Memory live here.
package store

import (
	"context"
	"errors"

	"hometab/expense-tracker/internal/models"
)

// Store is the storage collaborator of the import pipeline.
type Store interface {
	LoadTransactions(ctx context.Context) ([]models.Transaction, error)
	SaveTransactions(ctx context.Context, records []models.Transaction) error

	LoadCategories(ctx context.Context) ([]string, error)
	SaveCategories(ctx context.Context, categories []string) error

	LoadMapping(ctx context.Context) (models.Mapping, error)
	SaveMapping(ctx context.Context, mapping models.Mapping) error
}

// Named is implemented by stores that can report a backend name for logs.
type Named interface {
	BackendName() string
}

var (
	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("store is closed")

	// ErrNotFound is returned when a record or rule addressed by the caller
	// does not exist.
	ErrNotFound = errors.New("not found")
)

// NameOf returns the backend name of s, or "unknown".
func NameOf(s Store) string {
	if n, ok := s.(Named); ok {
		return n.BackendName()
	}
	return "unknown"
}
