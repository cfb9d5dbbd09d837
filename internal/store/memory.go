package store

import (
	"context"
	"sync"

	"hometab/expense-tracker/internal/models"
)

// Memory is an in-process store. It copies data in and out so callers can
// never alias its contents.
type Memory struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	categories   []string
	mapping      models.Mapping
}

// NewMemory creates an empty Memory store seeded with the default categories.
func NewMemory() *Memory {
	return &Memory{
		categories: models.DefaultCategoriesCopy(),
		mapping:    models.Mapping{},
	}
}

func (m *Memory) BackendName() string { return "memory" }

func (m *Memory) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTransactions(m.transactions), nil
}

func (m *Memory) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = cloneTransactions(records)
	return nil
}

func (m *Memory) LoadCategories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.categories...), nil
}

func (m *Memory) SaveCategories(ctx context.Context, categories []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append([]string{}, categories...)
	return nil
}

func (m *Memory) LoadMapping(ctx context.Context) (models.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mapping.Clone(), nil
}

func (m *Memory) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mapping = mapping.Clone()
	return nil
}

func cloneTransactions(records []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(records))
	copy(out, records)
	return out
}
