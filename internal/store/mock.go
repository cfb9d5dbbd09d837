package store

import (
	"context"

	"hometab/expense-tracker/internal/models"
)

// MockStore is a Store for tests. The error fields make the matching
// operation fail; the counters record how often each save was attempted.
type MockStore struct {
	Transactions []models.Transaction
	Categories   []string
	Mapping      models.Mapping

	LoadTransactionsError error
	SaveTransactionsError error
	LoadCategoriesError   error
	SaveCategoriesError   error
	LoadMappingError      error
	SaveMappingError      error

	SaveTransactionsCalls int
	SaveCategoriesCalls   int
	SaveMappingCalls      int
}

func (m *MockStore) BackendName() string { return "mock" }

func (m *MockStore) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	if m.LoadTransactionsError != nil {
		return nil, m.LoadTransactionsError
	}
	return cloneTransactions(m.Transactions), nil
}

func (m *MockStore) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	m.SaveTransactionsCalls++
	if m.SaveTransactionsError != nil {
		return m.SaveTransactionsError
	}
	m.Transactions = cloneTransactions(records)
	return nil
}

func (m *MockStore) LoadCategories(ctx context.Context) ([]string, error) {
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	return append([]string{}, m.Categories...), nil
}

func (m *MockStore) SaveCategories(ctx context.Context, categories []string) error {
	m.SaveCategoriesCalls++
	if m.SaveCategoriesError != nil {
		return m.SaveCategoriesError
	}
	m.Categories = append([]string{}, categories...)
	return nil
}

func (m *MockStore) LoadMapping(ctx context.Context) (models.Mapping, error) {
	if m.LoadMappingError != nil {
		return nil, m.LoadMappingError
	}
	return m.Mapping.Clone(), nil
}

func (m *MockStore) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	m.SaveMappingCalls++
	if m.SaveMappingError != nil {
		return m.SaveMappingError
	}
	m.Mapping = mapping.Clone()
	return nil
}
