package categorizer

import (
	"context"
	"sort"
	"strings"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
)

// HistoryStrategy categorizes by the category most recently given to the
// same business in the transaction history.
type HistoryStrategy struct {
	byBusiness map[string]string
	logger     logging.Logger
}

// NewHistoryStrategy indexes history. Records are visited in ascending date
// order with undated records last, so a later record overrides an earlier
// one. Records sharing a date keep their input order. Uncategorized records
// are ignored.
func NewHistoryStrategy(history []models.Transaction, logger logging.Logger) *HistoryStrategy {
	sorted := make([]models.Transaction, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Date, sorted[j].Date
		if di == "" {
			return false
		}
		if dj == "" {
			return true
		}
		return di < dj
	})

	byBusiness := make(map[string]string, len(sorted))
	for _, tx := range sorted {
		business := strings.TrimSpace(tx.Business)
		category := strings.TrimSpace(tx.Category)
		if business == "" || models.IsEmptyCategory(category) {
			continue
		}
		byBusiness[business] = category
	}

	return &HistoryStrategy{
		byBusiness: byBusiness,
		logger:     logging.OrDefault(logger),
	}
}

func (s *HistoryStrategy) Name() string {
	return StrategyHistory
}

func (s *HistoryStrategy) Categorize(ctx context.Context, tx models.Transaction) (string, bool, error) {
	business := strings.TrimSpace(tx.Business)
	category, found := s.byBusiness[business]
	if !found {
		return "", false, nil
	}
	s.logger.Debug("Transaction categorized from history",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F(logging.FieldBusiness, business),
		logging.F(logging.FieldCategory, category))
	return category, true, nil
}
