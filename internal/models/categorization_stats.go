package models

import (
	"hometab/expense-tracker/internal/logging"
)

// CategorizationStats counts what a categorization pass did.
type CategorizationStats struct {
	Total         int // records seen
	Eligible      int // records that had no category
	Assigned      int // eligible records that received one
	Uncategorized int // eligible records still without a category
	Failed        int // strategy errors
}

// LogSummary logs the counters under the given strategy name.
func (cs CategorizationStats) LogSummary(logger logging.Logger, strategy string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldStrategy, Value: strategy},
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "eligible", Value: cs.Eligible},
		logging.Field{Key: "assigned", Value: cs.Assigned},
		logging.Field{Key: "uncategorized", Value: cs.Uncategorized},
		logging.Field{Key: "failed", Value: cs.Failed},
		logging.Field{Key: "success_rate", Value: cs.SuccessRate()},
	)
}

// SuccessRate is the share of eligible records that were assigned, in percent.
func (cs CategorizationStats) SuccessRate() float64 {
	if cs.Eligible == 0 {
		return 0.0
	}
	return float64(cs.Assigned) / float64(cs.Eligible) * 100.0
}
