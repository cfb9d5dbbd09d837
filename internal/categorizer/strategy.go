package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hometab/expense-tracker/internal/models"
)

// Strategy is one way of guessing a category for a transaction.
type Strategy interface {
	// Categorize returns the category for tx and whether one was found.
	Categorize(ctx context.Context, tx models.Transaction) (string, bool, error)

	// Name identifies the strategy in logs and stats.
	Name() string
}

// Strategy names accepted in configuration.
const (
	StrategyMapping = "mapping"
	StrategyHistory = "history"
)

// ErrUnknownStrategy is returned for strategy names other than mapping and
// history.
var ErrUnknownStrategy = errors.New("unknown categorization strategy")

// ParseStrategyName returns the canonical strategy name for a configured
// value. Case and surrounding spaces are ignored.
func ParseStrategyName(name string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(name)); v {
	case StrategyMapping, StrategyHistory:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q (must be '%s' or '%s')", ErrUnknownStrategy, name, StrategyMapping, StrategyHistory)
	}
}
