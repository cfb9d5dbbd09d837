package categorizer

import (
	"context"
	"strings"
	"sync"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
)

// MappingStrategy categorizes by exact lookup of the trimmed business name in
// a learned mapping.
type MappingStrategy struct {
	mapping models.Mapping
	logger  logging.Logger
	mu      sync.RWMutex
}

// NewMappingStrategy creates a strategy over a private copy of mapping.
func NewMappingStrategy(mapping models.Mapping, logger logging.Logger) *MappingStrategy {
	return &MappingStrategy{
		mapping: mapping.Clone(),
		logger:  logging.OrDefault(logger),
	}
}

// LoadMappingStrategy builds the strategy from the stored mapping. A load
// failure is logged and yields an empty mapping.
func LoadMappingStrategy(ctx context.Context, store MappingStore, logger logging.Logger) *MappingStrategy {
	logger = logging.OrDefault(logger)
	mapping, err := store.LoadMapping(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to load mapping, categorizing without it")
		mapping = models.Mapping{}
	}
	return NewMappingStrategy(mapping, logger)
}

func (s *MappingStrategy) Name() string {
	return StrategyMapping
}

func (s *MappingStrategy) Categorize(ctx context.Context, tx models.Transaction) (string, bool, error) {
	business := strings.TrimSpace(tx.Business)
	if business == "" {
		return "", false, nil
	}

	s.mu.RLock()
	category, found := s.mapping[business]
	s.mu.RUnlock()

	if !found || category == "" {
		return "", false, nil
	}

	s.logger.Debug("Transaction categorized using mapping",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F(logging.FieldBusiness, business),
		logging.F(logging.FieldCategory, category))
	return category, true, nil
}

// Learn adds or replaces a rule. It reports whether the mapping changed.
func (s *MappingStrategy) Learn(business, category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapping.Learn(business, category)
}

// Mapping returns a copy of the current rules.
func (s *MappingStrategy) Mapping() models.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapping.Clone()
}
