package categorizer

import (
	"context"

	"hometab/expense-tracker/internal/models"
)

// MappingStore loads and saves the learned business to category mapping.
type MappingStore interface {
	LoadMapping(ctx context.Context) (models.Mapping, error)
	SaveMapping(ctx context.Context, mapping models.Mapping) error
}
