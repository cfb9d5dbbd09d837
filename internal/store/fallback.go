package store

import (
	"context"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
)

// Fallback reads from a primary store and falls back to a local one when the
// primary cannot be read. Saves go to the primary; when that fails a copy is
// kept in the local store and the primary error is still returned.
type Fallback struct {
	primary Store
	local   Store
	logger  logging.Logger
}

// NewFallback creates a Fallback over primary and local.
func NewFallback(primary, local Store, logger logging.Logger) *Fallback {
	return &Fallback{primary: primary, local: local, logger: logging.OrDefault(logger)}
}

func (f *Fallback) BackendName() string { return NameOf(f.primary) }

func (f *Fallback) warn(err error, op string) {
	f.logger.WithError(err).Warn("Primary storage unavailable, using local copy",
		logging.F(logging.FieldBackend, NameOf(f.primary)),
		logging.F(logging.FieldOperation, op))
}

func (f *Fallback) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	out, err := f.primary.LoadTransactions(ctx)
	if err == nil {
		return out, nil
	}
	f.warn(err, "load transactions")
	return f.local.LoadTransactions(ctx)
}

func (f *Fallback) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	err := f.primary.SaveTransactions(ctx, records)
	if err != nil {
		f.warn(err, "save transactions")
		if lerr := f.local.SaveTransactions(ctx, records); lerr != nil {
			f.logger.WithError(lerr).Error("Local copy could not be saved either")
		}
	}
	return err
}

func (f *Fallback) LoadCategories(ctx context.Context) ([]string, error) {
	out, err := f.primary.LoadCategories(ctx)
	if err == nil {
		return out, nil
	}
	f.warn(err, "load categories")
	return f.local.LoadCategories(ctx)
}

func (f *Fallback) SaveCategories(ctx context.Context, categories []string) error {
	err := f.primary.SaveCategories(ctx, categories)
	if err != nil {
		f.warn(err, "save categories")
		if lerr := f.local.SaveCategories(ctx, categories); lerr != nil {
			f.logger.WithError(lerr).Error("Local copy could not be saved either")
		}
	}
	return err
}

func (f *Fallback) LoadMapping(ctx context.Context) (models.Mapping, error) {
	out, err := f.primary.LoadMapping(ctx)
	if err == nil {
		return out, nil
	}
	f.warn(err, "load mapping")
	return f.local.LoadMapping(ctx)
}

func (f *Fallback) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	err := f.primary.SaveMapping(ctx, mapping)
	if err != nil {
		f.warn(err, "save mapping")
		if lerr := f.local.SaveMapping(ctx, mapping); lerr != nil {
			f.logger.WithError(lerr).Error("Local copy could not be saved either")
		}
	}
	return err
}
