package store

import (
	"context"
	"errors"
	"time"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
)

// RetryPolicy bounds how often a failed storage call is repeated. The wait
// before attempt n (counting from 1) is n-1 times Backoff.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Retrying wraps a Store and retries failed calls with linear backoff.
// Context cancellation is never retried.
type Retrying struct {
	inner  Store
	policy RetryPolicy
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps inner. Attempts below one are treated as one.
func NewRetrying(inner Store, policy RetryPolicy, logger logging.Logger) *Retrying {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Retrying{
		inner:  inner,
		policy: policy,
		logger: logging.OrDefault(logger),
		sleep:  sleepContext,
	}
}

func (r *Retrying) BackendName() string { return NameOf(r.inner) }

func (r *Retrying) do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		if attempt > 1 {
			if serr := r.sleep(ctx, time.Duration(attempt-1)*r.policy.Backoff); serr != nil {
				return serr
			}
		}
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		r.logger.WithError(err).Warn("Storage call failed",
			logging.F(logging.FieldBackend, r.BackendName()),
			logging.F(logging.FieldOperation, op),
			logging.F(logging.FieldAttempt, attempt))
	}
	return err
}

func (r *Retrying) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.do(ctx, "load transactions", func() (err error) {
		out, err = r.inner.LoadTransactions(ctx)
		return err
	})
	return out, err
}

func (r *Retrying) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	return r.do(ctx, "save transactions", func() error {
		return r.inner.SaveTransactions(ctx, records)
	})
}

func (r *Retrying) LoadCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.do(ctx, "load categories", func() (err error) {
		out, err = r.inner.LoadCategories(ctx)
		return err
	})
	return out, err
}

func (r *Retrying) SaveCategories(ctx context.Context, categories []string) error {
	return r.do(ctx, "save categories", func() error {
		return r.inner.SaveCategories(ctx, categories)
	})
}

func (r *Retrying) LoadMapping(ctx context.Context) (models.Mapping, error) {
	var out models.Mapping
	err := r.do(ctx, "load mapping", func() (err error) {
		out, err = r.inner.LoadMapping(ctx)
		return err
	})
	return out, err
}

func (r *Retrying) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	return r.do(ctx, "save mapping", func() error {
		return r.inner.SaveMapping(ctx, mapping)
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
