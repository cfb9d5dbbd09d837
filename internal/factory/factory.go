// Package factory builds the configured storage backend.
package factory

import (
	"context"
	"fmt"
	"time"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/store"
	"hometab/expense-tracker/internal/store/sheets"
	"hometab/expense-tracker/internal/store/sqlite"
)

// BackendType names a storage backend.
type BackendType string

const (
	File   BackendType = "file"
	SQLite BackendType = "sqlite"
	Sheets BackendType = "sheets"
	Memory BackendType = "memory"
)

// IsValid reports whether t is a known backend.
func (t BackendType) IsValid() bool {
	switch t {
	case File, SQLite, Sheets, Memory:
		return true
	}
	return false
}

// Options carries everything needed to build any backend.
type Options struct {
	Backend BackendType

	ExpensesFile   string
	CategoriesFile string
	MappingFile    string

	SQLitePath string

	Sheets          sheets.Config
	CredentialsJSON string
	CredentialsFile string

	// FallbackToFile reads from the local files when a remote backend fails
	// and keeps a local copy of saves the remote rejected.
	FallbackToFile bool
	Retry          store.RetryPolicy
}

// Result is a built backend and the function releasing its resources.
type Result struct {
	Store store.Store
	Close func() error
}

func noClose() error { return nil }

// NewFileStore builds the local file store for opts.
func NewFileStore(opts Options, logger logging.Logger) *store.FileStore {
	return store.NewFileStore(opts.ExpensesFile, opts.CategoriesFile, opts.MappingFile, logger)
}

// NewStore builds the backend named by opts.Backend. Remote backends are
// wrapped with retries and, if requested, with a local file fallback.
func NewStore(ctx context.Context, opts Options, logger logging.Logger) (*Result, error) {
	logger = logging.OrDefault(logger)
	if !opts.Backend.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", opts.Backend)
	}

	var (
		s      store.Store
		closer = noClose
	)
	switch opts.Backend {
	case File:
		return &Result{Store: NewFileStore(opts, logger), Close: noClose}, nil
	case Memory:
		return &Result{Store: store.NewMemory(), Close: noClose}, nil
	case SQLite:
		db, err := sqlite.Open(opts.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		s, closer = db, db.Close
	case Sheets:
		creds, err := sheets.Credentials(opts.CredentialsJSON, opts.CredentialsFile)
		if err != nil {
			return nil, err
		}
		remote, err := sheets.New(ctx, opts.Sheets, creds, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Sheets store: %w", err)
		}
		s = remote
	}

	return wrapRemote(s, closer, opts, logger), nil
}

func wrapRemote(s store.Store, closer func() error, opts Options, logger logging.Logger) *Result {
	if opts.Retry.Attempts > 1 {
		s = store.NewRetrying(s, opts.Retry, logger)
	}
	if opts.FallbackToFile {
		s = store.NewFallback(s, NewFileStore(opts, logger), logger)
	}
	logger.Info("Storage backend initialized",
		logging.F(logging.FieldBackend, string(opts.Backend)),
		logging.F("fallback_to_file", opts.FallbackToFile),
		logging.F("retry_attempts", opts.Retry.Attempts))
	return &Result{Store: s, Close: closer}
}

// BackoffFromMillis converts a configured backoff to a duration.
func BackoffFromMillis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
