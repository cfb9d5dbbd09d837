// Package container provides dependency injection for the expense tracker.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/config"
	"hometab/expense-tracker/internal/factory"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/normalizer"
	"hometab/expense-tracker/internal/pipeline"
	"hometab/expense-tracker/internal/store"
	"hometab/expense-tracker/internal/store/sheets"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       store.Store
	fileStore   *store.FileStore
	closeStore  func() error
	normalizer  *normalizer.Normalizer
	categorizer *categorizer.Categorizer
	pipeline    *pipeline.Pipeline
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(context.Background(), cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	vocab := normalizer.DefaultVocabulary()
	if cfg.Normalizer.LabelsFile != "" {
		v, err := normalizer.LoadVocabulary(cfg.Normalizer.LabelsFile)
		if err != nil {
			return nil, fmt.Errorf("error loading labels file: %w", err)
		}
		vocab = v
	}

	opts := StoreOptions(cfg)
	built, err := factory.NewStore(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	norm := normalizer.New(vocab, logger)
	cat := categorizer.NewCategorizer(logger)
	pipe, err := pipeline.New(built.Store, norm, cat, cfg.Categorization.Strategy, logger)
	if err != nil {
		_ = built.Close()
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldBackend, cfg.Storage.Backend),
		logging.F(logging.FieldStrategy, pipe.Strategy()))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       built.Store,
		fileStore:   factory.NewFileStore(opts, logger),
		closeStore:  built.Close,
		normalizer:  norm,
		categorizer: cat,
		pipeline:    pipe,
	}, nil
}

// StoreOptions maps the storage section of cfg onto factory options.
func StoreOptions(cfg *config.Config) factory.Options {
	s := cfg.Storage
	return factory.Options{
		Backend:         factory.BackendType(s.Backend),
		ExpensesFile:    s.File.Expenses,
		CategoriesFile:  s.File.Categories,
		MappingFile:     s.File.Mapping,
		SQLitePath:      s.SQLite.Path,
		Sheets:          sheetsConfig(cfg),
		CredentialsJSON: s.Sheets.CredentialsJSON,
		CredentialsFile: s.Sheets.CredentialsFile,
		FallbackToFile:  s.FallbackToFile,
		Retry: store.RetryPolicy{
			Attempts: s.Retry.Attempts,
			Backoff:  factory.BackoffFromMillis(s.Retry.BackoffMS),
		},
	}
}

func sheetsConfig(cfg *config.Config) sheets.Config {
	s := cfg.Storage.Sheets
	return sheets.Config{
		SpreadsheetID:   s.SpreadsheetID,
		ExpensesSheet:   s.ExpensesSheet,
		CategoriesSheet: s.CategoriesSheet,
		MappingSheet:    s.MappingSheet,
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the configured storage backend.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetFileStore returns the local file store, whatever backend is configured.
func (c *Container) GetFileStore() *store.FileStore {
	return c.fileStore
}

// GetNormalizer returns the file normalizer.
func (c *Container) GetNormalizer() *normalizer.Normalizer {
	return c.normalizer
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetPipeline returns the import pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases the storage backend.
func (c *Container) Close() error {
	if c.closeStore == nil {
		return nil
	}
	if err := c.closeStore(); err != nil {
		return fmt.Errorf("error closing store: %w", err)
	}
	return nil
}
