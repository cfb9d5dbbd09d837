// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"hometab/expense-tracker/internal/categorizer"
	"hometab/expense-tracker/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "EXPENSES"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Storage struct {
		Backend        string `mapstructure:"backend" yaml:"backend"`
		FallbackToFile bool   `mapstructure:"fallback_to_file" yaml:"fallback_to_file"`

		File struct {
			Expenses   string `mapstructure:"expenses" yaml:"expenses"`
			Categories string `mapstructure:"categories" yaml:"categories"`
			Mapping    string `mapstructure:"mapping" yaml:"mapping"`
		} `mapstructure:"file" yaml:"file"`

		SQLite struct {
			Path string `mapstructure:"path" yaml:"path"`
		} `mapstructure:"sqlite" yaml:"sqlite"`

		Sheets struct {
			SpreadsheetID   string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
			CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
			CredentialsJSON string `mapstructure:"credentials_json" yaml:"-"` // Never serialize credentials
			ExpensesSheet   string `mapstructure:"expenses_sheet" yaml:"expenses_sheet"`
			CategoriesSheet string `mapstructure:"categories_sheet" yaml:"categories_sheet"`
			MappingSheet    string `mapstructure:"mapping_sheet" yaml:"mapping_sheet"`
		} `mapstructure:"sheets" yaml:"sheets"`

		Retry struct {
			Attempts  int `mapstructure:"attempts" yaml:"attempts"`
			BackoffMS int `mapstructure:"backoff_ms" yaml:"backoff_ms"`
		} `mapstructure:"retry" yaml:"retry"`
	} `mapstructure:"storage" yaml:"storage"`

	Categorization struct {
		Strategy string `mapstructure:"strategy" yaml:"strategy"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Normalizer struct {
		LabelsFile string `mapstructure:"labels_file" yaml:"labels_file"`
	} `mapstructure:"normalizer" yaml:"normalizer"`

	Summary struct {
		MinTransactions int `mapstructure:"min_transactions" yaml:"min_transactions"`
	} `mapstructure:"summary" yaml:"summary"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v, err := NewViper("")
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// NewViper prepares a Viper instance with defaults, the config file and the
// environment. An empty configFile searches the standard locations, where a
// missing file is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-tracker")
		v.AddConfigPath(".expense-tracker")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Service account credentials also come from the usual Google variables
	if err := v.BindEnv("storage.sheets.credentials_json",
		EnvPrefix+"_STORAGE_SHEETS_CREDENTIALS_JSON", "GOOGLE_SERVICE_ACCOUNT_JSON"); err != nil {
		return nil, fmt.Errorf("failed to bind credentials environment variable: %w", err)
	}
	if err := v.BindEnv("storage.sheets.credentials_file",
		EnvPrefix+"_STORAGE_SHEETS_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"); err != nil {
		return nil, fmt.Errorf("failed to bind credentials environment variable: %w", err)
	}

	return v, nil
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration made of defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.fallback_to_file", true)
	v.SetDefault("storage.file.expenses", "data/expenses.csv")
	v.SetDefault("storage.file.categories", "data/categories.yaml")
	v.SetDefault("storage.file.mapping", "data/mapping.yaml")
	v.SetDefault("storage.sqlite.path", "data/expenses.db")
	v.SetDefault("storage.sheets.spreadsheet_id", "")
	v.SetDefault("storage.sheets.credentials_file", "")
	v.SetDefault("storage.sheets.credentials_json", "")
	v.SetDefault("storage.sheets.expenses_sheet", "Expenses")
	v.SetDefault("storage.sheets.categories_sheet", "Categories")
	v.SetDefault("storage.sheets.mapping_sheet", "Mapping")
	v.SetDefault("storage.retry.attempts", 3)
	v.SetDefault("storage.retry.backoff_ms", 500)

	// Categorization defaults
	v.SetDefault("categorization.strategy", "mapping")

	// Normalizer defaults
	v.SetDefault("normalizer.labels_file", "")

	// Summary defaults
	v.SetDefault("summary.min_transactions", 15)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Storage.Backend {
	case "file", "sqlite", "memory":
	case "sheets":
		if strings.TrimSpace(config.Storage.Sheets.SpreadsheetID) == "" {
			return fmt.Errorf("storage.sheets.spreadsheet_id required when the sheets backend is selected")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'file', 'sqlite', 'sheets' or 'memory')", config.Storage.Backend)
	}

	if config.Storage.Retry.Attempts < 1 || config.Storage.Retry.Attempts > 10 {
		return fmt.Errorf("storage.retry.attempts must be between 1 and 10, got: %d", config.Storage.Retry.Attempts)
	}
	if config.Storage.Retry.BackoffMS < 0 {
		return fmt.Errorf("storage.retry.backoff_ms must not be negative, got: %d", config.Storage.Retry.BackoffMS)
	}

	if _, err := categorizer.ParseStrategyName(config.Categorization.Strategy); err != nil {
		return fmt.Errorf("invalid categorization strategy: %w", err)
	}

	if config.Summary.MinTransactions < 1 {
		return fmt.Errorf("summary.min_transactions must be positive, got: %d", config.Summary.MinTransactions)
	}

	return nil
}

// NewLogger builds the application logger from the log section.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
