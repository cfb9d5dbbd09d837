// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"

	"hometab/expense-tracker/internal/config"
	"hometab/expense-tracker/internal/container"

	"github.com/spf13/cobra"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Backend    string
}

var (
	// Flags holds the values of the persistent flags
	Flags = GlobalFlags{}

	// AppContainer is the dependency container built before each command runs
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-tracker",
		Short: "Track household expenses from bank and credit card exports.",
		Long: `expense-tracker imports bank and credit card exports (CSV, XLSX, XLS),
categorizes transactions from a learned business to category mapping and keeps a
deduplicated history in a local file, a SQLite database or a Google spreadsheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if AppContainer != nil {
				return nil
			}
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			AppContainer = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if AppContainer == nil {
				return nil
			}
			err := AppContainer.Close()
			AppContainer = nil
			return err
		},
	}
)

// ErrNoContainer is returned by commands run before initialization.
var ErrNoContainer = errors.New("application not initialized")

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVar(&Flags.ConfigFile, "config", "", "Config file (default searches $HOME/.expense-tracker, .expense-tracker and .)")
	pf.StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
	pf.StringVar(&Flags.Backend, "backend", "", "Storage backend (file, sqlite, sheets or memory)")
}

// LoadConfig builds the configuration with command line flags taking
// precedence over the environment and the config file.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.NewViper(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	bindings := map[string]string{
		"log.level":       "log-level",
		"log.format":      "log-format",
		"storage.backend": "backend",
	}
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	return config.FromViper(v)
}

// GetContainer returns the initialized container.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, ErrNoContainer
	}
	return AppContainer, nil
}
