package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hometab/expense-tracker/cmd/assign"
	"hometab/expense-tracker/cmd/categories"
	"hometab/expense-tracker/cmd/categorize"
	"hometab/expense-tracker/cmd/clean"
	"hometab/expense-tracker/cmd/list"
	"hometab/expense-tracker/cmd/mapping"
	"hometab/expense-tracker/cmd/migrate"
	"hometab/expense-tracker/cmd/remove"
	"hometab/expense-tracker/cmd/reset"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/cmd/summary"
	"hometab/expense-tracker/cmd/upload"

	"github.com/joho/godotenv"
)

func init() {
	// Environment first, so .env values reach the configuration
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(upload.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(assign.Cmd)
	root.Cmd.AddCommand(mapping.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(list.Cmd)
	root.Cmd.AddCommand(remove.Cmd)
	root.Cmd.AddCommand(clean.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(migrate.Cmd)
	root.Cmd.AddCommand(reset.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	// Try to find .env file in current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
