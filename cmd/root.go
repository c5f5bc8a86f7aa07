package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/config"
	"github.com/emmiamia/nourishsteps/services"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "nourishsteps",
	Short: "nourishsteps serves the check-in and meal tracking API",
	Long:  "nourishsteps is the backend for daily check-ins and meal logs: a REST API plus commands to migrate, seed and print summaries.",
	// serve is the default command
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path, "Path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a SQLite database (overrides the configured database)")
}

// loadConfig reads configuration for a command, applying --db on top.
func loadConfig() (config.AppConfig, error) {
	cfg, err := config.Reload(configPath)
	if err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if dbPath != "" {
		cfg.DBDriver = "sqlite"
		cfg.DatabaseURI = ""
		cfg.SQLitePath = dbPath
		config.Set(cfg)
	}
	return cfg, nil
}

// withDB opens and migrates the configured database for the duration of fn.
func withDB(cfg config.AppConfig, fn func(db *gorm.DB) error) error {
	db, err := config.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return fn(db)
}

func clockFor(cfg config.AppConfig) services.Clock {
	return services.SystemClock{Location: cfg.Location()}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
