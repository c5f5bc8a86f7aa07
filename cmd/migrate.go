package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDB(cfg, func(db *gorm.DB) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.DBDriver)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
