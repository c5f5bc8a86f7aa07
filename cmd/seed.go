package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

var (
	seedCheckIns bool
	seedReset    bool

	// invalidateSummaries drops cached summaries once seeding rewrote records.
	invalidateSummaries = utils.InvalidateSummaries
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the support resources and optional sample check-ins",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		utils.InitRedis(cfg)
		defer utils.CloseRedis()

		return withDB(cfg, func(db *gorm.DB) error {
			opts := storage.SeedOptions{
				Today:          clockFor(cfg).Today(),
				SampleCheckIns: seedCheckIns,
				ResetCheckIns:  seedReset,
			}
			if err := storage.Seed(cmd.Context(), db, opts); err != nil {
				return err
			}
			invalidateSummaries()

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d resources\n", len(storage.DefaultResources()))
			if seedCheckIns {
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded 7 sample check-ins ending %s\n", opts.Today)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedCheckIns, "checkins", true, "Also insert a week of sample check-ins")
	seedCmd.Flags().BoolVar(&seedReset, "reset", true, "Delete existing check-ins first")
}
