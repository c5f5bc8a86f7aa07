package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/storage"
)

var (
	summaryMeals bool
	monthMeals   bool
	monthYear    int
	monthNumber  int
)

func summaryService(clock services.Clock, db *gorm.DB) *services.SummaryService {
	return services.NewSummaryService(storage.NewCheckInRepository(db), storage.NewMealRepository(db), clock)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the 7-day summary ending today as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDB(cfg, func(db *gorm.DB) error {
			svc := summaryService(clockFor(cfg), db)
			if summaryMeals {
				out, err := svc.MealWindow(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			out, err := svc.CheckInWindow(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		})
	},
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print a month calendar as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		clock := clockFor(cfg)
		year, month := monthYear, monthNumber
		if year == 0 {
			year = clock.Today().Year()
		}
		if month == 0 {
			month = int(clock.Today().Month())
		}
		if _, _, err := models.MonthBounds(year, month); err != nil {
			return fmt.Errorf("invalid --year/--month %d-%d: %w", year, month, err)
		}
		return withDB(cfg, func(db *gorm.DB) error {
			svc := summaryService(clock, db)
			if monthMeals {
				out, err := svc.MealMonth(cmd.Context(), year, month)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			out, err := svc.CheckInMonth(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryMeals, "meals", false, "Summarize meal logs instead of check-ins")

	rootCmd.AddCommand(monthCmd)
	monthCmd.Flags().IntVar(&monthYear, "year", 0, "Year (default current)")
	monthCmd.Flags().IntVar(&monthNumber, "month", 0, "Month 1-12 (default current)")
	monthCmd.Flags().BoolVar(&monthMeals, "meals", false, "Count meal logs instead of check-ins")
}
