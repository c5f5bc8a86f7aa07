package cmd

import (
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/emmiamia/nourishsteps/config"
	"github.com/emmiamia/nourishsteps/jobs"
	"github.com/emmiamia/nourishsteps/routes"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		return err
	}
	defer utils.Logger.Sync() //nolint:errcheck

	utils.InitRedis(cfg)
	defer utils.CloseRedis()

	db := config.InitDatabase()
	clock := clockFor(cfg)
	r := routes.SetupRouter(cfg, db, clock)

	if cfg.CronEnabled {
		c := cron.New(cron.WithLocation(cfg.Location()))
		summaries := services.NewSummaryService(storage.NewCheckInRepository(db), storage.NewMealRepository(db), clock)
		if err := jobs.InitCronJobs(c, cfg.CronRolloverSpec, jobs.NewRollover(summaries, nil)); err != nil {
			return err
		}
		defer c.Stop()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
