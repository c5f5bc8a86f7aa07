package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/utils"
)

// DayDigester is the part of the summary service the rollover needs.
type DayDigester interface {
	Today() models.Day
	Day(ctx context.Context, day models.Day) (services.DayView, error)
}

// Rollover runs when the date changes: cached summaries keyed by the old
// "today" are dropped and the finished day is logged.
type Rollover struct {
	summaries  DayDigester
	invalidate func()
}

// NewRollover builds the job. A nil invalidate uses the Redis summary cache.
func NewRollover(summaries DayDigester, invalidate func()) *Rollover {
	if invalidate == nil {
		invalidate = utils.InvalidateSummaries
	}
	return &Rollover{summaries: summaries, invalidate: invalidate}
}

// Run performs one rollover and returns the digest of yesterday.
func (r *Rollover) Run(ctx context.Context) (services.DayView, error) {
	r.invalidate()

	yesterday := r.summaries.Today().AddDays(-1)
	view, err := r.summaries.Day(ctx, yesterday)
	if err != nil {
		return services.DayView{}, fmt.Errorf("digest %s: %w", yesterday, err)
	}
	utils.Sugar.Infow("day rollover",
		"date", yesterday.String(),
		"checkins", view.CheckIns.Count,
		"meals", view.Meals.Count,
		"meal_status", view.Meals.Status,
		"has_entries", view.HasEntries,
	)
	return view, nil
}

// InitCronJobs registers the rollover on spec and starts the scheduler.
func InitCronJobs(c *cron.Cron, spec string, r *Rollover) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			utils.Sugar.Errorf("rollover failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule rollover %q: %w", spec, err)
	}

	c.Start()
	utils.Sugar.Infof("cron jobs initialized, rollover at %q", spec)
	return nil
}
