package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
)

// DefaultResources is the support list installed by the seed command.
func DefaultResources() []models.Resource {
	return []models.Resource{
		{Title: "988 Suicide & Crisis Lifeline", URL: "https://988lifeline.org/", Type: "crisis", Tags: "crisis,hotline"},
		{Title: "NEDA Helpline", URL: "https://www.nationaleatingdisorders.org/", Type: "crisis", Tags: "ed,hotline"},
		{Title: "Recovery Record (app)", URL: "https://recoveryrecord.com/", Type: "info", Tags: "tracking,app"},
		{Title: "F.E.A.S.T. Families", URL: "https://www.feast-ed.org/", Type: "community", Tags: "family,community"},
	}
}

var sampleStatuses = []models.MealStatus{models.StatusSkipped, models.StatusPartial, models.StatusCompleted}

// SampleCheckIns builds one check-in per day for the week ending at today,
// oldest first, with alternating moods and cycling meal statuses.
func SampleCheckIns(today models.Day) []models.CheckIn {
	out := make([]models.CheckIn, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, models.CheckIn{
			Date:       today.AddDays(i - 6),
			Mood:       3 + i%2,
			Urge:       i % 3,
			MealStatus: sampleStatuses[i%3],
		})
	}
	return out
}

// SeedOptions controls what Seed writes besides the resource list.
type SeedOptions struct {
	Today          models.Day
	SampleCheckIns bool
	ResetCheckIns  bool
}

// Seed installs the default resources and, when asked, a week of sample
// check-ins. Everything runs in one transaction.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resources := NewResourceRepository(tx)
		checkins := NewCheckInRepository(tx)

		if err := resources.Replace(ctx, DefaultResources()); err != nil {
			return err
		}
		if opts.ResetCheckIns {
			if err := checkins.DeleteAll(ctx); err != nil {
				return fmt.Errorf("reset check-ins: %w", err)
			}
		}
		if !opts.SampleCheckIns {
			return nil
		}
		for _, c := range SampleCheckIns(opts.Today) {
			c := c
			if err := checkins.Create(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
}
