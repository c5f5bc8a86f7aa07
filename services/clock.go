package services

import (
	"time"

	"github.com/emmiamia/nourishsteps/models"
)

// Clock supplies "today" for window and streak calculations.
type Clock interface {
	Today() models.Day
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() models.Day {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return models.DayOf(time.Now().In(loc))
}

// FixedClock always reports the same day.
type FixedClock struct {
	Day models.Day
}

func (c FixedClock) Today() models.Day { return c.Day }
