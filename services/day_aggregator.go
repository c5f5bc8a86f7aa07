package services

import (
	"github.com/shopspring/decimal"

	"github.com/emmiamia/nourishsteps/models"
)

// DayStatus classifies a day of meal logs.
type DayStatus string

const (
	DayCompleted DayStatus = "completed"
	DayPartial   DayStatus = "partial"
	DaySkipped   DayStatus = "skipped"
)

// MealTally counts check-ins per meal_status.
type MealTally struct {
	Completed int `json:"completed"`
	Partial   int `json:"partial"`
	Skipped   int `json:"skipped"`
}

// Add counts one check-in. Statuses outside the check-in enum are ignored.
func (t *MealTally) Add(s models.MealStatus) {
	switch s {
	case models.StatusCompleted:
		t.Completed++
	case models.StatusPartial:
		t.Partial++
	case models.StatusSkipped:
		t.Skipped++
	}
}

func (t *MealTally) Merge(o MealTally) {
	t.Completed += o.Completed
	t.Partial += o.Partial
	t.Skipped += o.Skipped
}

// CheckInDay is the check-in view of a single day. Check-ins are never
// classified per day; only presence and the meal_status tally matter.
type CheckInDay struct {
	Date        models.Day `json:"date"`
	Count       int        `json:"count"`
	Meals       MealTally  `json:"meals"`
	MoodAverage *float64   `json:"mood_average"`
}

func (d CheckInDay) HasEntries() bool { return d.Count > 0 }

// AggregateCheckIns summarizes the check-ins recorded on day.
func AggregateCheckIns(day models.Day, records []models.CheckIn) CheckInDay {
	out := CheckInDay{Date: day, Count: len(records)}
	moodSum := 0
	for _, r := range records {
		out.Meals.Add(r.MealStatus)
		moodSum += r.Mood
	}
	out.MoodAverage = averageMood(moodSum, len(records))
	return out
}

// MealDay is the meal view of a single day.
type MealDay struct {
	Date   models.Day `json:"date"`
	Count  int        `json:"count"`
	Status DayStatus  `json:"status"`
}

// AggregateMeals counts every meal of the day, snacks included, and
// classifies the day by how many distinct main meals were logged.
func AggregateMeals(day models.Day, records []models.Meal) MealDay {
	return MealDay{
		Date:   day,
		Count:  len(records),
		Status: ClassifyMeals(records),
	}
}

// ClassifyMeals returns completed when breakfast, lunch and dinner are all
// present, partial for one or two of them and skipped otherwise. The
// per-record status of a meal does not matter, only that it was logged.
func ClassifyMeals(records []models.Meal) DayStatus {
	seen := make(map[models.MealType]struct{}, len(models.MainMealTypes))
	for _, r := range records {
		if r.MealType.IsMain() {
			seen[r.MealType] = struct{}{}
		}
	}
	switch len(seen) {
	case 0:
		return DaySkipped
	case len(models.MainMealTypes):
		return DayCompleted
	default:
		return DayPartial
	}
}

// averageMood rounds half to even at two decimals; nil when there is nothing to average.
func averageMood(sum, count int) *float64 {
	if count == 0 {
		return nil
	}
	avg, _ := decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(count))).
		RoundBank(2).
		Float64()
	return &avg
}
