package services

import (
	"math"

	"github.com/emmiamia/nourishsteps/models"
)

// WindowDays is the length of the rolling window, today included.
const WindowDays = 7

// WindowDates returns the WindowDays days ending at today, oldest first.
func WindowDates(today models.Day) []models.Day {
	dates := make([]models.Day, 0, WindowDays)
	for i := WindowDays - 1; i >= 0; i-- {
		dates = append(dates, today.AddDays(-i))
	}
	return dates
}

// CheckInWindowDay is one day of the check-in window.
type CheckInWindowDay struct {
	Date  models.Day `json:"date"`
	Count int        `json:"count"`
}

// CheckInWindow is the 7-day check-in summary. Meals is a raw tally over
// every check-in in the window, so a day with three check-ins adds three.
type CheckInWindow struct {
	Days   []CheckInWindowDay `json:"days"`
	Meals  MealTally          `json:"meals"`
	Streak int                `json:"streak"`
}

// BuildCheckInWindow summarizes the window ending at today. A day has
// entries when it holds a check-in or a breakfast, lunch or dinner log.
// Records dated outside the window are ignored.
func BuildCheckInWindow(today models.Day, checkins []models.CheckIn, meals []models.Meal) CheckInWindow {
	checkinsByDay := groupCheckIns(checkins)
	mainMeals := make(map[string]int)
	for _, m := range meals {
		if m.MealType.IsMain() {
			mainMeals[m.Date.String()]++
		}
	}

	window := CheckInWindow{Days: make([]CheckInWindowDay, 0, WindowDays)}
	active := make([]bool, 0, WindowDays)
	for _, d := range WindowDates(today) {
		day := AggregateCheckIns(d, checkinsByDay[d.String()])
		window.Days = append(window.Days, CheckInWindowDay{Date: d, Count: day.Count})
		window.Meals.Merge(day.Meals)
		active = append(active, day.HasEntries() || mainMeals[d.String()] > 0)
	}
	window.Streak = trailingStreak(active)
	return window
}

// MealPercentages holds, per status, the share of window days with that status.
type MealPercentages struct {
	Completed int `json:"completed"`
	Partial   int `json:"partial"`
	Skipped   int `json:"skipped"`
}

// MealWindow is the 7-day meal summary.
type MealWindow struct {
	Days   []MealDay       `json:"days"`
	Meals  MealPercentages `json:"meals"`
	Streak int             `json:"streak"`
}

// BuildMealWindow classifies every day of the window ending at today and
// reports per-status percentages. Each percentage is rounded on its own and
// the three are not normalized, so they may not add up to exactly 100.
// The streak counts back from today over completed or partial days.
func BuildMealWindow(today models.Day, meals []models.Meal) MealWindow {
	mealsByDay := groupMeals(meals)

	window := MealWindow{Days: make([]MealDay, 0, WindowDays)}
	var completed, partial, skipped int
	active := make([]bool, 0, WindowDays)
	for _, d := range WindowDates(today) {
		day := AggregateMeals(d, mealsByDay[d.String()])
		switch day.Status {
		case DayCompleted:
			completed++
		case DayPartial:
			partial++
		default:
			skipped++
		}
		window.Days = append(window.Days, day)
		active = append(active, day.Status != DaySkipped)
	}
	window.Meals = MealPercentages{
		Completed: percentOfWindow(completed),
		Partial:   percentOfWindow(partial),
		Skipped:   percentOfWindow(skipped),
	}
	window.Streak = trailingStreak(active)
	return window
}

// trailingStreak counts consecutive true values from the end of days.
func trailingStreak(days []bool) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i] {
			break
		}
		streak++
	}
	return streak
}

func percentOfWindow(n int) int {
	return int(math.Round(float64(n) / WindowDays * 100))
}

func groupCheckIns(records []models.CheckIn) map[string][]models.CheckIn {
	out := make(map[string][]models.CheckIn)
	for _, r := range records {
		key := r.Date.String()
		out[key] = append(out[key], r)
	}
	return out
}

func groupMeals(records []models.Meal) map[string][]models.Meal {
	out := make(map[string][]models.Meal)
	for _, r := range records {
		key := r.Date.String()
		out[key] = append(out[key], r)
	}
	return out
}
