package services

import (
	"sort"

	"github.com/emmiamia/nourishsteps/models"
)

// CheckInItem is the per-record detail shown in a calendar cell.
type CheckInItem struct {
	ID         uint              `json:"id"`
	Mood       int               `json:"mood"`
	Urge       int               `json:"urge"`
	MealStatus models.MealStatus `json:"meal_status"`
	Note       *string           `json:"note"`
}

// CheckInCalendarDay aggregates the check-ins of one calendar day.
type CheckInCalendarDay struct {
	Date      models.Day    `json:"date"`
	Count     int           `json:"count"`
	Completed int           `json:"completed"`
	AvgMood   *float64      `json:"avg_mood"`
	Items     []CheckInItem `json:"items"`
}

// CheckInCalendar covers every day of a month, empty days included.
type CheckInCalendar struct {
	Year  int                  `json:"year"`
	Month int                  `json:"month"`
	Days  []CheckInCalendarDay `json:"days"`
}

// MealCalendarDay counts every meal logged on one day, snacks included.
type MealCalendarDay struct {
	Date  models.Day `json:"date"`
	Count int        `json:"count"`
}

// MealCalendar covers every day of a month, empty days included.
type MealCalendar struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Days  []MealCalendarDay `json:"days"`
}

// monthDays lists the days of a month in ascending order.
func monthDays(year, month int) ([]models.Day, error) {
	first, last, err := models.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	days := make([]models.Day, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days, nil
}

// BuildCheckInCalendar buckets check-ins into the days of year/month.
// Items within a day are ordered by creation time.
func BuildCheckInCalendar(year, month int, records []models.CheckIn) (CheckInCalendar, error) {
	days, err := monthDays(year, month)
	if err != nil {
		return CheckInCalendar{}, err
	}

	sorted := make([]models.CheckIn, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	byDay := groupCheckIns(sorted)

	cal := CheckInCalendar{Year: year, Month: month, Days: make([]CheckInCalendarDay, 0, len(days))}
	for _, d := range days {
		group := byDay[d.String()]
		entry := CheckInCalendarDay{Date: d, Items: make([]CheckInItem, 0, len(group))}
		moodSum := 0
		for _, r := range group {
			entry.Count++
			moodSum += r.Mood
			if r.MealStatus == models.StatusCompleted {
				entry.Completed++
			}
			entry.Items = append(entry.Items, CheckInItem{
				ID:         r.ID,
				Mood:       r.Mood,
				Urge:       r.Urge,
				MealStatus: r.MealStatus,
				Note:       r.Note,
			})
		}
		entry.AvgMood = averageMood(moodSum, entry.Count)
		cal.Days = append(cal.Days, entry)
	}
	return cal, nil
}

// BuildMealCalendar counts meal logs per day of year/month.
func BuildMealCalendar(year, month int, records []models.Meal) (MealCalendar, error) {
	days, err := monthDays(year, month)
	if err != nil {
		return MealCalendar{}, err
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Date.String()]++
	}

	cal := MealCalendar{Year: year, Month: month, Days: make([]MealCalendarDay, 0, len(days))}
	for _, d := range days {
		cal.Days = append(cal.Days, MealCalendarDay{Date: d, Count: counts[d.String()]})
	}
	return cal, nil
}
