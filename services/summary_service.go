package services

import (
	"context"
	"fmt"

	"github.com/emmiamia/nourishsteps/models"
)

// CheckInReader is the read side of the check-in store. Range bounds are inclusive.
type CheckInReader interface {
	CheckInsByDate(ctx context.Context, day models.Day) ([]models.CheckIn, error)
	CheckInsBetween(ctx context.Context, start, end models.Day) ([]models.CheckIn, error)
}

// MealReader is the read side of the meal store. Range bounds are inclusive.
type MealReader interface {
	MealsByDate(ctx context.Context, day models.Day) ([]models.Meal, error)
	MealsBetween(ctx context.Context, start, end models.Day) ([]models.Meal, error)
}

// SummaryService fetches records and runs the aggregations over them.
type SummaryService struct {
	checkins CheckInReader
	meals    MealReader
	clock    Clock
}

// NewSummaryService wires the readers and clock. A nil clock means SystemClock in local time.
func NewSummaryService(checkins CheckInReader, meals MealReader, clock Clock) *SummaryService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SummaryService{checkins: checkins, meals: meals, clock: clock}
}

// Today returns the clock's current day.
func (s *SummaryService) Today() models.Day {
	return s.clock.Today()
}

// CheckInWindow builds the 7-day check-in summary ending today.
func (s *SummaryService) CheckInWindow(ctx context.Context) (CheckInWindow, error) {
	today := s.clock.Today()
	start := today.AddDays(-(WindowDays - 1))
	checkins, err := s.checkins.CheckInsBetween(ctx, start, today)
	if err != nil {
		return CheckInWindow{}, fmt.Errorf("load check-ins: %w", err)
	}
	meals, err := s.meals.MealsBetween(ctx, start, today)
	if err != nil {
		return CheckInWindow{}, fmt.Errorf("load meals: %w", err)
	}
	return BuildCheckInWindow(today, checkins, meals), nil
}

// MealWindow builds the 7-day meal summary ending today.
func (s *SummaryService) MealWindow(ctx context.Context) (MealWindow, error) {
	today := s.clock.Today()
	meals, err := s.meals.MealsBetween(ctx, today.AddDays(-(WindowDays - 1)), today)
	if err != nil {
		return MealWindow{}, fmt.Errorf("load meals: %w", err)
	}
	return BuildMealWindow(today, meals), nil
}

// CheckInMonth builds the check-in calendar for year/month.
func (s *SummaryService) CheckInMonth(ctx context.Context, year, month int) (CheckInCalendar, error) {
	first, last, err := models.MonthBounds(year, month)
	if err != nil {
		return CheckInCalendar{}, err
	}
	records, err := s.checkins.CheckInsBetween(ctx, first, last)
	if err != nil {
		return CheckInCalendar{}, fmt.Errorf("load check-ins: %w", err)
	}
	return BuildCheckInCalendar(year, month, records)
}

// MealMonth builds the meal calendar for year/month.
func (s *SummaryService) MealMonth(ctx context.Context, year, month int) (MealCalendar, error) {
	first, last, err := models.MonthBounds(year, month)
	if err != nil {
		return MealCalendar{}, err
	}
	records, err := s.meals.MealsBetween(ctx, first, last)
	if err != nil {
		return MealCalendar{}, fmt.Errorf("load meals: %w", err)
	}
	return BuildMealCalendar(year, month, records)
}

// DayView puts both aggregator flavors for one date side by side.
type DayView struct {
	Date       models.Day `json:"date"`
	CheckIns   CheckInDay `json:"checkins"`
	Meals      MealDay    `json:"meals"`
	HasEntries bool       `json:"has_entries"`
}

// Day aggregates the records of a single date. HasEntries uses the same
// rule as the check-in window: a check-in or any main meal.
func (s *SummaryService) Day(ctx context.Context, day models.Day) (DayView, error) {
	checkins, err := s.checkins.CheckInsByDate(ctx, day)
	if err != nil {
		return DayView{}, fmt.Errorf("load check-ins: %w", err)
	}
	meals, err := s.meals.MealsByDate(ctx, day)
	if err != nil {
		return DayView{}, fmt.Errorf("load meals: %w", err)
	}
	view := DayView{
		Date:     day,
		CheckIns: AggregateCheckIns(day, checkins),
		Meals:    AggregateMeals(day, meals),
	}
	view.HasEntries = view.CheckIns.HasEntries() || view.Meals.Status != DaySkipped
	return view, nil
}
