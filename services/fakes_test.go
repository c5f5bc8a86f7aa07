package services

import (
	"context"
	"time"

	"github.com/emmiamia/nourishsteps/models"
)

// memStore is an in-memory record store for the reader interfaces.
type memStore struct {
	checkins []models.CheckIn
	meals    []models.Meal
	err      error

	ranges [][2]string
}

func (m *memStore) CheckInsByDate(_ context.Context, day models.Day) ([]models.CheckIn, error) {
	return m.CheckInsBetween(context.Background(), day, day)
}

func (m *memStore) CheckInsBetween(_ context.Context, start, end models.Day) ([]models.CheckIn, error) {
	m.ranges = append(m.ranges, [2]string{start.String(), end.String()})
	if m.err != nil {
		return nil, m.err
	}
	var out []models.CheckIn
	for _, c := range m.checkins {
		if !c.Date.Before(start) && !c.Date.After(end) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) MealsByDate(_ context.Context, day models.Day) ([]models.Meal, error) {
	return m.MealsBetween(context.Background(), day, day)
}

func (m *memStore) MealsBetween(_ context.Context, start, end models.Day) ([]models.Meal, error) {
	m.ranges = append(m.ranges, [2]string{start.String(), end.String()})
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Meal
	for _, r := range m.meals {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func day(s string) models.Day {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

var baseTime = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func checkIn(id uint, date string, mood int, status models.MealStatus) models.CheckIn {
	return models.CheckIn{
		ID:         id,
		Date:       day(date),
		Mood:       mood,
		Urge:       1,
		MealStatus: status,
		CreatedAt:  baseTime.Add(time.Duration(id) * time.Minute),
	}
}

func meal(date string, t models.MealType) models.Meal {
	return models.Meal{Date: day(date), MealType: t, Status: models.StatusCompleted}
}

func threeMeals(date string) []models.Meal {
	return []models.Meal{meal(date, models.Breakfast), meal(date, models.Lunch), meal(date, models.Dinner)}
}
