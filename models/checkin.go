package models

import "time"

// MealStatus is the completion state carried by check-ins and meal logs.
// Check-ins only use skipped, partial and completed.
type MealStatus string

const (
	StatusPlanned   MealStatus = "planned"
	StatusCompleted MealStatus = "completed"
	StatusPartial   MealStatus = "partial"
	StatusSkipped   MealStatus = "skipped"
)

// ValidCheckIn reports whether s is allowed on a check-in.
func (s MealStatus) ValidCheckIn() bool {
	switch s {
	case StatusSkipped, StatusPartial, StatusCompleted:
		return true
	}
	return false
}

// ValidMeal reports whether s is allowed on a meal log.
func (s MealStatus) ValidMeal() bool {
	return s == StatusPlanned || s.ValidCheckIn()
}

// CheckIn is a mood/urge/meal-status entry for one day. Several check-ins
// may share a date.
type CheckIn struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Date       Day        `gorm:"size:10;index;not null" json:"date"`
	Mood       int        `gorm:"not null" json:"mood"`
	Urge       int        `gorm:"not null" json:"urge"`
	MealStatus MealStatus `gorm:"size:16;not null" json:"meal_status"`
	Note       *string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (CheckIn) TableName() string { return "checkins" }
