package models

import "time"

// MealType names the meal occasion.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MainMealTypes are the occasions that decide whether a day is complete.
var MainMealTypes = []MealType{Breakfast, Lunch, Dinner}

// IsMain reports whether t is breakfast, lunch or dinner.
func (t MealType) IsMain() bool {
	return t == Breakfast || t == Lunch || t == Dinner
}

func (t MealType) Valid() bool {
	return t.IsMain() || t == Snack
}

// Meal is a log entry for one meal occasion.
type Meal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Date        Day        `gorm:"size:10;index;not null" json:"date"`
	MealType    MealType   `gorm:"size:16;not null" json:"meal_type"`
	Status      MealStatus `gorm:"size:16;not null" json:"status"`
	DurationSec *int       `json:"duration_sec"`
	Note        *string    `gorm:"type:text" json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Meal) TableName() string { return "meals" }
