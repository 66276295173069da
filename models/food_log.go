package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meal categories, in display order. Category matching is exact string
// equality; logs carrying anything else never render on the calendar.
const (
	CategoryBreakfast    = "Breakfast"
	CategoryMorningSnack = "Morning Snack"
	CategoryLunch        = "Lunch"
	CategoryEveningSnack = "Evening Snack"
	CategoryDinner       = "Dinner"
)

var MealCategories = []string{
	CategoryBreakfast,
	CategoryMorningSnack,
	CategoryLunch,
	CategoryEveningSnack,
	CategoryDinner,
}

func IsMealCategory(c string) bool {
	for _, mc := range MealCategories {
		if mc == c {
			return true
		}
	}
	return false
}

// One logged meal. Calories and macros are stored already scaled for
// Quantity: a quantity edit rescales from the stored values, it never
// re-derives from the original analysis.
type FoodLog struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	FoodName string  `gorm:"not null"`
	Calories float64 // kcal
	Protein  float64 // g
	Carbs    float64 // g
	Fat      float64 // g

	// Provider-supplied micronutrient display values, e.g. {"Iron": "9% DV"}.
	// Keys are not stable across logs.
	Micros datatypes.JSONMap

	Category          string  `gorm:"index"`
	Quantity          float64 `gorm:"default:1"` // serving multiplier
	HealthScore       int     // 0 unhealthy … 100 healthy
	HealthScoreReason string
	Confidence        float64
	ImageURI          string

	LoggedAt time.Time `gorm:"index;not null"`
}
