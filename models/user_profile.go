package models

import (
	"gorm.io/gorm"
)

// Targets holds a user's daily intake goals. Either AI-derived at onboarding
// or left zero, in which case DefaultTargets applies.
type Targets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // g
	Carbs    float64 `json:"carbs"`   // g
	Fat      float64 `json:"fat"`     // g
	Water    float64 `json:"water"`   // ml
}

// UserProfile is created once at onboarding and read-mostly afterward.
type UserProfile struct {
	gorm.Model
	UserID        uint    `gorm:"uniqueIndex;not null"`
	Gender        string  // "Male" | "Female" | "Other"
	Age           int
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string  // "Sedentary" | "Light" | "Moderate" | "Active" | "Very Active"
	Goal          string  // "Weight Loss" | "Maintenance" | "Muscle Gain"
	Targets       Targets `gorm:"embedded;embeddedPrefix:target_"`
}
