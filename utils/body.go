package utils

import (
	"errors"
	"strings"

	"backend/models"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	bmi := weightKg / (h * h)
	return bmi, nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very active": 1.9,
}

// EstimateDailyCalories computes maintenance calories from the profile via
// Mifflin-St Jeor BMR times the activity multiplier. Returns an error when
// the profile stats are missing or implausible; callers treat the estimate
// as a sanity reference, not a target.
func EstimateDailyCalories(p *models.UserProfile) (float64, error) {
	if p == nil {
		return 0, errors.New("profile required")
	}
	if p.Age <= 0 || p.Age > 130 {
		return 0, errors.New("age out of plausible range")
	}
	if _, err := CalculateBMI(p.HeightCm, p.WeightKg); err != nil {
		return 0, err
	}

	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	switch strings.ToLower(strings.TrimSpace(p.Gender)) {
	case "male":
		bmr += 5
	default:
		bmr -= 161
	}

	mult, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(p.ActivityLevel))]
	if !ok {
		mult = activityMultipliers["moderate"]
	}
	return bmr * mult, nil
}
