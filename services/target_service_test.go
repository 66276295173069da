package services

import (
	"context"
	"testing"

	"backend/models"
)

func TestResolveTargets(t *testing.T) {
	if got := ResolveTargets(nil); got != DefaultTargets {
		t.Errorf("nil profile = %+v, want defaults", got)
	}

	empty := &models.UserProfile{}
	if got := ResolveTargets(empty); got != DefaultTargets {
		t.Errorf("profile without targets = %+v, want defaults", got)
	}

	stored := models.Targets{Calories: 2400, Protein: 170, Carbs: 250, Fat: 75, Water: 3000}
	withTargets := &models.UserProfile{Targets: stored}
	if got := ResolveTargets(withTargets); got != stored {
		t.Errorf("profile with targets = %+v, want stored verbatim", got)
	}
}

func TestTargetsPlausible(t *testing.T) {
	// Mifflin-St Jeor maintenance for this profile is about 2720 kcal.
	p := &models.UserProfile{Gender: "Male", Age: 25, HeightCm: 180, WeightKg: 75, ActivityLevel: "Moderate"}

	tests := []struct {
		name    string
		targets models.Targets
		want    bool
	}{
		{"reasonable", models.Targets{Calories: 2500, Protein: 160, Carbs: 250, Fat: 80, Water: 3000}, true},
		{"zero field", models.Targets{Calories: 2500, Protein: 0, Carbs: 250, Fat: 80, Water: 3000}, false},
		{"absurdly low", models.Targets{Calories: 800, Protein: 160, Carbs: 250, Fat: 80, Water: 3000}, false},
		{"absurdly high", models.Targets{Calories: 9000, Protein: 160, Carbs: 250, Fat: 80, Water: 3000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := targetsPlausible(tt.targets, p); got != tt.want {
				t.Errorf("targetsPlausible(%+v) = %v, want %v", tt.targets, got, tt.want)
			}
		})
	}

	// No usable stats to estimate against: accept any all-positive targets.
	bare := &models.UserProfile{}
	high := models.Targets{Calories: 9000, Protein: 160, Carbs: 250, Fat: 80, Water: 3000}
	if !targetsPlausible(high, bare) {
		t.Error("positive targets must pass when the profile cannot be estimated")
	}
}

func TestTargetsForProfileFallsBackToDefaults(t *testing.T) {
	svc := NewTargetService(&GeminiService{}) // provider unconfigured

	p := &models.UserProfile{Gender: "Female", Age: 30, HeightCm: 165, WeightKg: 60, ActivityLevel: "Light"}
	got := svc.TargetsForProfile(context.Background(), p)
	if got != DefaultTargets {
		t.Errorf("targets = %+v, want defaults when provider is down", got)
	}
}

func TestTargetsForProfileRejectsImplausible(t *testing.T) {
	srv := geminiStub(t, `{"calories": 9000, "protein": 500, "carbs": 900, "fat": 300, "water": 3000}`)
	defer srv.Close()

	svc := NewTargetService(stubService(srv))
	p := &models.UserProfile{Gender: "Male", Age: 25, HeightCm: 180, WeightKg: 75, ActivityLevel: "Moderate"}
	if got := svc.TargetsForProfile(context.Background(), p); got != DefaultTargets {
		t.Errorf("implausible provider targets accepted: %+v", got)
	}
}

func TestTargetsForProfileAcceptsPlausible(t *testing.T) {
	srv := geminiStub(t, `{"calories": 2600, "protein": 170, "carbs": 260, "fat": 80, "water": 3000}`)
	defer srv.Close()

	svc := NewTargetService(stubService(srv))
	p := &models.UserProfile{Gender: "Male", Age: 25, HeightCm: 180, WeightKg: 75, ActivityLevel: "Moderate"}
	want := models.Targets{Calories: 2600, Protein: 170, Carbs: 260, Fat: 80, Water: 3000}
	if got := svc.TargetsForProfile(context.Background(), p); got != want {
		t.Errorf("targets = %+v, want provider result %+v", got, want)
	}
}
