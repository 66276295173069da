package services

import (
	"context"
	"log"

	"backend/models"
	"backend/utils"
)

// DefaultTargets applies whenever a profile carries no stored targets and the
// calculation provider is unavailable. Single source of truth for every
// "goal" value shown across screens.
var DefaultTargets = models.Targets{
	Calories: 2000,
	Protein:  150,
	Carbs:    200,
	Fat:      65,
	Water:    2500,
}

// ResolveTargets returns the profile's stored targets verbatim when present,
// otherwise the fixed defaults. Pure read, always succeeds.
func ResolveTargets(profile *models.UserProfile) models.Targets {
	if profile != nil && profile.Targets.Calories > 0 {
		return profile.Targets
	}
	return DefaultTargets
}

type TargetService struct {
	ai *GeminiService
}

func NewTargetService(ai *GeminiService) *TargetService {
	return &TargetService{ai: ai}
}

// TargetsForProfile derives daily targets from profile stats via the AI
// provider. Provider failure or an implausible estimate falls back to
// DefaultTargets so onboarding never blocks.
func (s *TargetService) TargetsForProfile(ctx context.Context, p *models.UserProfile) models.Targets {
	t, err := s.ai.CalculateTargets(ctx, p)
	if err != nil {
		log.Printf("target calculation unavailable, using defaults: %v", err)
		return DefaultTargets
	}
	if !targetsPlausible(t, p) {
		log.Printf("target calculation implausible (%+v), using defaults", t)
		return DefaultTargets
	}
	return t
}

// targetsPlausible screens AI output against a Mifflin-St Jeor maintenance
// estimate. Untrusted provider numbers must never become a user's goals.
func targetsPlausible(t models.Targets, p *models.UserProfile) bool {
	if t.Calories <= 0 || t.Protein <= 0 || t.Carbs <= 0 || t.Fat <= 0 || t.Water <= 0 {
		return false
	}
	est, err := utils.EstimateDailyCalories(p)
	if err != nil {
		// Profile stats unusable for an estimate; accept positive targets.
		return true
	}
	return t.Calories >= est*0.5 && t.Calories <= est*2
}
