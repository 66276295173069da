package services

import (
	"context"
	"errors"

	"backend/models"

	"gorm.io/gorm"
)

// ErrProfileExists guards the one-time onboarding flow; profiles are
// read-mostly after creation.
var ErrProfileExists = errors.New("profile already exists")

type ProfileService struct {
	db      *gorm.DB
	targets *TargetService
}

func NewProfileService(db *gorm.DB, targets *TargetService) *ProfileService {
	return &ProfileService{db: db, targets: targets}
}

type ProfileInput struct {
	Gender        string  `json:"gender" binding:"required"`
	Age           int     `json:"age" binding:"required,gt=0"`
	HeightCm      float64 `json:"height_cm" binding:"required,gt=0"`
	WeightKg      float64 `json:"weight_kg" binding:"required,gt=0"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	Goal          string  `json:"goal" binding:"required"`
}

// Create builds the profile at onboarding, deriving daily targets from the
// stats via the AI provider (with default fallback).
func (s *ProfileService) Create(ctx context.Context, userID uint, in ProfileInput) (*models.UserProfile, error) {
	var existing models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil, ErrProfileExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:        userID,
		Gender:        in.Gender,
		Age:           in.Age,
		HeightCm:      in.HeightCm,
		WeightKg:      in.WeightKg,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
	}
	profile.Targets = s.targets.TargetsForProfile(ctx, profile)

	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateTargets lets the settings screen override individual goal values.
func (s *ProfileService) UpdateTargets(ctx context.Context, userID uint, t models.Targets) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Targets = t
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
