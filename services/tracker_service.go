package services

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidWeight = errors.New("weight must be positive")
)

// DailyWaterTotal sums intake for logs falling on the same local calendar
// day as date, bounds inclusive.
func DailyWaterTotal(logs []models.WaterLog, date time.Time) float64 {
	var total float64
	for _, l := range logs {
		if sameDay(l.LoggedAt, date) {
			total += l.AmountMl
		}
	}
	return total
}

// WaterProgress is the clamped fill ratio for the hydration ring. Amounts
// are always positive so the result is never negative.
func WaterProgress(totalMl, goalMl float64) float64 {
	if goalMl <= 0 {
		return 0
	}
	p := totalMl / goalMl
	if p > 1 {
		return 1
	}
	return p
}

// LatestOrSameDayWeight prefers an entry logged on the same calendar day as
// date; otherwise it falls back to the chronologically last entry overall.
// Returns nil when no logs exist.
func LatestOrSameDayWeight(logs []models.WeightLog, date time.Time) *float64 {
	var sameDayLog, latest *models.WeightLog
	for i := range logs {
		l := &logs[i]
		if sameDay(l.LoggedAt, date) {
			if sameDayLog == nil || l.LoggedAt.After(sameDayLog.LoggedAt) {
				sameDayLog = l
			}
		}
		if latest == nil || l.LoggedAt.After(latest.LoggedAt) {
			latest = l
		}
	}
	if sameDayLog != nil {
		w := sameDayLog.WeightKg
		return &w
	}
	if latest != nil {
		w := latest.WeightKg
		return &w
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return dayStart(a).Equal(dayStart(b))
}

type TrackerService struct {
	db *gorm.DB
	rt *RealtimeHub
}

func NewTrackerService(db *gorm.DB, rt *RealtimeHub) *TrackerService {
	return &TrackerService{db: db, rt: rt}
}

func (s *TrackerService) AddWater(ctx context.Context, userID uint, amountMl float64, at time.Time) (*models.WaterLog, error) {
	if amountMl <= 0 {
		return nil, ErrInvalidAmount
	}
	if at.IsZero() {
		at = time.Now()
	}
	log := &models.WaterLog{UserID: userID, AmountMl: amountMl, LoggedAt: at}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	s.rt.Broadcast(userID, EventWaterLogged, log)
	return log, nil
}

func (s *TrackerService) WaterForDay(ctx context.Context, userID uint, date time.Time) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at <= ?", userID, dayStart(date), dayEnd(date)).
		Order("logged_at ASC").
		Find(&logs).Error
	return logs, err
}

func (s *TrackerService) AddWeight(ctx context.Context, userID uint, weightKg float64, at time.Time) (*models.WeightLog, error) {
	if weightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	if at.IsZero() {
		at = time.Now()
	}
	log := &models.WeightLog{UserID: userID, WeightKg: weightKg, LoggedAt: at}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	s.rt.Broadcast(userID, EventWeightLogged, log)
	return log, nil
}

// WeightHistory returns the trailing window of weight entries, oldest first.
func (s *TrackerService) WeightHistory(ctx context.Context, userID uint, days int) ([]models.WeightLog, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	var logs []models.WeightLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ?", userID, since).
		Order("logged_at ASC").
		Find(&logs).Error
	return logs, err
}

// LatestWeight mirrors LatestOrSameDayWeight against the store.
func (s *TrackerService) LatestWeight(ctx context.Context, userID uint, date time.Time) (*float64, error) {
	var log models.WeightLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at <= ?", userID, dayStart(date), dayEnd(date)).
		Order("logged_at DESC").
		First(&log).Error
	if err == nil {
		w := log.WeightKg
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	w := log.WeightKg
	return &w, nil
}
