package services

import (
	"context"
	"errors"
	"math"
	"time"

	"backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrInvalidQuantity rejects a rescale before any stored value is touched.
// The UI steps quantity in 0.5 increments with a 0.5 floor, so anything
// non-positive is a caller bug.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// RescaledFields is the {quantity, calories, macros} subset a quantity edit
// writes back.
type RescaledFields struct {
	Quantity float64
	Calories float64
	Macros   Macros
}

// RescaleLog recomputes calories and macros proportionally for a new serving
// quantity, preserving the per-unit nutrient density of the stored record.
// Each edit rescales from the currently stored (already rounded) values, so
// repeated edits compound rounding error; that lossiness is long-standing
// observed behavior and intentionally kept.
func RescaleLog(l *models.FoodLog, newQty float64) (RescaledFields, error) {
	if newQty <= 0 {
		return RescaledFields{}, ErrInvalidQuantity
	}
	cur := l.Quantity
	if cur <= 0 {
		cur = 1
	}
	ratio := newQty / cur
	return RescaledFields{
		Quantity: newQty,
		Calories: math.Round(l.Calories * ratio),
		Macros: Macros{
			Protein: math.Round(l.Protein * ratio),
			Carbs:   math.Round(l.Carbs * ratio),
			Fat:     math.Round(l.Fat * ratio),
		},
	}, nil
}

type LogService struct {
	db *gorm.DB
	rt *RealtimeHub
}

func NewLogService(db *gorm.DB, rt *RealtimeHub) *LogService {
	return &LogService{db: db, rt: rt}
}

// Create persists a validated analysis as a FoodLog in the user's namespace.
func (s *LogService) Create(ctx context.Context, userID uint, a *FoodAnalysis, imageURI string, loggedAt time.Time) (*models.FoodLog, error) {
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}
	log := &models.FoodLog{
		UserID:            userID,
		FoodName:          a.FoodName,
		Calories:          a.Calories,
		Protein:           a.Macros.Protein,
		Carbs:             a.Macros.Carbs,
		Fat:               a.Macros.Fat,
		Micros:            datatypes.JSONMap(a.Micros),
		Category:          a.Category,
		Quantity:          a.Quantity,
		HealthScore:       a.HealthScore,
		HealthScoreReason: a.HealthScoreReason,
		Confidence:        a.Confidence,
		ImageURI:          imageURI,
		LoggedAt:          loggedAt,
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	s.rt.Broadcast(userID, EventLogCreated, log)
	return log, nil
}

func (s *LogService) ListByDate(ctx context.Context, userID uint, date time.Time) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at <= ?", userID, dayStart(date), dayEnd(date)).
		Order("logged_at DESC").
		Find(&logs).Error
	return logs, err
}

func (s *LogService) Get(ctx context.Context, userID, logID uint) (*models.FoodLog, error) {
	var log models.FoodLog
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		First(&log).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &log, nil
}

func (s *LogService) Delete(ctx context.Context, userID, logID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		Delete(&models.FoodLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.rt.Broadcast(userID, EventLogDeleted, map[string]uint{"id": logID})
	return nil
}

// UpdateQuantity applies a rescale edit. Only the {quantity, calories,
// macros} subset is written; the store's per-row write keeps the update
// atomic without a cross-record transaction.
func (s *LogService) UpdateQuantity(ctx context.Context, userID, logID uint, newQty float64) (*models.FoodLog, error) {
	log, err := s.Get(ctx, userID, logID)
	if err != nil {
		return nil, err
	}

	fields, err := RescaleLog(log, newQty)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(log).
		Updates(map[string]any{
			"quantity": fields.Quantity,
			"calories": fields.Calories,
			"protein":  fields.Macros.Protein,
			"carbs":    fields.Macros.Carbs,
			"fat":      fields.Macros.Fat,
		}).Error
	if err != nil {
		return nil, err
	}
	s.rt.Broadcast(userID, EventLogUpdated, log)
	return log, nil
}
