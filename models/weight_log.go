package models

import (
	"time"

	"gorm.io/gorm"
)

type WeightLog struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null"`
	WeightKg float64   `gorm:"not null"`
	LoggedAt time.Time `gorm:"index;not null"`
}
