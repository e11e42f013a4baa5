package models

import (
	"time"

	"gorm.io/gorm"
)

type AudioNote struct {
	gorm.Model
	UserID     uint `gorm:"index;not null"`
	AudioURL   string
	Transcript string
	Duration   float64 // секунды
	Timestamp  time.Time `gorm:"index"`
}
