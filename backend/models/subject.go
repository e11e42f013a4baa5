package models

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	gorm.Model
	Name   string `gorm:"not null"` // уникально в пределах пользователя, проверяется в контроллере
	Color  string `gorm:"default:#3B82F6"`
	UserID uint   `gorm:"index;not null"`

	StudySessions []StudySession `gorm:"constraint:OnDelete:CASCADE"`
}

type StudySession struct {
	gorm.Model
	SubjectID  uint    `gorm:"index;not null"`
	TimeSpent  float64 `gorm:"not null"` // часы
	Topic      string
	FocusLevel *int // шкала 1-10, может отсутствовать
	Notes      string
	Timestamp  time.Time `gorm:"index"`

	Subject Subject
}
