package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:student"` // student, admin
	AcademicGoal string
	FocusAreas   string

	Subjects   []Subject   `gorm:"constraint:OnDelete:CASCADE"`
	AudioNotes []AudioNote `gorm:"constraint:OnDelete:CASCADE"`
}
