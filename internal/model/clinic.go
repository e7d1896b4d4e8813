package model

import (
	"time"
)

// Clinic represents a registered clinic account, the unit of data isolation.
// The administrative account is a clinic row carrying the "admin" role.
type Clinic struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"type:varchar(255);not null"`
	ClinicName string    `json:"clinic_name" gorm:"type:varchar(100);not null"`
	Role       string    `json:"role,omitempty" gorm:"type:varchar(20)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
