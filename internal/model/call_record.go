package model

import (
	"time"
)

// CallRecord is a cached call-log row kept for admin dashboards and
// statistics. The live call-log endpoint fetches from the platform
// directly; these rows are removed with the clinic on teardown.
type CallRecord struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ClinicID   uint      `json:"clinic_id" gorm:"index;not null"`
	VapiCallID string    `json:"vapi_call_id" gorm:"type:varchar(100)"`
	FromNumber string    `json:"from_number" gorm:"type:varchar(30)"`
	Duration   int       `json:"duration"`
	Status     string    `json:"status" gorm:"type:varchar(30)"`
	CreatedAt  time.Time `json:"created_at"`
}
