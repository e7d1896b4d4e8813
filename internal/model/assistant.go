package model

import (
	"time"
)

// Assistant is a local pointer to a conversational agent hosted on the
// voice platform. The authoritative configuration (model, voice, prompt,
// knowledge files) lives only on the platform side.
type Assistant struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ClinicID        uint      `json:"clinic_id" gorm:"uniqueIndex;not null"`
	VapiAssistantID string    `json:"vapi_assistant_id" gorm:"type:varchar(100);not null"`
	CreatedAt       time.Time `json:"created_at"`
}
