package model

import (
	"time"
)

// KnowledgeFile is a local pointer to a document stored on the voice
// platform's file store and attached to the clinic's assistant.
type KnowledgeFile struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ClinicID         uint      `json:"clinic_id" gorm:"index;not null"`
	Filename         string    `json:"filename" gorm:"type:varchar(255);not null"`
	OriginalFilename string    `json:"original_filename" gorm:"type:varchar(255);not null"`
	VapiFileID       string    `json:"vapi_file_id" gorm:"type:varchar(100);not null"`
	UploadedAt       time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}
