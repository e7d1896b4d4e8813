package model

import (
	"time"
)

// PhoneNumber is a local pointer to a telephony number owned by the
// voice platform. At most one active number per clinic; the unique index
// backs the transactional re-check in the store.
type PhoneNumber struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ClinicID    uint      `json:"clinic_id" gorm:"uniqueIndex;not null"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(30);not null"`
	VapiPhoneID string    `json:"vapi_phone_id" gorm:"type:varchar(100);not null"`
	AreaCode    string    `json:"area_code" gorm:"type:varchar(10)"`
	CreatedAt   time.Time `json:"created_at"`
}
