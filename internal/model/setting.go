package model

import (
	"time"
)

// SettingDefaultPrompt is the name of the global default-prompt record.
const SettingDefaultPrompt = "default_prompt"

// Setting is a single named configuration record. The default system
// prompt used to seed new assistants is stored here rather than as a
// process-global variable.
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by" gorm:"type:varchar(100)"`
}
