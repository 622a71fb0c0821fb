package models

import (
	"gorm.io/gorm"
)

// Feedback 是用戶對平台提出的意見回饋
type Feedback struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Category string `gorm:"type:varchar(30)" json:"category"` // 例如 bug、feature、general
	Message  string `gorm:"type:text" json:"message"`
}
