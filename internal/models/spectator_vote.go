package models

import (
	"gorm.io/gorm"
)

// SpectatorVote 表示觀眾對某位辯論者的即時反應
type SpectatorVote struct {
	gorm.Model
	RoomID       uint   `gorm:"not null;index" json:"room_id"`
	SpectatorID  uint   `gorm:"not null" json:"spectator_id"` // 投票觀眾的用戶 ID
	TargetID     uint   `gorm:"not null" json:"target_id"`    // 被支持的 Participant ID
	ReactionType string `gorm:"type:varchar(20)" json:"reaction_type"`
}
