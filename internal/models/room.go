package models

import (
	"time"

	"gorm.io/gorm"
)

// Room 表示一個辯論房間
type Room struct {
	gorm.Model
	Topic         string       `gorm:"not null" json:"topic"`                   // 辯題
	Description   string       `json:"description"`                             // 描述
	RoomCode      string       `gorm:"uniqueIndex;size:6" json:"room_code"`     // 六位數邀請碼
	Format        DebateFormat `gorm:"type:varchar(20)" json:"format"`          // 個人賽或團隊賽
	Rounds        int          `gorm:"not null" json:"rounds"`                  // 總回合數
	Status        RoomStatus   `gorm:"type:varchar(20);index" json:"status"`    // 房間狀態
	HostID        uint         `gorm:"not null" json:"host_id"`                 // 主持人的用戶 ID
	ScheduledTime time.Time    `json:"scheduled_time"`                          // 預定開始時間
	DurationMin   int          `json:"duration_minutes"`                        // 預計時長（分鐘）
	Visibility    string       `gorm:"default:'public'" json:"visibility"`      // public / private
}

// RoomStatus 定義房間狀態的類型
// 狀態只會往前推進：upcoming -> ongoing -> completed
type RoomStatus string

const (
	RoomStatusUpcoming  RoomStatus = "upcoming"
	RoomStatusOngoing   RoomStatus = "ongoing"
	RoomStatusCompleted RoomStatus = "completed"
)

// DebateFormat 定義辯論賽制
type DebateFormat string

const (
	FormatIndividual DebateFormat = "individual" // 個人賽
	FormatTeam       DebateFormat = "team"       // 團隊賽，連續發言規則以隊伍為單位
)
