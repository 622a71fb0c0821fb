package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// Participant 表示用戶在某個房間中的身份
// 每個 (user, room) 組合至多只有一筆記錄
type Participant struct {
	gorm.Model
	UserID   uint            `gorm:"not null;index:idx_user_room,unique" json:"user_id"`
	RoomID   uint            `gorm:"not null;index:idx_user_room,unique" json:"room_id"`
	Role     ParticipantRole `gorm:"type:varchar(20)" json:"role"`
	Team     string          `json:"team,omitempty"` // 團隊賽才會使用
	IsReady  bool            `json:"is_ready"`
	Score    Score           `gorm:"type:jsonb" json:"score"` // 最終平均分數，辯論結束時寫入
	XPEarned int             `json:"xp_earned"`
}

// ParticipantRole 定義房間內的角色
type ParticipantRole string

const (
	RoleDebater   ParticipantRole = "debater"   // 辯論者
	RoleSpectator ParticipantRole = "spectator" // 觀眾
)

// Score 是 LCR 三維度分數，以 jsonb 形式存入資料庫
type Score struct {
	Logic       float64 `json:"logic"`
	Credibility float64 `json:"credibility"`
	Rhetoric    float64 `json:"rhetoric"`
}

// LCR 加權總分的權重，是固定策略常數，不隨房間設定改變
const (
	WeightLogic       = 0.4
	WeightCredibility = 0.35
	WeightRhetoric    = 0.25
)

// Weighted 計算加權總分
func (s Score) Weighted() float64 {
	return s.Logic*WeightLogic + s.Credibility*WeightCredibility + s.Rhetoric*WeightRhetoric
}

func (s Score) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Score) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("unsupported score column type")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, s)
}

// StringList 讓字串切片能以 jsonb 形式存入資料庫
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("unsupported string list column type")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, l)
}
