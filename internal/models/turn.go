package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Turn 表示一次論點提交
// Timestamp 由伺服器在寫入時指定，是連續發言檢查的唯一依據
type Turn struct {
	gorm.Model
	RoomID      uint          `gorm:"not null;index" json:"room_id"`
	SpeakerID   uint          `gorm:"not null" json:"speaker_id"` // 發言者的 Participant ID
	Content     string        `gorm:"type:text" json:"content"`
	AudioURL    *string       `json:"audio_url"`                       // 語音提交才有值
	RoundNumber int           `gorm:"not null;index" json:"round_number"` // 從 1 起算，不可超過房間設定的回合數
	TurnNumber  int           `json:"turn_number"`
	AIFeedback  *TurnFeedback `gorm:"type:jsonb" json:"ai_feedback"` // 評分前為 null，評分後只寫入一次
	Timestamp   time.Time     `gorm:"not null" json:"timestamp"`
}

// TurnFeedback 是 AI 對單一發言的 LCR 評分與回饋
type TurnFeedback struct {
	Logic       float64  `json:"logic"`
	Credibility float64  `json:"credibility"`
	Rhetoric    float64  `json:"rhetoric"`
	Feedback    string   `json:"feedback"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
}

func (f TurnFeedback) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *TurnFeedback) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("unsupported feedback column type")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, f)
}
