package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// Result 表示一場辯論的最終結果，每個房間至多一筆
type Result struct {
	gorm.Model
	RoomID             uint      `gorm:"not null;uniqueIndex" json:"room_id"`
	WinnerID           *uint     `json:"winner_id"` // 獲勝者的 Participant ID，可能沒有
	Scores             ScoreMap  `gorm:"type:jsonb" json:"scores"`
	Feedback           StringMap `gorm:"type:jsonb" json:"feedback"`
	Summary            string    `gorm:"type:text" json:"summary"`
	SpectatorInfluence CountMap  `gorm:"type:jsonb" json:"spectator_influence"`
}

// ScoreMap 以 Participant ID 為鍵的分數表
type ScoreMap map[string]Score

func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		m = ScoreMap{}
	}
	return json.Marshal(m)
}

func (m *ScoreMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// StringMap 以 Participant ID 為鍵的文字回饋表
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		m = StringMap{}
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// CountMap 以 Participant ID 為鍵的觀眾反應計數表
type CountMap map[string]int

func (m CountMap) Value() (driver.Value, error) {
	if m == nil {
		m = CountMap{}
	}
	return json.Marshal(m)
}

func (m *CountMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func scanJSON(value interface{}, dest interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("unsupported jsonb column type")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, dest)
}
