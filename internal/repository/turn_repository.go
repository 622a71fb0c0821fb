package repository

import (
	"errors"

	"gorm.io/gorm"

	"oratio/internal/models"
	"oratio/internal/storage"
)

type TurnRepository interface {
	Create(turn *models.Turn) error
	FindByID(id uint) (*models.Turn, error)
	// FindByRoomID 回傳房間內所有發言，依提交時間戳排序
	// 連續發言檢查以最後一筆為準
	FindByRoomID(roomID uint) ([]models.Turn, error)
	FindByRoomAndRound(roomID uint, round int) ([]models.Turn, error)
	// UpdateFeedback 把 AI 評分寫回發言，每筆發言只會寫入一次
	UpdateFeedback(id uint, feedback *models.TurnFeedback) error
}

type turnRepository struct {
	db *storage.PostgresDB
}

func NewTurnRepository(db *storage.PostgresDB) TurnRepository {
	return &turnRepository{db: db}
}

func (r *turnRepository) Create(turn *models.Turn) error {
	return r.db.Create(turn).Error
}

func (r *turnRepository) FindByID(id uint) (*models.Turn, error) {
	var turn models.Turn
	err := r.db.First(&turn, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

func (r *turnRepository) FindByRoomID(roomID uint) ([]models.Turn, error) {
	var turns []models.Turn
	err := r.db.Where("room_id = ?", roomID).Order("timestamp asc").Find(&turns).Error
	return turns, err
}

func (r *turnRepository) FindByRoomAndRound(roomID uint, round int) ([]models.Turn, error) {
	var turns []models.Turn
	err := r.db.Where("room_id = ? AND round_number = ?", roomID, round).
		Order("timestamp asc").Find(&turns).Error
	return turns, err
}

func (r *turnRepository) UpdateFeedback(id uint, feedback *models.TurnFeedback) error {
	return r.db.Model(&models.Turn{}).Where("id = ?", id).
		Update("ai_feedback", feedback).Error
}
