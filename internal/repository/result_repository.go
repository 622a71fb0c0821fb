package repository

import (
	"errors"

	"gorm.io/gorm"

	"oratio/internal/models"
	"oratio/internal/storage"
)

type ResultRepository interface {
	Create(result *models.Result) error
	// FindByRoomID 查詢房間的結果，不存在時回傳 ErrNotFound
	FindByRoomID(roomID uint) (*models.Result, error)
}

type resultRepository struct {
	db *storage.PostgresDB
}

func NewResultRepository(db *storage.PostgresDB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *models.Result) error {
	return r.db.Create(result).Error
}

func (r *resultRepository) FindByRoomID(roomID uint) (*models.Result, error) {
	var result models.Result
	err := r.db.Where("room_id = ?", roomID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
