package repository

import (
	"errors"

	"gorm.io/gorm"

	"oratio/internal/models"
	"oratio/internal/storage"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	FindByCode(code string) (*models.Room, error)
	FindAll(status models.RoomStatus, limit int) ([]models.Room, error)
	Update(room *models.Room) error
	Delete(id uint) error
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByCode(code string) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("room_code = ?", code).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindAll 查詢房間列表，status 為空時不過濾
func (r *roomRepository) FindAll(status models.RoomStatus, limit int) ([]models.Room, error) {
	var rooms []models.Room
	query := r.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) Update(room *models.Room) error {
	return r.db.Save(room).Error
}

func (r *roomRepository) Delete(id uint) error {
	return r.db.Delete(&models.Room{}, id).Error
}
