package repository

import (
	"errors"

	"gorm.io/gorm"

	"oratio/internal/models"
	"oratio/internal/storage"
)

type ParticipantRepository interface {
	Create(participant *models.Participant) error
	FindByID(id uint) (*models.Participant, error)
	FindByRoomID(roomID uint) ([]models.Participant, error)
	FindByUserAndRoom(userID, roomID uint) (*models.Participant, error)
	FindByUserID(userID uint) ([]models.Participant, error)
	Update(participant *models.Participant) error
	Delete(id uint) error
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(participant *models.Participant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepository) FindByID(id uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.First(&participant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// FindByRoomID 查詢房間內的所有參與者，依加入順序排列
func (r *participantRepository) FindByRoomID(roomID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.Where("room_id = ?", roomID).Order("created_at asc").Find(&participants).Error
	return participants, err
}

func (r *participantRepository) FindByUserAndRoom(userID, roomID uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.Where("user_id = ? AND room_id = ?", userID, roomID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) FindByUserID(userID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.Where("user_id = ?", userID).Find(&participants).Error
	return participants, err
}

func (r *participantRepository) Update(participant *models.Participant) error {
	return r.db.Save(participant).Error
}

func (r *participantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Participant{}, id).Error
}
