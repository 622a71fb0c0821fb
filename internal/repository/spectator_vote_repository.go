package repository

import (
	"oratio/internal/models"
	"oratio/internal/storage"
)

type SpectatorVoteRepository interface {
	Create(vote *models.SpectatorVote) error
	FindByRoomID(roomID uint) ([]models.SpectatorVote, error)
}

type spectatorVoteRepository struct {
	db *storage.PostgresDB
}

func NewSpectatorVoteRepository(db *storage.PostgresDB) SpectatorVoteRepository {
	return &spectatorVoteRepository{db: db}
}

func (r *spectatorVoteRepository) Create(vote *models.SpectatorVote) error {
	return r.db.Create(vote).Error
}

func (r *spectatorVoteRepository) FindByRoomID(roomID uint) ([]models.SpectatorVote, error) {
	var votes []models.SpectatorVote
	err := r.db.Where("room_id = ?", roomID).Find(&votes).Error
	return votes, err
}
