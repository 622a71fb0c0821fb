package repository

import (
	"oratio/internal/models"
	"oratio/internal/storage"
)

type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	FindByUserID(userID uint) ([]models.Feedback, error)
}

type feedbackRepository struct {
	db *storage.PostgresDB
}

func NewFeedbackRepository(db *storage.PostgresDB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

func (r *feedbackRepository) FindByUserID(userID uint) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := r.db.Where("user_id = ?", userID).Find(&feedbacks).Error
	return feedbacks, err
}
