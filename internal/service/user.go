package service

import (
	"errors"
	"strings"

	"oratio/internal/models"
	"oratio/internal/repository"
)

// UserService 處理用戶帳號、經驗值和統計
type UserService struct {
	users        repository.UserRepository
	participants repository.ParticipantRepository
	results      repository.ResultRepository
	feedbacks    repository.FeedbackRepository
}

func NewUserService(
	users repository.UserRepository,
	participants repository.ParticipantRepository,
	results repository.ResultRepository,
	feedbacks repository.FeedbackRepository,
) *UserService {
	return &UserService{
		users:        users,
		participants: participants,
		results:      results,
		feedbacks:    feedbacks,
	}
}

func (s *UserService) CreateUser(user *models.User) error {
	return s.users.Create(user)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.users.FindByUsername(username)
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.users.FindByID(id)
}

// Leaderboard 依經驗值由高到低列出用戶
func (s *UserService) Leaderboard(limit int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.FindAll(limit)
}

// 單則回饋的長度上限（字元數）
const maxFeedbackLength = 5000

// SubmitFeedback 記錄用戶對平台的意見回饋
// category 留空時歸入 general
func (s *UserService) SubmitFeedback(userID uint, category, message string) (*models.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrFeedbackEmpty
	}
	if len([]rune(message)) > maxFeedbackLength {
		return nil, ErrFeedbackTooLong
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = "general"
	}

	feedback := &models.Feedback{
		UserID:   userID,
		Category: category,
		Message:  message,
	}
	if err := s.feedbacks.Create(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// UserStats 是用戶的辯論戰績總覽
type UserStats struct {
	UserID         uint    `json:"user_id"`
	Username       string  `json:"username"`
	XP             int     `json:"xp"`
	DebatesJoined  int     `json:"debates_joined"`
	DebatesWon     int     `json:"debates_won"`
	WinRate        float64 `json:"win_rate"`
	AverageScore   float64 `json:"average_score"`
	TotalReactions int     `json:"total_reactions"`
}

// Stats 彙整一位用戶參加過的所有辯論的戰績
// 只統計已有結果的場次，進行中的辯論不計入勝率
func (s *UserService) Stats(userID uint) (*UserStats, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participants.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID:   user.ID,
		Username: user.Username,
		XP:       user.XP,
	}

	var scoreSum float64
	var scored int
	var finished int
	for i := range participants {
		p := &participants[i]
		if p.Role != models.RoleDebater {
			continue
		}
		stats.DebatesJoined++

		result, err := s.results.FindByRoomID(p.RoomID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		finished++

		if result.WinnerID != nil && *result.WinnerID == p.ID {
			stats.DebatesWon++
		}
		if avg, ok := result.Scores[participantKey(p.ID)]; ok {
			scoreSum += avg.Weighted()
			scored++
		}
		stats.TotalReactions += result.SpectatorInfluence[participantKey(p.ID)]
	}

	if finished > 0 {
		stats.WinRate = float64(stats.DebatesWon) / float64(finished)
	}
	if scored > 0 {
		stats.AverageScore = scoreSum / float64(scored)
	}
	return stats, nil
}
