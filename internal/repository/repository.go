package repository

import (
	"errors"

	"oratio/internal/storage"
)

// ErrNotFound 表示查詢的記錄不存在，兩種儲存後端都回傳這個錯誤
var ErrNotFound = errors.New("record not found")

// Repositories 聚合所有實體的儲存介面
// 後端實作（postgres 或 memory）在啟動時決定
type Repositories struct {
	User          UserRepository
	Room          RoomRepository
	Participant   ParticipantRepository
	Turn          TurnRepository
	Result        ResultRepository
	SpectatorVote SpectatorVoteRepository
	Feedback      FeedbackRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Room:          NewRoomRepository(db),
		Participant:   NewParticipantRepository(db),
		Turn:          NewTurnRepository(db),
		Result:        NewResultRepository(db),
		SpectatorVote: NewSpectatorVoteRepository(db),
		Feedback:      NewFeedbackRepository(db),
	}
}
