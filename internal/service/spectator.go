package service

import (
	"errors"

	"oratio/internal/models"
	"oratio/internal/repository"
)

// SpectatorService 處理觀眾的即時反應和支持度統計
type SpectatorService struct {
	rooms        repository.RoomRepository
	participants repository.ParticipantRepository
	votes        repository.SpectatorVoteRepository
	broadcaster  Broadcaster
}

func NewSpectatorService(
	rooms repository.RoomRepository,
	participants repository.ParticipantRepository,
	votes repository.SpectatorVoteRepository,
	broadcaster Broadcaster,
) *SpectatorService {
	return &SpectatorService{
		rooms:        rooms,
		participants: participants,
		votes:        votes,
		broadcaster:  broadcaster,
	}
}

// Reward 記錄觀眾對辯論者的反應並即時廣播
// 反應不限次數，也不影響勝負判定
func (s *SpectatorService) Reward(roomID, spectatorUserID, targetID uint, reactionType string) (*models.SpectatorVote, error) {
	room, err := s.rooms.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	target, err := s.participants.FindByID(targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotParticipant
	}
	if err != nil {
		return nil, err
	}
	// 反應只能給同房間的辯論者
	if target.RoomID != room.ID || target.Role != models.RoleDebater {
		return nil, ErrNotParticipant
	}

	vote := &models.SpectatorVote{
		RoomID:       room.ID,
		SpectatorID:  spectatorUserID,
		TargetID:     targetID,
		ReactionType: reactionType,
	}
	if err := s.votes.Create(vote); err != nil {
		return nil, err
	}

	s.broadcaster.Publish(room.ID, Event{
		Type: EventNewReaction,
		Data: map[string]interface{}{
			"target_id":     targetID,
			"reaction_type": reactionType,
		},
	})
	return vote, nil
}

// SpectatorStats 是房間內觀眾反應的即時統計
type SpectatorStats struct {
	RoomID         uint               `json:"room_id"`
	TotalReactions int                `json:"total_reactions"`
	Reactions      models.CountMap    `json:"reactions"`       // Participant ID -> 反應數
	Support        map[string]float64 `json:"support"`         // Participant ID -> 支持度百分比
	SpectatorCount int                `json:"spectator_count"` // 已加入的觀眾人數
}

// Stats 彙整房間內的觀眾反應
func (s *SpectatorService) Stats(roomID uint) (*SpectatorStats, error) {
	if _, err := s.rooms.FindByID(roomID); errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	} else if err != nil {
		return nil, err
	}

	votes, err := s.votes.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}

	stats := &SpectatorStats{
		RoomID:    roomID,
		Reactions: models.CountMap{},
		Support:   map[string]float64{},
	}
	for _, p := range participants {
		if p.Role == models.RoleSpectator {
			stats.SpectatorCount++
		} else {
			// 沒收到反應的辯論者也要出現在統計裡
			stats.Reactions[participantKey(p.ID)] = 0
		}
	}

	for _, vote := range votes {
		stats.Reactions[participantKey(vote.TargetID)]++
		stats.TotalReactions++
	}

	if stats.TotalReactions > 0 {
		for key, count := range stats.Reactions {
			stats.Support[key] = float64(count) / float64(stats.TotalReactions) * 100
		}
	}
	return stats, nil
}
