package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"oratio/internal/cache"
	"oratio/internal/models"
	"oratio/internal/repository"
)

// RoomService 處理房間的建立、查詢和參與
type RoomService struct {
	rooms        repository.RoomRepository
	participants repository.ParticipantRepository
	broadcaster  Broadcaster
	cache        *cache.Cache
}

func NewRoomService(
	rooms repository.RoomRepository,
	participants repository.ParticipantRepository,
	broadcaster Broadcaster,
	c *cache.Cache,
) *RoomService {
	return &RoomService{
		rooms:        rooms,
		participants: participants,
		broadcaster:  broadcaster,
		cache:        c,
	}
}

// CreateRoomInput 是建立房間需要的欄位
type CreateRoomInput struct {
	Topic         string
	Description   string
	Format        models.DebateFormat
	Rounds        int
	ScheduledTime time.Time
	DurationMin   int
	Visibility    string
}

func (s *RoomService) CreateRoom(hostID uint, input CreateRoomInput) (*models.Room, error) {
	if input.Format == "" {
		input.Format = models.FormatIndividual
	}
	if input.Rounds <= 0 {
		input.Rounds = 3
	}
	if input.Visibility == "" {
		input.Visibility = "public"
	}

	code, err := s.generateRoomCode()
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		Topic:         input.Topic,
		Description:   input.Description,
		RoomCode:      code,
		Format:        input.Format,
		Rounds:        input.Rounds,
		Status:        models.RoomStatusUpcoming,
		HostID:        hostID,
		ScheduledTime: input.ScheduledTime,
		DurationMin:   input.DurationMin,
		Visibility:    input.Visibility,
	}
	if err := s.rooms.Create(room); err != nil {
		return nil, err
	}
	return room, nil
}

// generateRoomCode 產生唯一的六位邀請碼，撞碼時重抽
func (s *RoomService) generateRoomCode() (string, error) {
	for {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		code := strings.ToUpper(hex.EncodeToString(buf))
		_, err := s.rooms.FindByCode(code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	room, err := s.rooms.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

// ListRooms 查詢房間列表，status 為空時不過濾
func (s *RoomService) ListRooms(status models.RoomStatus, limit int) ([]models.Room, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.rooms.FindAll(status, limit)
}

// ListParticipants 列出房間內所有參與者
func (s *RoomService) ListParticipants(roomID uint) ([]models.Participant, error) {
	if _, err := s.GetRoom(roomID); err != nil {
		return nil, err
	}
	return s.participants.FindByRoomID(roomID)
}

// UpdateRoomInput 是主持人可以修改的欄位，nil 表示不變
type UpdateRoomInput struct {
	Topic       *string
	Description *string
	Rounds      *int
}

func (s *RoomService) UpdateRoom(roomID, userID uint, input UpdateRoomInput) (*models.Room, error) {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.HostID != userID {
		return nil, ErrNotHost
	}

	if input.Topic != nil {
		room.Topic = *input.Topic
	}
	if input.Description != nil {
		room.Description = *input.Description
	}
	// 回合數只能在開始前修改
	if input.Rounds != nil && *input.Rounds > 0 && room.Status == models.RoomStatusUpcoming {
		room.Rounds = *input.Rounds
	}

	if err := s.rooms.Update(room); err != nil {
		return nil, err
	}
	s.cache.Delete(statusCacheKey(room.ID))
	return room, nil
}

func (s *RoomService) DeleteRoom(roomID, userID uint) error {
	room, err := s.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room.HostID != userID {
		return ErrNotHost
	}
	if room.Status == models.RoomStatusOngoing {
		return ErrRoomNotOngoing
	}
	return s.rooms.Delete(roomID)
}

// JoinRoom 以辯論者身份用邀請碼加入房間
// 同一個用戶重複加入時直接回傳既有的參與記錄
func (s *RoomService) JoinRoom(roomCode string, userID uint, team string) (*models.Participant, error) {
	room, err := s.findByCode(roomCode)
	if err != nil {
		return nil, err
	}

	if existing, err := s.participants.FindByUserAndRoom(userID, room.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 辯論開始後就不再收辯論者
	if room.Status != models.RoomStatusUpcoming {
		return nil, ErrRoomNotOpen
	}

	participant := &models.Participant{
		UserID: userID,
		RoomID: room.ID,
		Role:   models.RoleDebater,
		Team:   team,
	}
	if err := s.participants.Create(participant); err != nil {
		return nil, err
	}

	s.afterMembershipChange(room.ID, "joined", participant)
	return participant, nil
}

// JoinAsSpectator 以觀眾身份加入，辯論進行中也可以旁聽
func (s *RoomService) JoinAsSpectator(roomCode string, userID uint) (*models.Participant, error) {
	room, err := s.findByCode(roomCode)
	if err != nil {
		return nil, err
	}

	if existing, err := s.participants.FindByUserAndRoom(userID, room.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	spectator := &models.Participant{
		UserID:  userID,
		RoomID:  room.ID,
		Role:    models.RoleSpectator,
		IsReady: true,
	}
	if err := s.participants.Create(spectator); err != nil {
		return nil, err
	}

	s.afterMembershipChange(room.ID, "joined", spectator)
	return spectator, nil
}

// MarkReady 標記參與者已準備
func (s *RoomService) MarkReady(participantID, userID uint) (*models.Participant, error) {
	participant, err := s.ownedParticipant(participantID, userID)
	if err != nil {
		return nil, err
	}

	participant.IsReady = true
	if err := s.participants.Update(participant); err != nil {
		return nil, err
	}

	s.afterMembershipChange(participant.RoomID, "ready", participant)
	return participant, nil
}

// Leave 離開房間。
// 辯論者在進行中的房間裡不能離開，避免留下指向已刪除參與者的發言；
// 觀眾隨時可以離開。
func (s *RoomService) Leave(participantID, userID uint) error {
	participant, err := s.ownedParticipant(participantID, userID)
	if err != nil {
		return err
	}

	if participant.Role == models.RoleDebater {
		room, err := s.rooms.FindByID(participant.RoomID)
		if err == nil && room.Status == models.RoomStatusOngoing {
			return ErrDebaterInMatch
		}
	}

	if err := s.participants.Delete(participant.ID); err != nil {
		return err
	}

	s.afterMembershipChange(participant.RoomID, "left", participant)
	return nil
}

func (s *RoomService) findByCode(roomCode string) (*models.Room, error) {
	room, err := s.rooms.FindByCode(strings.ToUpper(roomCode))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

func (s *RoomService) ownedParticipant(participantID, userID uint) (*models.Participant, error) {
	participant, err := s.participants.FindByID(participantID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotParticipant
	}
	if err != nil {
		return nil, err
	}
	if participant.UserID != userID {
		return nil, ErrNotParticipant
	}
	return participant, nil
}

func (s *RoomService) afterMembershipChange(roomID uint, action string, participant *models.Participant) {
	s.cache.Delete(statusCacheKey(roomID))
	s.broadcaster.Publish(roomID, Event{
		Type: EventParticipantUpdate,
		Data: map[string]interface{}{
			"action":         action,
			"participant_id": participant.ID,
			"user_id":        participant.UserID,
			"role":           participant.Role,
		},
	})
}
