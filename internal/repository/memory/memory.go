// Package memory 提供不依賴外部資料庫的儲存後端。
//
// 每個方法各自是原子操作，但方法之間沒有交易保證，
// 與 postgres 後端的行為一致；跨多筆記錄的一致性由服務層的房間鎖負責。
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"oratio/internal/models"
	"oratio/internal/repository"
)

// store 持有所有集合，單一互斥鎖保護每一次存取
type store struct {
	mu           sync.Mutex
	nextID       uint
	users        map[uint]models.User
	rooms        map[uint]models.Room
	participants map[uint]models.Participant
	turns        map[uint]models.Turn
	results      map[uint]models.Result
	votes        map[uint]models.SpectatorVote
	feedbacks    map[uint]models.Feedback
}

// NewRepositories 創建記憶體後端的儲存集合
func NewRepositories() *repository.Repositories {
	s := &store{
		nextID:       1,
		users:        make(map[uint]models.User),
		rooms:        make(map[uint]models.Room),
		participants: make(map[uint]models.Participant),
		turns:        make(map[uint]models.Turn),
		results:      make(map[uint]models.Result),
		votes:        make(map[uint]models.SpectatorVote),
		feedbacks:    make(map[uint]models.Feedback),
	}
	return &repository.Repositories{
		User:          &userRepo{s},
		Room:          &roomRepo{s},
		Participant:   &participantRepo{s},
		Turn:          &turnRepo{s},
		Result:        &resultRepo{s},
		SpectatorVote: &voteRepo{s},
		Feedback:      &feedbackRepo{s},
	}
}

func (s *store) allocate() uint {
	id := s.nextID
	s.nextID++
	return id
}

// ---- User ----

type userRepo struct{ s *store }

func (r *userRepo) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	user.ID = r.s.allocate()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) FindAll(limit int) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].XP > users[j].XP })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *userRepo) Update(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

// ---- Room ----

type roomRepo struct{ s *store }

func (r *roomRepo) Create(room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room.ID = r.s.allocate()
	room.CreatedAt = time.Now()
	r.s.rooms[room.ID] = *room
	return nil
}

func (r *roomRepo) FindByID(id uint) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r *roomRepo) FindByCode(code string) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.rooms {
		if room.RoomCode == code {
			candidate := room
			return &candidate, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *roomRepo) FindAll(status models.RoomStatus, limit int) ([]models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rooms := make([]models.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		if status != "" && room.Status != status {
			continue
		}
		rooms = append(rooms, room)
	}
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].CreatedAt.After(rooms[j].CreatedAt) })
	if limit > 0 && len(rooms) > limit {
		rooms = rooms[:limit]
	}
	return rooms, nil
}

func (r *roomRepo) Update(room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[room.ID]; !ok {
		return repository.ErrNotFound
	}
	room.UpdatedAt = time.Now()
	r.s.rooms[room.ID] = *room
	return nil
}

func (r *roomRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.rooms, id)
	return nil
}

// ---- Participant ----

type participantRepo struct{ s *store }

func (r *participantRepo) Create(participant *models.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// 與 postgres 的 (user, room) 唯一索引一致
	for _, existing := range r.s.participants {
		if existing.UserID == participant.UserID && existing.RoomID == participant.RoomID {
			return fmt.Errorf("duplicate participant for user %d in room %d",
				participant.UserID, participant.RoomID)
		}
	}
	participant.ID = r.s.allocate()
	participant.CreatedAt = time.Now()
	r.s.participants[participant.ID] = *participant
	return nil
}

func (r *participantRepo) FindByID(id uint) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	participant, ok := r.s.participants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &participant, nil
}

func (r *participantRepo) FindByRoomID(roomID uint) ([]models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	participants := make([]models.Participant, 0)
	for _, participant := range r.s.participants {
		if participant.RoomID == roomID {
			participants = append(participants, participant)
		}
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].ID < participants[j].ID
	})
	return participants, nil
}

func (r *participantRepo) FindByUserAndRoom(userID, roomID uint) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, participant := range r.s.participants {
		if participant.UserID == userID && participant.RoomID == roomID {
			p := participant
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *participantRepo) FindByUserID(userID uint) ([]models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	participants := make([]models.Participant, 0)
	for _, participant := range r.s.participants {
		if participant.UserID == userID {
			participants = append(participants, participant)
		}
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].ID < participants[j].ID
	})
	return participants, nil
}

func (r *participantRepo) Update(participant *models.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.participants[participant.ID]; !ok {
		return repository.ErrNotFound
	}
	participant.UpdatedAt = time.Now()
	r.s.participants[participant.ID] = *participant
	return nil
}

func (r *participantRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.participants, id)
	return nil
}

// ---- Turn ----

type turnRepo struct{ s *store }

func (r *turnRepo) Create(turn *models.Turn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	turn.ID = r.s.allocate()
	turn.CreatedAt = time.Now()
	r.s.turns[turn.ID] = *turn
	return nil
}

func (r *turnRepo) FindByID(id uint) (*models.Turn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	turn, ok := r.s.turns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &turn, nil
}

func (r *turnRepo) FindByRoomID(roomID uint) ([]models.Turn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(roomID, 0), nil
}

func (r *turnRepo) FindByRoomAndRound(roomID uint, round int) ([]models.Turn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(roomID, round), nil
}

// collect 依提交時間戳排序，時間戳相同時以插入順序決定
func (r *turnRepo) collect(roomID uint, round int) []models.Turn {
	turns := make([]models.Turn, 0)
	for _, turn := range r.s.turns {
		if turn.RoomID != roomID {
			continue
		}
		if round > 0 && turn.RoundNumber != round {
			continue
		}
		turns = append(turns, turn)
	}
	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].Timestamp.Equal(turns[j].Timestamp) {
			return turns[i].ID < turns[j].ID
		}
		return turns[i].Timestamp.Before(turns[j].Timestamp)
	})
	return turns
}

func (r *turnRepo) UpdateFeedback(id uint, feedback *models.TurnFeedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	turn, ok := r.s.turns[id]
	if !ok {
		return repository.ErrNotFound
	}
	turn.AIFeedback = feedback
	turn.UpdatedAt = time.Now()
	r.s.turns[id] = turn
	return nil
}

// ---- Result ----

type resultRepo struct{ s *store }

func (r *resultRepo) Create(result *models.Result) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// 與 postgres 的 room_id 唯一索引一致
	for _, existing := range r.s.results {
		if existing.RoomID == result.RoomID {
			return fmt.Errorf("duplicate result for room %d", result.RoomID)
		}
	}
	result.ID = r.s.allocate()
	result.CreatedAt = time.Now()
	r.s.results[result.ID] = *result
	return nil
}

func (r *resultRepo) FindByRoomID(roomID uint) (*models.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, result := range r.s.results {
		if result.RoomID == roomID {
			res := result
			return &res, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ---- SpectatorVote ----

type voteRepo struct{ s *store }

func (r *voteRepo) Create(vote *models.SpectatorVote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vote.ID = r.s.allocate()
	vote.CreatedAt = time.Now()
	r.s.votes[vote.ID] = *vote
	return nil
}

func (r *voteRepo) FindByRoomID(roomID uint) ([]models.SpectatorVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	votes := make([]models.SpectatorVote, 0)
	for _, vote := range r.s.votes {
		if vote.RoomID == roomID {
			votes = append(votes, vote)
		}
	}
	sort.SliceStable(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes, nil
}

// ---- Feedback ----

type feedbackRepo struct{ s *store }

func (r *feedbackRepo) Create(feedback *models.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	feedback.ID = r.s.allocate()
	feedback.CreatedAt = time.Now()
	r.s.feedbacks[feedback.ID] = *feedback
	return nil
}

func (r *feedbackRepo) FindByUserID(userID uint) ([]models.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	feedbacks := make([]models.Feedback, 0)
	for _, feedback := range r.s.feedbacks {
		if feedback.UserID == userID {
			feedbacks = append(feedbacks, feedback)
		}
	}
	sort.SliceStable(feedbacks, func(i, j int) bool { return feedbacks[i].ID < feedbacks[j].ID })
	return feedbacks, nil
}
