package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"oratio/internal/ai"
	"oratio/internal/cache"
	"oratio/internal/models"
	"oratio/internal/repository"
	"oratio/internal/tasks"
)

// ScoringOracle 是 AI 評分能力的抽象，視為緩慢且可能失敗的外部依賴
type ScoringOracle interface {
	AnalyzeTurn(ctx context.Context, content, topic string) (*models.TurnFeedback, error)
	GenerateVerdict(ctx context.Context, topic string, scores map[string]models.Score) (*ai.Verdict, error)
}

// Transcriber 把音檔轉成文字，同樣是緩慢且可能失敗的外部操作
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// DebateService 負責發言提交、回合偵測、批次評分和結果結算
type DebateService struct {
	rooms        repository.RoomRepository
	participants repository.ParticipantRepository
	turns        repository.TurnRepository
	results      repository.ResultRepository
	votes        repository.SpectatorVoteRepository
	users        repository.UserRepository
	oracle       ScoringOracle
	transcriber  Transcriber
	broadcaster  Broadcaster
	runner       *tasks.Runner
	cache        *cache.Cache
	locks        *roomLocks
	logger       *zap.SugaredLogger
}

func NewDebateService(
	repos *repository.Repositories,
	oracle ScoringOracle,
	transcriber Transcriber,
	broadcaster Broadcaster,
	runner *tasks.Runner,
	c *cache.Cache,
	logger *zap.SugaredLogger,
) *DebateService {
	return &DebateService{
		rooms:        repos.Room,
		participants: repos.Participant,
		turns:        repos.Turn,
		results:      repos.Result,
		votes:        repos.SpectatorVote,
		users:        repos.User,
		oracle:       oracle,
		transcriber:  transcriber,
		broadcaster:  broadcaster,
		runner:       runner,
		cache:        c,
		locks:        newRoomLocks(),
		logger:       logger,
	}
}

func statusCacheKey(roomID uint) string     { return fmt.Sprintf("debate_status_%d", roomID) }
func transcriptCacheKey(roomID uint) string { return fmt.Sprintf("transcript_%d", roomID) }

// invalidateRoomCaches 在任何改變房間狀態的操作之後呼叫
func (s *DebateService) invalidateRoomCaches(roomID uint) {
	s.cache.Delete(statusCacheKey(roomID))
	s.cache.Delete(transcriptCacheKey(roomID))
}

// SubmitTurn 提交一次文字發言。
//
// 驗證和寫入分兩段：鎖外先做一次樂觀預檢，讓大多數非法提交不用搶鎖就被回絕；
// 然後拿房間鎖，對重新撈取的發言狀態把同樣的檢查再跑一次，關閉預檢和寫入之間的競爭窗口。
// 回應立即返回，AI 評分不在這條路徑上。
func (s *DebateService) SubmitTurn(ctx context.Context, roomID, userID uint, content string, roundNumber, turnNumber int) (*models.Turn, error) {
	room, participant, err := s.validateSubmission(roomID, userID, roundNumber)
	if err != nil {
		return nil, err
	}
	return s.admitTurn(room, participant, content, nil, roundNumber, turnNumber)
}

// SubmitAudioTurn 提交一次語音發言。
//
// 轉寫是緩慢的外部操作，會把預檢和寫入之間的競爭窗口拉得很寬，
// 所以 admitTurn 一律在拿鎖前重新撈取發言狀態，不依賴轉寫前看到的資料。
// 轉寫失敗不會讓提交失敗，內容以佔位文字代替。
func (s *DebateService) SubmitAudioTurn(ctx context.Context, roomID, userID uint, audioPath string, roundNumber, turnNumber int) (*models.Turn, error) {
	room, participant, err := s.validateSubmission(roomID, userID, roundNumber)
	if err != nil {
		return nil, err
	}

	content, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		s.logger.Warnw("transcription failed, using placeholder", "room_id", roomID, "error", err)
		content = "(transcription unavailable)"
	}

	return s.admitTurn(room, participant, content, &audioPath, roundNumber, turnNumber)
}

// validateSubmission 做不涉及並發的輸入驗證：
// 房間存在、懶啟動、狀態、回合上界、參與者身份
func (s *DebateService) validateSubmission(roomID, userID uint, roundNumber int) (*models.Room, *models.Participant, error) {
	room, err := s.rooms.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	// 懶啟動：第一次提交讓 upcoming 的房間自動進入 ongoing
	if room.Status == models.RoomStatusUpcoming {
		room.Status = models.RoomStatusOngoing
		if err := s.rooms.Update(room); err != nil {
			return nil, nil, err
		}
		s.invalidateRoomCaches(room.ID)
		s.broadcaster.Publish(room.ID, Event{
			Type: EventDebateStatus,
			Data: map[string]interface{}{"status": models.RoomStatusOngoing},
		})
	}

	if room.Status != models.RoomStatusOngoing {
		return nil, nil, ErrRoomNotOngoing
	}

	// 在任何寫入之前回絕非法的回合數
	if roundNumber < 1 || roundNumber > room.Rounds {
		return nil, nil, ErrInvalidRound
	}

	participant, err := s.participants.FindByUserAndRoom(userID, room.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrNotParticipant
	}
	if err != nil {
		return nil, nil, err
	}

	return room, participant, nil
}

// admitTurn 執行預檢、上鎖複檢和寫入
func (s *DebateService) admitTurn(room *models.Room, speaker *models.Participant, content string, audioURL *string, roundNumber, turnNumber int) (*models.Turn, error) {
	// 樂觀預檢：不上鎖，讓常見的非法提交便宜地失敗
	if err := s.checkAdmission(room, speaker, roundNumber); err != nil {
		return nil, err
	}

	lock := s.locks.get(room.ID)
	lock.Lock()

	// 鎖內對重新撈取的狀態複檢，兩個並發提交可能都通過了上面的預檢
	if err := s.checkAdmission(room, speaker, roundNumber); err != nil {
		lock.Unlock()
		return nil, err
	}

	turn := &models.Turn{
		RoomID:      room.ID,
		SpeakerID:   speaker.ID,
		Content:     content,
		AudioURL:    audioURL,
		RoundNumber: roundNumber,
		TurnNumber:  turnNumber,
		Timestamp:   time.Now(), // 伺服器指定，是連續發言檢查的依據
	}
	if err := s.turns.Create(turn); err != nil {
		lock.Unlock()
		return nil, err
	}
	lock.Unlock()

	s.invalidateRoomCaches(room.ID)
	s.broadcaster.Publish(room.ID, Event{Type: EventNewTurn, Data: turn})

	// 回合偵測離開請求的生命週期，提交的回應不等它
	roomID := room.ID
	s.runner.Go("round-detection", func(ctx context.Context) error {
		return s.onTurnSubmitted(ctx, roomID, roundNumber)
	})

	return turn, nil
}

// checkAdmission 檢查回合容量和連續發言規則，預檢和複檢共用。
// 每次呼叫都重新撈取發言和參與者，絕不依賴呼叫前拿到的快照。
func (s *DebateService) checkAdmission(room *models.Room, speaker *models.Participant, roundNumber int) error {
	participants, err := s.participants.FindByRoomID(room.ID)
	if err != nil {
		return err
	}
	turns, err := s.turns.FindByRoomID(room.ID)
	if err != nil {
		return err
	}

	debaterCount := 0
	teams := make(map[uint]string)
	for _, p := range participants {
		if p.Role == models.RoleDebater {
			debaterCount++
		}
		teams[p.ID] = p.Team
	}

	// 回合容量：同一回合的發言數不能超過辯論者人數
	roundCount := 0
	for _, t := range turns {
		if t.RoundNumber == roundNumber {
			roundCount++
		}
	}
	if roundCount >= debaterCount {
		return ErrRoundFull
	}

	// 連續發言：以提交時間戳最新的那筆為準，turn_number 是客戶端回報的，不可信
	if len(turns) > 0 {
		last := turns[len(turns)-1]
		if last.SpeakerID == speaker.ID {
			return ErrConsecutiveTurn
		}
		if room.Format == models.FormatTeam && speaker.Team != "" && teams[last.SpeakerID] == speaker.Team {
			return ErrConsecutiveTurn
		}
	}

	return nil
}

// EndDebate 由主持人明確結束辯論，同步做狀態轉換和結算
func (s *DebateService) EndDebate(ctx context.Context, roomID, userID uint) (*models.Result, error) {
	room, err := s.rooms.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.HostID != userID {
		return nil, ErrNotHost
	}
	if room.Status != models.RoomStatusOngoing {
		return nil, ErrRoomNotOngoing
	}

	if err := s.completeRoom(room); err != nil {
		return nil, err
	}
	return s.finalize(ctx, room)
}

// completeRoom 把房間推進到 completed 並發布狀態事件
func (s *DebateService) completeRoom(room *models.Room) error {
	room.Status = models.RoomStatusCompleted
	if err := s.rooms.Update(room); err != nil {
		return err
	}
	s.invalidateRoomCaches(room.ID)
	s.broadcaster.Publish(room.ID, Event{
		Type: EventDebateStatus,
		Data: map[string]interface{}{"status": models.RoomStatusCompleted},
	})
	return nil
}

// GetTranscript 取得完整逐字稿，依 (回合, 發言序) 排序
func (s *DebateService) GetTranscript(roomID uint) ([]models.Turn, error) {
	if cached, ok := s.cache.Get(transcriptCacheKey(roomID)); ok {
		return cached.([]models.Turn), nil
	}

	if _, err := s.rooms.FindByID(roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	turns, err := s.turns.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].RoundNumber != turns[j].RoundNumber {
			return turns[i].RoundNumber < turns[j].RoundNumber
		}
		return turns[i].TurnNumber < turns[j].TurnNumber
	})

	s.cache.Set(transcriptCacheKey(roomID), turns)
	return turns, nil
}

// StatusSnapshot 是房間現況的一次性快照
type StatusSnapshot struct {
	Room         *models.Room         `json:"room"`
	Participants []models.Participant `json:"participants"`
	TurnCount    int                  `json:"turn_count"`
	Status       models.RoomStatus    `json:"status"`
}

// GetStatus 取得房間現況，讀取路徑有短 TTL 快取
func (s *DebateService) GetStatus(roomID uint) (*StatusSnapshot, error) {
	if cached, ok := s.cache.Get(statusCacheKey(roomID)); ok {
		return cached.(*StatusSnapshot), nil
	}

	room, err := s.rooms.FindByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	participants, err := s.participants.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turns.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}

	snapshot := &StatusSnapshot{
		Room:         room,
		Participants: participants,
		TurnCount:    len(turns),
		Status:       room.Status,
	}
	s.cache.Set(statusCacheKey(roomID), snapshot)
	return snapshot, nil
}

// GetResult 取得辯論結果
func (s *DebateService) GetResult(roomID uint) (*models.Result, error) {
	result, err := s.results.FindByRoomID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
