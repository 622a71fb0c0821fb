package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"oratio/internal/models"
	"oratio/internal/repository"
)

// finalize 結算一場辯論並寫入結果。
//
// 自動完成和主持人明確結束可能同時呼叫，所以檢查加寫入放在房間鎖裡，
// 已存在的結果直接視為成功回傳（先寫者勝，不做合併）。
// 總結生成失敗時用引用辯題的模板文字代替，結算絕不因為 AI 不可用而失敗。
func (s *DebateService) finalize(ctx context.Context, room *models.Room) (*models.Result, error) {
	lock := s.locks.get(room.ID)
	defer s.locks.forget(room.ID) // 房間已結束，鎖不再需要
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.results.FindByRoomID(room.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	participants, err := s.participants.FindByRoomID(room.ID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turns.FindByRoomID(room.ID)
	if err != nil {
		return nil, err
	}

	// 每位辯論者的 LCR 平均分：只平均已評分的發言，沒有發言的保留零分而不是缺席
	scores := models.ScoreMap{}
	var winner *models.Participant
	var bestTotal float64
	for i := range participants {
		p := &participants[i]
		if p.Role != models.RoleDebater {
			continue
		}

		avg := averageScore(p.ID, turns)
		scores[participantKey(p.ID)] = avg

		// 平手時保留先遇到的那位，是明確的既定策略而不是評判結果
		total := avg.Weighted()
		if winner == nil || total > bestTotal {
			winner = p
			bestTotal = total
		}
	}

	feedback := models.StringMap{}
	summary := fmt.Sprintf("The debate on %q has concluded. Review the individual scores for details.", room.Topic)
	verdict, err := s.oracle.GenerateVerdict(ctx, room.Topic, scores)
	if err != nil {
		s.logger.Warnw("verdict generation failed, using templated summary",
			"room_id", room.ID, "error", err)
	} else {
		summary = verdict.Summary
		for id, text := range verdict.Feedback {
			feedback[id] = text
		}
	}

	// 觀眾反應只是輔助指標，不影響加權分數和勝負
	votes, err := s.votes.FindByRoomID(room.ID)
	if err != nil {
		return nil, err
	}
	influence := models.CountMap{}
	for _, vote := range votes {
		influence[participantKey(vote.TargetID)]++
	}

	result := &models.Result{
		RoomID:             room.ID,
		Scores:             scores,
		Feedback:           feedback,
		Summary:            summary,
		SpectatorInfluence: influence,
	}
	if winner != nil {
		winnerID := winner.ID
		result.WinnerID = &winnerID
	}

	if err := s.results.Create(result); err != nil {
		// 資料庫的唯一索引是最後防線，撞上時回傳已存在的結果
		if existing, findErr := s.results.FindByRoomID(room.ID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.persistParticipantScores(participants, scores)
	s.invalidateRoomCaches(room.ID)

	return result, nil
}

// persistParticipantScores 把平均分寫回參與者並折算經驗值
func (s *DebateService) persistParticipantScores(participants []models.Participant, scores models.ScoreMap) {
	for i := range participants {
		p := &participants[i]
		avg, ok := scores[participantKey(p.ID)]
		if !ok {
			continue
		}
		p.Score = avg
		p.XPEarned = int((avg.Logic + avg.Credibility + avg.Rhetoric) / 3 * 10)
		if err := s.participants.Update(p); err != nil {
			s.logger.Errorw("failed to persist participant score",
				"participant_id", p.ID, "error", err)
			continue
		}

		user, err := s.users.FindByID(p.UserID)
		if err != nil {
			continue
		}
		user.XP += p.XPEarned
		if err := s.users.Update(user); err != nil {
			s.logger.Errorw("failed to persist user xp", "user_id", user.ID, "error", err)
		}
	}
}

// averageScore 平均一位辯論者所有已評分發言的三維度分數
// 未評分的發言不納入平均，也不當成零分
func averageScore(speakerID uint, turns []models.Turn) models.Score {
	var sum models.Score
	count := 0
	for _, turn := range turns {
		if turn.SpeakerID != speakerID || turn.AIFeedback == nil {
			continue
		}
		sum.Logic += turn.AIFeedback.Logic
		sum.Credibility += turn.AIFeedback.Credibility
		sum.Rhetoric += turn.AIFeedback.Rhetoric
		count++
	}
	if count == 0 {
		return models.Score{}
	}
	return models.Score{
		Logic:       sum.Logic / float64(count),
		Credibility: sum.Credibility / float64(count),
		Rhetoric:    sum.Rhetoric / float64(count),
	}
}

func participantKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
