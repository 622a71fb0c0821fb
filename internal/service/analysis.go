package service

import (
	"context"
	"sync"

	"oratio/internal/models"
)

// onTurnSubmitted 在每次發言寫入後以背景任務執行，判斷回合是否集滿。
// 盡力而為：絕不阻塞也絕不讓提交者失敗，
// 兩位辯論者的提交同時觸發它也是安全的，批次評分自己會擋重複。
func (s *DebateService) onTurnSubmitted(ctx context.Context, roomID uint, roundNumber int) error {
	room, err := s.rooms.FindByID(roomID)
	if err != nil {
		return err
	}

	participants, err := s.participants.FindByRoomID(roomID)
	if err != nil {
		return err
	}
	debaterCount := 0
	for _, p := range participants {
		if p.Role == models.RoleDebater {
			debaterCount++
		}
	}
	// 防禦異常狀態：房間裡查不到辯論者時以兩人計
	if debaterCount == 0 {
		debaterCount = 2
	}

	roundTurns, err := s.turns.FindByRoomAndRound(roomID, roundNumber)
	if err != nil {
		return err
	}
	if len(roundTurns) < debaterCount {
		return nil
	}

	s.broadcaster.Publish(roomID, Event{
		Type: EventRoundComplete,
		Data: map[string]interface{}{"round_number": roundNumber},
	})

	// 批次評分排成獨立任務，偵測本身立即返回
	s.runner.Go("round-analysis", func(ctx context.Context) error {
		return s.analyzeRound(ctx, room, roundNumber, debaterCount)
	})
	return nil
}

// analyzeRound 對剛集滿的回合批次評分。
//
// 所有未評分的發言同時送評：評分服務的延遲是主要成本，平行呼叫是刻意的。
// 已有評分的發言直接跳過，這讓同一回合被排程兩次也不會重複評分。
// 個別發言評分失敗只記錄並留白，不影響其他發言。
func (s *DebateService) analyzeRound(ctx context.Context, room *models.Room, roundNumber, debaterCount int) error {
	roundTurns, err := s.turns.FindByRoomAndRound(room.ID, roundNumber)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, turn := range roundTurns {
		if turn.AIFeedback != nil {
			continue
		}
		wg.Add(1)
		go func(turn models.Turn) {
			defer wg.Done()
			feedback, err := s.oracle.AnalyzeTurn(ctx, turn.Content, room.Topic)
			if err != nil {
				s.logger.Warnw("turn analysis failed, leaving unscored",
					"room_id", room.ID, "turn_id", turn.ID, "error", err)
				return
			}
			if err := s.turns.UpdateFeedback(turn.ID, feedback); err != nil {
				s.logger.Errorw("failed to persist turn feedback",
					"room_id", room.ID, "turn_id", turn.ID, "error", err)
			}
		}(turn)
	}
	wg.Wait()

	s.invalidateRoomCaches(room.ID)

	// 全部評完後重新計算整場辯論是否結束
	allTurns, err := s.turns.FindByRoomID(room.ID)
	if err != nil {
		return err
	}
	if len(allTurns) < room.Rounds*debaterCount {
		return nil
	}

	// 重新撈取房間，主持人可能已經明確結束辯論
	current, err := s.rooms.FindByID(room.ID)
	if err != nil {
		return err
	}
	if current.Status != models.RoomStatusOngoing {
		return nil
	}

	if err := s.completeRoom(current); err != nil {
		return err
	}
	if _, err := s.finalize(ctx, current); err != nil {
		return err
	}
	return nil
}
