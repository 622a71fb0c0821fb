package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oratio/internal/models"
)

func (f *debateFixture) seedTurn(t *testing.T, roomID, speakerID uint, round, turnNo int, content string) *models.Turn {
	t.Helper()
	turn := &models.Turn{
		RoomID:      roomID,
		SpeakerID:   speakerID,
		Content:     content,
		RoundNumber: round,
		TurnNumber:  turnNo,
		Timestamp:   time.Now(),
	}
	require.NoError(t, f.repos.Turn.Create(turn))
	return turn
}

func TestAnalyzeRoundScoresEachTurnOnce(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 3)
	f.seedTurn(t, room.ID, pa.ID, 1, 1, "argument a")
	f.seedTurn(t, room.ID, pb.ID, 1, 2, "argument b")

	require.NoError(t, f.svc.analyzeRound(context.Background(), room, 1, 2))
	assert.Equal(t, 2, f.oracle.calls())

	// 同一回合被排程兩次時，已評分的發言直接跳過
	require.NoError(t, f.svc.analyzeRound(context.Background(), room, 1, 2))
	assert.Equal(t, 2, f.oracle.calls())
}

func TestAnalyzeRoundLeavesFailedTurnUnscored(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 3)
	a := f.seedTurn(t, room.ID, pa.ID, 1, 1, "good argument")
	b := f.seedTurn(t, room.ID, pb.ID, 1, 2, "cursed argument")
	f.oracle.failContents["cursed argument"] = true

	require.NoError(t, f.svc.analyzeRound(context.Background(), room, 1, 2))

	scoredA, err := f.repos.Turn.FindByID(a.ID)
	require.NoError(t, err)
	assert.NotNil(t, scoredA.AIFeedback)

	scoredB, err := f.repos.Turn.FindByID(b.ID)
	require.NoError(t, err)
	assert.Nil(t, scoredB.AIFeedback)
}

func TestOnTurnSubmittedWaitsForFullRound(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, _ := f.twoDebaterRoom(t, 3)
	f.seedTurn(t, room.ID, pa.ID, 1, 1, "only one turn")

	require.NoError(t, f.svc.onTurnSubmitted(context.Background(), room.ID, 1))
	f.runner.Wait()

	assert.Empty(t, f.broadcaster.byType(EventRoundComplete))
	assert.Equal(t, 0, f.oracle.calls())
}

func TestOnTurnSubmittedDefaultsToTwoDebaters(t *testing.T) {
	f := newDebateFixture(t)
	host := f.seedUser(t, "host")
	room := f.seedRoom(t, host.ID, models.RoomStatusOngoing, 3, models.FormatIndividual)

	// 房間裡查不到辯論者是異常狀態，偵測器以兩人計而不是把門檻當零
	f.seedTurn(t, room.ID, 101, 1, 1, "ghost a")
	require.NoError(t, f.svc.onTurnSubmitted(context.Background(), room.ID, 1))
	f.runner.Wait()
	assert.Empty(t, f.broadcaster.byType(EventRoundComplete))

	f.seedTurn(t, room.ID, 102, 1, 2, "ghost b")
	require.NoError(t, f.svc.onTurnSubmitted(context.Background(), room.ID, 1))
	f.runner.Wait()
	assert.NotEmpty(t, f.broadcaster.byType(EventRoundComplete))
}

func TestAnalyzeRoundSkipsFinalizationWhenHostAlreadyEnded(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 1)
	f.seedTurn(t, room.ID, pa.ID, 1, 1, "a")
	f.seedTurn(t, room.ID, pb.ID, 1, 2, "b")

	// 主持人先結束並結算
	_, err := f.svc.EndDebate(context.Background(), room.ID, room.HostID)
	require.NoError(t, err)
	first, err := f.svc.GetResult(room.ID)
	require.NoError(t, err)

	// 之後才跑完的批次評分不會重複結算
	require.NoError(t, f.svc.analyzeRound(context.Background(), room, 1, 2))
	again, err := f.svc.GetResult(room.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}
