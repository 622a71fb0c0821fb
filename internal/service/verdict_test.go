package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oratio/internal/ai"
	"oratio/internal/models"
)

func (f *debateFixture) seedScoredTurn(t *testing.T, roomID, speakerID uint, round int, fb models.TurnFeedback) {
	t.Helper()
	turn := &models.Turn{
		RoomID:      roomID,
		SpeakerID:   speakerID,
		Content:     "scored",
		RoundNumber: round,
		TurnNumber:  1,
		AIFeedback:  &fb,
		Timestamp:   time.Now(),
	}
	require.NoError(t, f.repos.Turn.Create(turn))
}

func TestFinalizePicksWeightedWinner(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 2)

	// 勝負看加權總分，不是三維度的簡單平均
	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 9, Credibility: 7, Rhetoric: 7})
	f.seedScoredTurn(t, room.ID, pb.ID, 1, models.TurnFeedback{Logic: 6, Credibility: 8, Rhetoric: 8})

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, pa.ID, *result.WinnerID)
}

func TestFinalizeBreaksTiesByFirstEncountered(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 2)

	same := models.TurnFeedback{Logic: 7, Credibility: 7, Rhetoric: 7}
	f.seedScoredTurn(t, room.ID, pa.ID, 1, same)
	f.seedScoredTurn(t, room.ID, pb.ID, 1, same)

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, pa.ID, *result.WinnerID)
}

func TestFinalizeAveragesAcrossRounds(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 2)

	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 8, Credibility: 8, Rhetoric: 8})
	f.seedScoredTurn(t, room.ID, pa.ID, 2, models.TurnFeedback{Logic: 6, Credibility: 6, Rhetoric: 6})
	f.seedScoredTurn(t, room.ID, pb.ID, 1, models.TurnFeedback{Logic: 5, Credibility: 5, Rhetoric: 5})

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)

	avgA := result.Scores[participantKey(pa.ID)]
	assert.InDelta(t, 7.0, avgA.Logic, 0.001)
	assert.InDelta(t, 7.0, avgA.Credibility, 0.001)
	assert.InDelta(t, 7.0, avgA.Rhetoric, 0.001)
}

func TestFinalizeIncludesSilentDebaterWithZeroScore(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 2)
	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 7, Credibility: 7, Rhetoric: 7})

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)

	// 一句話都沒說的辯論者以零分出現在結果裡，而不是從分數表缺席
	silent, ok := result.Scores[participantKey(pb.ID)]
	require.True(t, ok)
	assert.Zero(t, silent.Logic)
	assert.Zero(t, silent.Credibility)
	assert.Zero(t, silent.Rhetoric)

	require.NotNil(t, result.WinnerID)
	assert.Equal(t, pa.ID, *result.WinnerID)
}

func TestFinalizeIsFirstWriterWins(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, _ := f.twoDebaterRoom(t, 2)
	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 8, Credibility: 8, Rhetoric: 8})

	first, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)

	second, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFinalizeSurvivesVerdictFailure(t *testing.T) {
	f := newDebateFixture(t)
	f.oracle.verdictErr = errors.New("all providers down")
	room, pa, _ := f.twoDebaterRoom(t, 2)
	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 8, Credibility: 8, Rhetoric: 8})

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)
	assert.Contains(t, result.Summary, room.Topic)
}

func TestFinalizeUsesOracleVerdict(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, _ := f.twoDebaterRoom(t, 2)
	f.oracle.verdict = &ai.Verdict{
		Summary:  "a decisive victory",
		Feedback: map[string]string{participantKey(pa.ID): "excellent logic"},
	}
	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 8, Credibility: 8, Rhetoric: 8})

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)
	assert.Equal(t, "a decisive victory", result.Summary)
	assert.Equal(t, "excellent logic", result.Feedback[participantKey(pa.ID)])
}

func TestFinalizeCountsSpectatorInfluence(t *testing.T) {
	f := newDebateFixture(t)
	room, pa, pb := f.twoDebaterRoom(t, 2)
	f.seedScoredTurn(t, room.ID, pa.ID, 1, models.TurnFeedback{Logic: 8, Credibility: 8, Rhetoric: 8})

	for i := 0; i < 3; i++ {
		require.NoError(t, f.repos.SpectatorVote.Create(&models.SpectatorVote{
			RoomID: room.ID, SpectatorID: 900, TargetID: pa.ID, ReactionType: "applause",
		}))
	}
	require.NoError(t, f.repos.SpectatorVote.Create(&models.SpectatorVote{
		RoomID: room.ID, SpectatorID: 901, TargetID: pb.ID, ReactionType: "boo",
	}))

	result, err := f.svc.finalize(context.Background(), room)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SpectatorInfluence[participantKey(pa.ID)])
	assert.Equal(t, 1, result.SpectatorInfluence[participantKey(pb.ID)])
}

func TestAverageScoreIgnoresUnscoredTurns(t *testing.T) {
	turns := []models.Turn{
		{SpeakerID: 1, AIFeedback: &models.TurnFeedback{Logic: 8, Credibility: 6, Rhetoric: 4}},
		{SpeakerID: 1, AIFeedback: nil},
		{SpeakerID: 1, AIFeedback: &models.TurnFeedback{Logic: 4, Credibility: 6, Rhetoric: 8}},
		{SpeakerID: 2, AIFeedback: &models.TurnFeedback{Logic: 10, Credibility: 10, Rhetoric: 10}},
	}

	avg := averageScore(1, turns)
	assert.InDelta(t, 6.0, avg.Logic, 0.001)
	assert.InDelta(t, 6.0, avg.Credibility, 0.001)
	assert.InDelta(t, 6.0, avg.Rhetoric, 0.001)

	assert.Zero(t, averageScore(99, turns))
}
