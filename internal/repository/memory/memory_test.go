package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oratio/internal/models"
	"oratio/internal/repository"
)

func TestUserUsernameUnique(t *testing.T) {
	repos := NewRepositories()

	require.NoError(t, repos.User.Create(&models.User{Username: "alice"}))
	assert.Error(t, repos.User.Create(&models.User{Username: "alice"}))
}

func TestParticipantUniquePerUserAndRoom(t *testing.T) {
	repos := NewRepositories()

	p := &models.Participant{UserID: 1, RoomID: 2, Role: models.RoleDebater}
	require.NoError(t, repos.Participant.Create(p))
	assert.Error(t, repos.Participant.Create(&models.Participant{UserID: 1, RoomID: 2}))

	// 同一用戶在別的房間可以再加入
	assert.NoError(t, repos.Participant.Create(&models.Participant{UserID: 1, RoomID: 3}))
}

func TestResultUniquePerRoom(t *testing.T) {
	repos := NewRepositories()

	require.NoError(t, repos.Result.Create(&models.Result{RoomID: 5}))
	assert.Error(t, repos.Result.Create(&models.Result{RoomID: 5}))
}

func TestNotFoundSentinel(t *testing.T) {
	repos := NewRepositories()

	_, err := repos.Room.FindByID(99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.User.FindByUsername("ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Result.FindByRoomID(99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Participant.FindByUserAndRoom(1, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTurnsOrderedByTimestamp(t *testing.T) {
	repos := NewRepositories()
	base := time.Now()

	late := &models.Turn{RoomID: 1, SpeakerID: 2, RoundNumber: 1, Timestamp: base.Add(time.Second)}
	early := &models.Turn{RoomID: 1, SpeakerID: 3, RoundNumber: 1, Timestamp: base}
	require.NoError(t, repos.Turn.Create(late))
	require.NoError(t, repos.Turn.Create(early))

	turns, err := repos.Turn.FindByRoomID(1)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, early.ID, turns[0].ID)
	assert.Equal(t, late.ID, turns[1].ID)
}

func TestUpdateFeedbackPersists(t *testing.T) {
	repos := NewRepositories()

	turn := &models.Turn{RoomID: 1, SpeakerID: 2, RoundNumber: 1, Timestamp: time.Now()}
	require.NoError(t, repos.Turn.Create(turn))

	fb := &models.TurnFeedback{Logic: 8, Credibility: 7, Rhetoric: 6}
	require.NoError(t, repos.Turn.UpdateFeedback(turn.ID, fb))

	stored, err := repos.Turn.FindByID(turn.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AIFeedback)
	assert.InDelta(t, 8.0, stored.AIFeedback.Logic, 0.001)
}
