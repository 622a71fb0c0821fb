package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oratio/internal/models"
	"oratio/internal/repository"
	"oratio/internal/repository/memory"
)

type spectatorFixture struct {
	repos       *repository.Repositories
	svc         *SpectatorService
	broadcaster *stubBroadcaster
}

func newSpectatorFixture(t *testing.T) (*spectatorFixture, *models.Room, *models.Participant, *models.Participant) {
	t.Helper()
	repos := memory.NewRepositories()
	broadcaster := &stubBroadcaster{}
	f := &spectatorFixture{
		repos:       repos,
		broadcaster: broadcaster,
		svc:         NewSpectatorService(repos.Room, repos.Participant, repos.SpectatorVote, broadcaster),
	}

	room := &models.Room{Topic: "t", RoomCode: "AB12CD", Status: models.RoomStatusOngoing, Rounds: 3, HostID: 1}
	require.NoError(t, repos.Room.Create(room))
	pa := &models.Participant{UserID: 10, RoomID: room.ID, Role: models.RoleDebater}
	require.NoError(t, repos.Participant.Create(pa))
	pb := &models.Participant{UserID: 11, RoomID: room.ID, Role: models.RoleDebater}
	require.NoError(t, repos.Participant.Create(pb))
	return f, room, pa, pb
}

func TestRewardBroadcastsReaction(t *testing.T) {
	f, room, pa, _ := newSpectatorFixture(t)

	vote, err := f.svc.Reward(room.ID, 99, pa.ID, "applause")
	require.NoError(t, err)
	assert.Equal(t, pa.ID, vote.TargetID)
	assert.Equal(t, "applause", vote.ReactionType)

	events := f.broadcaster.byType(EventNewReaction)
	require.Len(t, events, 1)
	assert.Equal(t, room.ID, events[0].RoomID)
}

func TestRewardRejectsInvalidTargets(t *testing.T) {
	f, room, _, _ := newSpectatorFixture(t)

	// 不存在的參與者
	_, err := f.svc.Reward(room.ID, 99, 4242, "applause")
	assert.ErrorIs(t, err, ErrNotParticipant)

	// 觀眾不能收反應
	spectator := &models.Participant{UserID: 12, RoomID: room.ID, Role: models.RoleSpectator}
	require.NoError(t, f.repos.Participant.Create(spectator))
	_, err = f.svc.Reward(room.ID, 99, spectator.ID, "applause")
	assert.ErrorIs(t, err, ErrNotParticipant)

	// 房間不存在
	_, err = f.svc.Reward(4242, 99, spectator.ID, "applause")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRewardRejectsTargetFromAnotherRoom(t *testing.T) {
	f, room, _, _ := newSpectatorFixture(t)

	other := &models.Room{Topic: "other", RoomCode: "EF34AB", Status: models.RoomStatusOngoing, Rounds: 3, HostID: 1}
	require.NoError(t, f.repos.Room.Create(other))
	stranger := &models.Participant{UserID: 55, RoomID: other.ID, Role: models.RoleDebater}
	require.NoError(t, f.repos.Participant.Create(stranger))

	// 目標在別的房間，不能隔空送反應
	_, err := f.svc.Reward(room.ID, 99, stranger.ID, "applause")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestStatsComputesSupportPercentages(t *testing.T) {
	f, room, pa, pb := newSpectatorFixture(t)
	spectator := &models.Participant{UserID: 12, RoomID: room.ID, Role: models.RoleSpectator}
	require.NoError(t, f.repos.Participant.Create(spectator))

	for i := 0; i < 3; i++ {
		_, err := f.svc.Reward(room.ID, 99, pa.ID, "applause")
		require.NoError(t, err)
	}
	_, err := f.svc.Reward(room.ID, 99, pb.ID, "insight")
	require.NoError(t, err)

	stats, err := f.svc.Stats(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalReactions)
	assert.Equal(t, 1, stats.SpectatorCount)
	assert.Equal(t, 3, stats.Reactions[participantKey(pa.ID)])
	assert.Equal(t, 1, stats.Reactions[participantKey(pb.ID)])
	assert.InDelta(t, 75.0, stats.Support[participantKey(pa.ID)], 0.001)
	assert.InDelta(t, 25.0, stats.Support[participantKey(pb.ID)], 0.001)
}

func TestStatsEmptyRoom(t *testing.T) {
	f, room, pa, pb := newSpectatorFixture(t)

	stats, err := f.svc.Stats(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReactions)
	assert.Empty(t, stats.Support)

	// 辯論者即使零反應也在統計裡
	assert.Contains(t, stats.Reactions, participantKey(pa.ID))
	assert.Contains(t, stats.Reactions, participantKey(pb.ID))
}
