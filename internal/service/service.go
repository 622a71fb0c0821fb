package service

import (
	"go.uber.org/zap"

	"oratio/internal/cache"
	"oratio/internal/repository"
	"oratio/internal/tasks"
)

// Services 聚合所有服務，方便在路由層注入
type Services struct {
	UserService      *UserService
	RoomService      *RoomService
	DebateService    *DebateService
	SpectatorService *SpectatorService
	WebSocketManager *WebSocketManager
}

func NewServices(
	repos *repository.Repositories,
	oracle ScoringOracle,
	transcriber Transcriber,
	runner *tasks.Runner,
	c *cache.Cache,
	logger *zap.SugaredLogger,
) *Services {
	wsManager := NewWebSocketManager(logger)

	return &Services{
		UserService:      NewUserService(repos.User, repos.Participant, repos.Result, repos.Feedback),
		RoomService:      NewRoomService(repos.Room, repos.Participant, wsManager, c),
		DebateService:    NewDebateService(repos, oracle, transcriber, wsManager, runner, c, logger),
		SpectatorService: NewSpectatorService(repos.Room, repos.Participant, repos.SpectatorVote, wsManager),
		WebSocketManager: wsManager,
	}
}
