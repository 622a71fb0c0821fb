package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oratio/internal/ai"
	"oratio/internal/api/handlers"
	"oratio/internal/middleware"
	"oratio/internal/service"
	"oratio/pkg/config"
)

func SetupRoutes(r *gin.Engine, services *service.Services, factChecker *ai.FactChecker, upload config.UploadConfig) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.UserService)
	userHandler := handlers.NewUserHandler(services.UserService)
	roomHandler := handlers.NewRoomHandler(services.RoomService)
	debateHandler := handlers.NewDebateHandler(services.DebateService, upload)
	spectatorHandler := handlers.NewSpectatorHandler(services.SpectatorService)
	aiHandler := handlers.NewAIHandler(factChecker)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.RoomService)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 用戶相關
		authorized.GET("/me", authHandler.Me)
		authorized.GET("/leaderboard", userHandler.Leaderboard)
		authorized.GET("/users/:id/stats", userHandler.Stats)
		authorized.POST("/feedback", userHandler.SubmitFeedback)

		// 輔助的 AI 功能
		authorized.POST("/fact-check", aiHandler.FactCheck)

		// 辯論室相關
		rooms := authorized.Group("/rooms")
		{
			// 基本操作
			rooms.GET("", roomHandler.ListRooms)          // 獲取房間列表
			rooms.POST("", roomHandler.CreateRoom)        // 創建房間
			rooms.GET("/:id", roomHandler.GetRoom)        // 獲取房間信息
			rooms.PATCH("/:id", roomHandler.UpdateRoom)   // 修改房間設定
			rooms.DELETE("/:id", roomHandler.DeleteRoom)  // 刪除房間
			rooms.POST("/join", roomHandler.JoinRoom)     // 用邀請碼加入房間

			// 參與者
			rooms.GET("/:id/participants", roomHandler.ListParticipants)
			rooms.POST("/:id/participants/:participantId/ready", roomHandler.Ready)
			rooms.DELETE("/:id/participants/:participantId", roomHandler.LeaveRoom)

			// 辯論進行
			rooms.POST("/:id/turns", debateHandler.SubmitTurn)            // 提交文字發言
			rooms.POST("/:id/turns/audio", debateHandler.SubmitAudioTurn) // 提交語音發言
			rooms.GET("/:id/transcript", debateHandler.GetTranscript)     // 完整逐字稿
			rooms.GET("/:id/status", debateHandler.GetStatus)             // 房間現況
			rooms.POST("/:id/end", debateHandler.EndDebate)               // 主持人結束辯論
			rooms.GET("/:id/result", debateHandler.GetResult)             // 辯論結果

			// 觀眾反應
			rooms.POST("/:id/reactions", spectatorHandler.Reward)
			rooms.GET("/:id/reactions", spectatorHandler.Stats)

			// WebSocket 連接
			rooms.GET("/:id/ws", wsHandler.HandleWebSocket) // WebSocket 連接點
		}
	}
}
