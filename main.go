package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"oratio/internal/ai"
	"oratio/internal/api"
	"oratio/internal/cache"
	"oratio/internal/logging"
	"oratio/internal/models"
	"oratio/internal/repository"
	"oratio/internal/repository/memory"
	"oratio/internal/service"
	"oratio/internal/storage"
	"oratio/internal/tasks"
	"oratio/pkg/config"
	"oratio/pkg/utils"
)

func main() {
	logger := logging.New()
	defer logger.Sync()

	// 載入應用程式配置
	// 從配置文件中讀取設置，如數據庫連接信息和服務器地址等
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	// 選擇儲存後端
	// postgres 是預設；memory 用於本地開發和測試，資料不落地
	var repos *repository.Repositories
	switch cfg.Storage.Backend {
	case "memory":
		repos = memory.NewRepositories()
		logger.Infow("using in-memory storage backend")
	default:
		// 初始化資料庫連接並自動遷移資料庫結構
		db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
		if err != nil {
			logger.Fatalw("failed to initialize database", "error", err)
		}
		defer db.Close()

		if err := db.AutoMigrate(
			&models.User{},
			&models.Room{},
			&models.Participant{},
			&models.Turn{},
			&models.Result{},
			&models.SpectatorVote{},
			&models.Feedback{},
		); err != nil {
			logger.Fatalw("failed to auto migrate database", "error", err)
		}
		repos = repository.NewRepositories(db)
	}

	// 確保上傳目錄存在
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Fatalw("failed to create upload dir", "dir", cfg.Upload.Dir, "error", err)
	}

	// 組裝評分服務的供應商後備鏈
	// 沒設金鑰的供應商不進鏈；固定回應的供應商永遠殿後，保證評分不會完全失敗
	var providers []ai.Provider
	if cfg.AI.GeminiAPIKey != "" {
		providers = append(providers, ai.NewGeminiProvider(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel))
	}
	if cfg.AI.OpenAIAPIKey != "" {
		providers = append(providers, ai.NewOpenAIProvider(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel))
	}
	providers = append(providers, ai.NewStaticProvider())
	judge := ai.NewJudge(logger, providers...)

	transcriber := ai.NewWhisperTranscriber(cfg.AI.OpenAIAPIKey)
	factChecker := ai.NewFactChecker(cfg.AI.SerperAPIKey)

	// 初始化背景任務執行器和讀取快取
	runner := tasks.NewRunner(logger, 5*time.Minute)
	statusCache := cache.New(30 * time.Second)

	// 初始化 services
	services := service.NewServices(repos, judge, transcriber, runner, statusCache, logger)

	// 設置 Gin 路由
	// 創建一個默認的 Gin 路由器並設置路由
	r := gin.Default()
	api.SetupRoutes(r, services, factChecker, cfg.Upload)

	// 啟動伺服器
	// 使用配置中指定的地址啟動 HTTP 服務器
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Fatalw("failed to run server", "error", err)
	}
}
