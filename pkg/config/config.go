package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	DB      DBConfig
	AI      AIConfig
	Auth    AuthConfig
	Upload  UploadConfig
}

type ServerConfig struct {
	Address string
}

// StorageConfig 決定啟動時使用哪一種儲存後端
// Backend 可以是 "postgres" 或 "memory"
type StorageConfig struct {
	Backend string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// AIConfig 是評分服務的供應商設定
// 沒有設定金鑰的供應商會被跳過，全部不可用時退回固定回應
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	SerperAPIKey string
}

type AuthConfig struct {
	JWTSecret string
}

type UploadConfig struct {
	Dir           string
	MaxFileSizeMB int
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")
	viper.AddConfigPath(".")

	// API 金鑰等敏感設定允許用環境變量覆蓋，例如 ORATIO_AI_GEMINIAPIKEY
	viper.SetEnvPrefix("oratio")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("storage.backend", "postgres")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.user", "postgres")
	viper.SetDefault("db.password", "")
	viper.SetDefault("db.name", "oratio")
	viper.SetDefault("db.port", 5432)
	// viper 只會讀取已註冊鍵的環境變量，
	// 金鑰類設定必須在這裡佔位，否則 ORATIO_AI_GEMINIAPIKEY 之類的覆蓋會被丟掉
	viper.SetDefault("ai.geminiapikey", "")
	viper.SetDefault("ai.geminimodel", "gemini-2.0-flash")
	viper.SetDefault("ai.openaiapikey", "")
	viper.SetDefault("ai.openaimodel", "gpt-4o-mini")
	viper.SetDefault("ai.serperapikey", "")
	viper.SetDefault("auth.jwtsecret", "")
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("upload.maxfilesizemb", 50)

	if err := viper.ReadInConfig(); err != nil {
		// 找不到配置文件時仍然可以靠預設值和環境變量啟動
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
