package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.GeminiModel)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.OpenAIModel)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, 50, cfg.Upload.MaxFileSizeMB)
}

func TestLoadEnvOverrides(t *testing.T) {
	// 金鑰類設定沒有出現在配置文件裡，只靠環境變量注入，
	// 讀取後必須完整出現在結構中
	t.Setenv("ORATIO_AI_GEMINIAPIKEY", "env-gemini-key")
	t.Setenv("ORATIO_AI_OPENAIAPIKEY", "env-openai-key")
	t.Setenv("ORATIO_AI_SERPERAPIKEY", "env-serper-key")
	t.Setenv("ORATIO_AUTH_JWTSECRET", "env-secret")
	t.Setenv("ORATIO_STORAGE_BACKEND", "memory")
	t.Setenv("ORATIO_DB_PASSWORD", "env-db-pass")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-gemini-key", cfg.AI.GeminiAPIKey)
	assert.Equal(t, "env-openai-key", cfg.AI.OpenAIAPIKey)
	assert.Equal(t, "env-serper-key", cfg.AI.SerperAPIKey)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "env-db-pass", cfg.DB.Password)
}
