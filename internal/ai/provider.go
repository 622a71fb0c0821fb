// Package ai 封裝辯論評分所依賴的語言模型。
//
// 多個供應商組成一條有序的後備鏈：依序嘗試，第一個成功的回答勝出，
// 記錄哪個後端回答了請求以便觀察。所有供應商都視為緩慢且可能失敗。
package ai

import (
	"context"
)

// CompletionRequest 是對單一供應商的文字生成請求
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider 是單一語言模型後端
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
