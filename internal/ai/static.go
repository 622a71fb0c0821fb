package ai

import (
	"context"
	"strings"
)

// StaticProvider 是後備鏈的最後一環：所有外部供應商都失敗時
// 回傳固定內容，讓提交和結算流程永遠不會因為 AI 不可用而失敗。
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	lower := strings.ToLower(req.Prompt)
	// 總結提示詞裡也含有 judge 和 scores 字樣，必須先比對 verdict
	if strings.Contains(lower, "verdict") {
		return `{"summary": "Debate concluded. Check individual scores for details.", "feedback": {}}`, nil
	}
	if strings.Contains(lower, "judge") || strings.Contains(lower, "score") {
		return `{
			"logic": 7,
			"credibility": 7,
			"rhetoric": 7,
			"feedback": "Good argument structure. Consider adding more evidence.",
			"strengths": ["Clear presentation"],
			"weaknesses": ["Needs more supporting evidence"]
		}`, nil
	}
	return "AI analysis temporarily unavailable. Running in demo mode.", nil
}
