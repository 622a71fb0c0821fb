package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"oratio/internal/models"
)

// Verdict 是整場辯論的 AI 總結
// 勝負由服務層用加權分數決定，這裡只提供文字總結和個別回饋
type Verdict struct {
	Summary    string            `json:"summary"`
	Feedback   map[string]string `json:"feedback"`
	KeyMoments []string          `json:"key_moments,omitempty"`
}

// Judge 是評分服務的入口，持有一條有序的供應商後備鏈
type Judge struct {
	providers []Provider
	logger    *zap.SugaredLogger
}

func NewJudge(logger *zap.SugaredLogger, providers ...Provider) *Judge {
	return &Judge{providers: providers, logger: logger}
}

// complete 依序嘗試每個供應商，回傳第一個成功的回答
func (j *Judge) complete(ctx context.Context, req CompletionRequest) (string, error) {
	var lastErr error
	for _, provider := range j.providers {
		answer, err := provider.Complete(ctx, req)
		if err != nil {
			j.logger.Warnw("ai provider failed", "provider", provider.Name(), "error", err)
			lastErr = err
			continue
		}
		j.logger.Infow("ai provider answered", "provider", provider.Name())
		return answer, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no ai providers configured")
	}
	return "", lastErr
}

// AnalyzeTurn 用 LCR 模型評一次發言，回傳三維度分數和文字回饋
func (j *Judge) AnalyzeTurn(ctx context.Context, content, topic string) (*models.TurnFeedback, error) {
	if topic == "" {
		topic = "None"
	}
	prompt := fmt.Sprintf(`You are an expert debate judge. Analyze this argument using the LCR model:

**Logic (40%%)**: Reasoning, coherence, argument structure
**Credibility (35%%)**: Evidence, facts, reliability
**Rhetoric (25%%)**: Persuasiveness, delivery, clarity

Argument: %q

Context: %s

Provide scores (0-10) and brief feedback in JSON format:
{
    "logic": score,
    "credibility": score,
    "rhetoric": score,
    "feedback": "brief analysis",
    "strengths": ["point1", "point2"],
    "weaknesses": ["point1", "point2"]
}`, content, topic)

	answer, err := j.complete(ctx, CompletionRequest{
		System:      "You are a professional debate judge using the LCR evaluation model. Always respond with valid JSON.",
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, err
	}

	var feedback models.TurnFeedback
	if err := json.Unmarshal(extractJSON(answer), &feedback); err != nil {
		// 模型偶爾回傳不合法的 JSON，用保守的預設值頂替而不是讓整回合評分失敗
		j.logger.Warnw("unparseable turn analysis, using defaults", "error", err)
		return &models.TurnFeedback{
			Logic:       7,
			Credibility: 7,
			Rhetoric:    7,
			Feedback:    "Analysis in progress...",
		}, nil
	}
	return &feedback, nil
}

// GenerateVerdict 產生整場辯論的總結和個別回饋
func (j *Judge) GenerateVerdict(ctx context.Context, topic string, scores map[string]models.Score) (*Verdict, error) {
	scoresJSON, _ := json.Marshal(scores)
	prompt := fmt.Sprintf(`You are a debate judge writing the final verdict. Based on the following scores, summarize the debate and give each participant personalized feedback.

**Participant Scores:**
%s

**Debate Topic:** %s

Provide the verdict in JSON:
{
    "summary": "Overall debate summary",
    "feedback": {
        "participant_id": "personalized feedback"
    },
    "key_moments": ["moment1", "moment2"]
}`, scoresJSON, topic)

	answer, err := j.complete(ctx, CompletionRequest{
		System:      "You are a professional debate judge. Always respond with valid JSON.",
		Prompt:      prompt,
		Temperature: 0.5,
		MaxTokens:   800,
	})
	if err != nil {
		return nil, err
	}

	var verdict Verdict
	if err := json.Unmarshal(extractJSON(answer), &verdict); err != nil {
		return nil, fmt.Errorf("unparseable verdict: %w", err)
	}
	if verdict.Feedback == nil {
		verdict.Feedback = map[string]string{}
	}
	return &verdict, nil
}

// extractJSON 從模型的自由文字回答裡切出最外層的 JSON 物件
func extractJSON(s string) []byte {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return []byte(s)
	}
	return []byte(s[start : end+1])
}
