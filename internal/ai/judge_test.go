package ai

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"oratio/internal/models"
)

// fakeProvider 回傳固定答案或固定錯誤
type fakeProvider struct {
	mu     sync.Mutex
	name   string
	answer string
	err    error
	called int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Complete(context.Context, CompletionRequest) (string, error) {
	p.mu.Lock()
	p.called++
	p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

func TestJudgeFallsThroughProviderChain(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: errors.New("quota exceeded")}
	healthy := &fakeProvider{name: "healthy", answer: `{"logic": 8, "credibility": 7, "rhetoric": 6, "feedback": "ok"}`}
	never := &fakeProvider{name: "never", answer: `{}`}

	judge := NewJudge(zap.NewNop().Sugar(), broken, healthy, never)

	fb, err := judge.AnalyzeTurn(context.Background(), "some argument", "topic")
	require.NoError(t, err)
	assert.InDelta(t, 8.0, fb.Logic, 0.001)
	assert.InDelta(t, 7.0, fb.Credibility, 0.001)
	assert.InDelta(t, 6.0, fb.Rhetoric, 0.001)

	assert.Equal(t, 1, broken.called)
	assert.Equal(t, 1, healthy.called)
	assert.Equal(t, 0, never.called)
}

func TestJudgeAllProvidersFail(t *testing.T) {
	b1 := &fakeProvider{name: "b1", err: errors.New("down")}
	b2 := &fakeProvider{name: "b2", err: errors.New("also down")}
	judge := NewJudge(zap.NewNop().Sugar(), b1, b2)

	_, err := judge.AnalyzeTurn(context.Background(), "arg", "topic")
	assert.Error(t, err)

	_, err = judge.GenerateVerdict(context.Background(), "topic", nil)
	assert.Error(t, err)
}

func TestAnalyzeTurnDefaultsOnGarbageAnswer(t *testing.T) {
	garbage := &fakeProvider{name: "garbage", answer: "I think the argument was quite good overall!"}
	judge := NewJudge(zap.NewNop().Sugar(), garbage)

	fb, err := judge.AnalyzeTurn(context.Background(), "arg", "topic")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, fb.Logic, 0.001)
	assert.InDelta(t, 7.0, fb.Credibility, 0.001)
	assert.InDelta(t, 7.0, fb.Rhetoric, 0.001)
}

func TestAnalyzeTurnExtractsEmbeddedJSON(t *testing.T) {
	chatty := &fakeProvider{
		name:   "chatty",
		answer: "Sure! Here is my analysis:\n```json\n{\"logic\": 9, \"credibility\": 5, \"rhetoric\": 4, \"feedback\": \"sharp\"}\n```\nHope that helps.",
	}
	judge := NewJudge(zap.NewNop().Sugar(), chatty)

	fb, err := judge.AnalyzeTurn(context.Background(), "arg", "topic")
	require.NoError(t, err)
	assert.InDelta(t, 9.0, fb.Logic, 0.001)
	assert.Equal(t, "sharp", fb.Feedback)
}

func TestGenerateVerdictParsesFeedbackMap(t *testing.T) {
	provider := &fakeProvider{
		name:   "verdict",
		answer: `{"summary": "close match", "feedback": {"1": "strong opening", "2": "good rebuttals"}, "key_moments": ["round 2 exchange"]}`,
	}
	judge := NewJudge(zap.NewNop().Sugar(), provider)

	verdict, err := judge.GenerateVerdict(context.Background(), "topic", map[string]models.Score{
		"1": {Logic: 8, Credibility: 7, Rhetoric: 7},
		"2": {Logic: 7, Credibility: 7, Rhetoric: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, "close match", verdict.Summary)
	assert.Equal(t, "strong opening", verdict.Feedback["1"])
	assert.Len(t, verdict.KeyMoments, 1)
}

func TestStaticProviderKeepsPipelineAlive(t *testing.T) {
	judge := NewJudge(zap.NewNop().Sugar(), NewStaticProvider())

	fb, err := judge.AnalyzeTurn(context.Background(), "arg", "topic")
	require.NoError(t, err)
	assert.Greater(t, fb.Logic, 0.0)

	verdict, err := judge.GenerateVerdict(context.Background(), "topic", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, verdict.Summary)
	assert.NotNil(t, verdict.Feedback)
}

func TestStaticProviderAnswersVerdictPromptsWithMapFeedback(t *testing.T) {
	p := NewStaticProvider()

	// 總結提示詞同時含有 judge 和 scores 字樣，
	// 回答仍然必須是總結格式（feedback 是 map），不能被評分分支搶走
	answer, err := p.Complete(context.Background(), CompletionRequest{
		Prompt: "You are a debate judge writing the final verdict. Based on the following scores...",
	})
	require.NoError(t, err)

	var verdict Verdict
	require.NoError(t, json.Unmarshal(extractJSON(answer), &verdict))
	assert.NotEmpty(t, verdict.Summary)
	assert.NotNil(t, verdict.Feedback)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(extractJSON("prefix {\"a\":1} suffix")))
	assert.Equal(t, `{"a":{"b":2}}`, string(extractJSON("{\"a\":{\"b\":2}}")))
	// 沒有 JSON 時原樣回傳，交給上層的解析失敗處理
	assert.Equal(t, "no json here", string(extractJSON("no json here")))
}
