package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const serperEndpoint = "https://google.serper.dev/search"

// FactCheckResult 是單一論述的查證結果
type FactCheckResult struct {
	Verified   bool     `json:"verified"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
	Summary    string   `json:"summary"`
}

// FactChecker 用 Serper 網頁搜尋查證論述
type FactChecker struct {
	apiKey string
	client *http.Client
}

func NewFactChecker(apiKey string) *FactChecker {
	return &FactChecker{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *FactChecker) Check(ctx context.Context, statement string) (*FactCheckResult, error) {
	if f.apiKey == "" {
		return &FactCheckResult{
			Sources: []string{},
			Summary: "Fact-checking unavailable (no API key)",
		}, nil
	}

	payload, _ := json.Marshal(map[string]string{"q": statement})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fact check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FactCheckResult{Sources: []string{}, Summary: "Unable to verify"}, nil
	}

	var parsed struct {
		Organic []struct {
			Link string `json:"link"`
		} `json:"organic"`
		AnswerBox struct {
			Answer string `json:"answer"`
		} `json:"answerBox"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("fact check: decode response: %w", err)
	}

	sources := make([]string, 0, 3)
	for i, r := range parsed.Organic {
		if i >= 3 {
			break
		}
		sources = append(sources, r.Link)
	}
	summary := parsed.AnswerBox.Answer
	if summary == "" {
		summary = "No direct answer found"
	}

	return &FactCheckResult{
		Verified:   true,
		Confidence: 0.7,
		Sources:    sources,
		Summary:    summary,
	}, nil
}
