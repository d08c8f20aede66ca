package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hoyyChoi/yeonseubpun/internal/config"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
	"github.com/hoyyChoi/yeonseubpun/pkg/logger"
)

const (
	// experienceReward is granted per completed attempt, independent of
	// score: finishing the daily question is what earns it.
	experienceReward = 25

	// subscoreBand bounds how far each subscore may sit from the total.
	subscoreBand = 8
)

// Star bands for the local score mapping. Anything below the "good" band
// still gets three stars; the floor is a product decision, not a bug.
const (
	fiveStarThreshold = 90
	fourStarThreshold = 75
	minStarRating     = 3
)

// FeedbackService turns a submitted answer into a FeedbackReport. It prefers
// one call to the Gemini API and degrades silently to local heuristics on
// any failure; the user sees a report either way, never an error.
type FeedbackService struct {
	config *config.AIConfig
	client *http.Client
}

// NewFeedbackService creates a feedback service. The HTTP client timeout is
// the single-attempt failure budget; there is no retry on this
// latency-sensitive path.
func NewFeedbackService(cfg *config.AIConfig) *FeedbackService {
	return &FeedbackService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate builds the report for a submitted attempt. Numeric fields always
// come from the local derivation so presentation is consistent; a
// well-formed remote response only contributes the improvement prose.
func (s *FeedbackService) Generate(ctx context.Context, question *model.Question, answerText string, live model.ScoreSnapshot, elapsedSeconds int) *model.FeedbackReport {
	report := s.localReport(question, live, elapsedSeconds)

	if !s.config.IsEnabled() {
		return report
	}

	text, err := s.callGemini(ctx, s.buildPrompt(question, answerText))
	if err != nil {
		logger.Log.Warn("remote feedback failed, using local fallback",
			zap.String("question", question.ID), zap.Error(err))
		return report
	}

	report.ImprovementExample = strings.TrimSpace(text)
	report.Source = model.FeedbackSourceRemote
	return report
}

// localReport synthesizes a complete report from the live score alone.
func (s *FeedbackService) localReport(question *model.Question, live model.ScoreSnapshot, elapsedSeconds int) *model.FeedbackReport {
	total := live.Value

	stars := minStarRating
	switch {
	case total >= fiveStarThreshold:
		stars = 5
	case total >= fourStarThreshold:
		stars = 4
	}

	return &model.FeedbackReport{
		TotalScore:         total,
		StarRating:         stars,
		Grade:              model.GradeForStars(stars),
		Subscores:          deriveSubscores(total, live.QualityBonus > 0),
		Strengths:          deriveStrengths(live),
		ImprovementExample: localImprovement(live),
		FollowUpQuestion:   localFollowUp(question),
		ExperienceGained:   experienceReward,
		TimeSpentSeconds:   elapsedSeconds,
		Source:             model.FeedbackSourceLocalFallback,
	}
}

// deriveSubscores anchors each axis near the total with a fixed per-axis
// offset, deterministic so a report is reproducible for a given attempt.
func deriveSubscores(total int, hasExample bool) model.Subscores {
	examplesOffset := -subscoreBand
	if hasExample {
		examplesOffset = subscoreBand
	}
	return model.Subscores{
		Accuracy:     clampSubscore(total + 3),
		Clarity:      clampSubscore(total - 2),
		Completeness: clampSubscore(total - 6),
		Examples:     clampSubscore(total + examplesOffset),
	}
}

func clampSubscore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func deriveStrengths(live model.ScoreSnapshot) []string {
	var strengths []string
	if live.WordCount >= 30 {
		strengths = append(strengths, "답변 분량이 충분해서 개념을 깊이 있게 다뤘습니다.")
	} else if live.WordCount > 0 {
		strengths = append(strengths, "핵심만 간결하게 정리했습니다.")
	}
	if live.QualityBonus > 0 {
		strengths = append(strengths, "구체적인 예시를 들어 설명한 점이 좋았습니다.")
	}
	if live.TimeBonus > 20 {
		strengths = append(strengths, "개념을 빠르게 떠올려 정리한 점이 인상적입니다.")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "끝까지 답변을 완성했습니다.")
	}
	return strengths
}

func localImprovement(live model.ScoreSnapshot) string {
	if live.QualityBonus == 0 {
		return "예를 들어 실무에서 겪은 사례를 한 가지 덧붙이면 답변이 훨씬 설득력 있어집니다."
	}
	return "장단점이나 주의해야 할 엣지 케이스까지 언급하면 더 완성도 높은 답변이 됩니다."
}

func localFollowUp(question *model.Question) string {
	return fmt.Sprintf("방금 설명한 %s 개념을 실제 프로젝트에 적용한다면 어떤 점을 가장 먼저 고려하시겠어요?", question.Title)
}

// buildPrompt asks for reviewer prose, not JSON: the remote text is used
// verbatim as the improvement example.
func (s *FeedbackService) buildPrompt(question *model.Question, answerText string) string {
	return fmt.Sprintf(`당신은 기술 면접관입니다. 아래 면접 질문에 대한 지원자의 답변을 읽고,
답변을 개선할 수 있는 구체적인 조언을 한 문단으로 작성해주세요. 형식 없이 자연스러운 문장으로만 답해주세요.

질문: %s
지원자의 답변: %s`, question.Prompt, answerText)
}

// callGemini makes exactly one request to the Gemini API.
func (s *FeedbackService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.Endpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		if text := geminiResp.Candidates[0].Content.Parts[0].Text; text != "" {
			return text, nil
		}
	}

	return "", fmt.Errorf("empty response from gemini")
}
