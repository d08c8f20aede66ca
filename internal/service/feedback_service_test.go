package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoyyChoi/yeonseubpun/internal/config"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

func testQuestion() *model.Question {
	return &model.Question{
		ID:       "js-001",
		Category: "javascript",
		Title:    "클로저(Closure)",
		Prompt:   "클로저의 개념과 실용적인 사용 예시를 설명해주세요.",
	}
}

func aiConfigFor(serverURL string, timeout time.Duration) *config.AIConfig {
	return &config.AIConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-2.0-flash",
		Timeout: timeout,
	}
}

func snapshotWithScore(value int) model.ScoreSnapshot {
	return model.ScoreSnapshot{
		Value:        value,
		WordCount:    40,
		BaseScore:    60,
		TimeBonus:    29.5,
		QualityBonus: 10,
	}
}

func TestGenerateUsesRemoteProse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  구체적인 코드 예시를 덧붙여보세요.  "}]}}]}`))
	}))
	defer server.Close()

	svc := NewFeedbackService(aiConfigFor(server.URL, 5*time.Second))
	report := svc.Generate(context.Background(), testQuestion(), "클로저는 함수와 렉시컬 환경의 조합입니다.", snapshotWithScore(100), 10)

	require.NotNil(t, report)
	assert.Equal(t, model.FeedbackSourceRemote, report.Source)
	assert.Equal(t, "구체적인 코드 예시를 덧붙여보세요.", report.ImprovementExample)
	assert.Equal(t, 100, report.TotalScore)
	assert.Equal(t, 5, report.StarRating)
	assert.Equal(t, model.GradePlatinum, report.Grade)
}

func TestGenerateFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewFeedbackService(aiConfigFor(server.URL, 5*time.Second))
	report := svc.Generate(context.Background(), testQuestion(), "답변", snapshotWithScore(80), 42)

	require.NotNil(t, report)
	assert.Equal(t, model.FeedbackSourceLocalFallback, report.Source)
	assert.Equal(t, 80, report.TotalScore)
	assert.Equal(t, 4, report.StarRating)
	assert.Equal(t, model.GradeGold, report.Grade)
	assert.Equal(t, 42, report.TimeSpentSeconds)
	assert.NotEmpty(t, report.ImprovementExample)
}

func TestGenerateFallsBackOnMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": not json`))
	}))
	defer server.Close()

	svc := NewFeedbackService(aiConfigFor(server.URL, 5*time.Second))
	report := svc.Generate(context.Background(), testQuestion(), "답변", snapshotWithScore(60), 30)

	assert.Equal(t, model.FeedbackSourceLocalFallback, report.Source)
}

func TestGenerateFallsBackOnEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc := NewFeedbackService(aiConfigFor(server.URL, 5*time.Second))
	report := svc.Generate(context.Background(), testQuestion(), "답변", snapshotWithScore(60), 30)

	assert.Equal(t, model.FeedbackSourceLocalFallback, report.Source)
}

func TestGenerateFallsBackOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"too late"}]}}]}`))
	}))
	defer server.Close()

	svc := NewFeedbackService(aiConfigFor(server.URL, 20*time.Millisecond))
	report := svc.Generate(context.Background(), testQuestion(), "답변", snapshotWithScore(60), 30)

	assert.Equal(t, model.FeedbackSourceLocalFallback, report.Source)
	assert.NotEqual(t, "too late", report.ImprovementExample)
}

func TestGenerateWithoutAPIKeySkipsRemote(t *testing.T) {
	cfg := &config.AIConfig{BaseURL: "http://127.0.0.1:1", Model: "gemini-2.0-flash", Timeout: time.Second}
	svc := NewFeedbackService(cfg)

	report := svc.Generate(context.Background(), testQuestion(), "짧은 답변", model.ScoreSnapshot{Value: 20, WordCount: 2, BaseScore: 4, TimeBonus: 15}, 300)

	require.NotNil(t, report)
	assert.Equal(t, model.FeedbackSourceLocalFallback, report.Source)
	assert.Equal(t, 20, report.TotalScore)
	assert.Equal(t, 3, report.StarRating)
	assert.Equal(t, model.GradeSilver, report.Grade)
	assert.Equal(t, experienceReward, report.ExperienceGained)
	assert.NotEmpty(t, report.Strengths)
	assert.NotEmpty(t, report.FollowUpQuestion)
}

func TestLocalReportSubscoresBounded(t *testing.T) {
	svc := NewFeedbackService(&config.AIConfig{Timeout: time.Second})

	for _, total := range []int{0, 5, 50, 95, 100} {
		snap := model.ScoreSnapshot{Value: total, WordCount: total / 2}
		report := svc.Generate(context.Background(), testQuestion(), strings.Repeat("단어 ", total/2), snap, 60)

		for _, sub := range []int{report.Subscores.Accuracy, report.Subscores.Clarity, report.Subscores.Completeness, report.Subscores.Examples} {
			assert.GreaterOrEqual(t, sub, 0, "total %d", total)
			assert.LessOrEqual(t, sub, 100, "total %d", total)
		}
	}
}

func TestLocalReportDeterministic(t *testing.T) {
	svc := NewFeedbackService(&config.AIConfig{Timeout: time.Second})
	snap := snapshotWithScore(85)

	first := svc.Generate(context.Background(), testQuestion(), "답변 텍스트", snap, 120)
	for i := 0; i < 5; i++ {
		again := svc.Generate(context.Background(), testQuestion(), "답변 텍스트", snap, 120)
		assert.Equal(t, first, again)
	}
}
