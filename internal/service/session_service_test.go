package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoyyChoi/yeonseubpun/internal/config"
	"github.com/hoyyChoi/yeonseubpun/internal/engine"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

type memDraftStore struct {
	mu    sync.Mutex
	data  map[string]string
	saves int
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{data: make(map[string]string)}
}

func (m *memDraftStore) key(userID string, key model.DraftKey) string {
	return "user:" + userID + ":" + key.String()
}

func (m *memDraftStore) Save(ctx context.Context, userID string, key model.DraftKey, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key(userID, key)] = text
	m.saves++
	return nil
}

func (m *memDraftStore) Load(ctx context.Context, userID string, key model.DraftKey) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.data[m.key(userID, key)]
	return text, ok, nil
}

func (m *memDraftStore) Clear(ctx context.Context, userID string, key model.DraftKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, m.key(userID, key))
	return nil
}

func (m *memDraftStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type memMediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemMediaStore() *memMediaStore {
	return &memMediaStore{objects: make(map[string][]byte)}
}

func (m *memMediaStore) Store(ctx context.Context, attemptID string, modality model.Modality, blob []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "captures/" + attemptID + ".webm"
	m.objects[key] = blob
	return key, nil
}

func (m *memMediaStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type stubQuestionRepo struct {
	questions map[string]*model.Question
}

func newStubQuestionRepo(qs ...*model.Question) *stubQuestionRepo {
	repo := &stubQuestionRepo{questions: make(map[string]*model.Question)}
	for _, q := range qs {
		repo.questions[q.Category+"/"+q.ID] = q
	}
	return repo
}

func (r *stubQuestionRepo) GetByID(ctx context.Context, category, id string) (*model.Question, error) {
	return r.questions[category+"/"+id], nil
}

func (r *stubQuestionRepo) ListByCategory(ctx context.Context, category string) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range r.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *stubQuestionRepo) Upsert(ctx context.Context, q *model.Question) error {
	r.questions[q.Category+"/"+q.ID] = q
	return nil
}

func newTestSessionService(drafts *memDraftStore, media *memMediaStore) *SessionService {
	repo := newStubQuestionRepo(&model.Question{
		ID:         "js-001",
		Category:   "javascript",
		Title:      "클로저(Closure)",
		Prompt:     "클로저의 개념과 실용적인 사용 예시를 설명해주세요.",
		Difficulty: model.DifficultyMedium,
	})
	feedback := NewFeedbackService(&config.AIConfig{Timeout: time.Second})
	cfg := config.SessionConfig{
		DraftQuietPeriod: 20 * time.Millisecond,
		CaptureTimeout:   time.Second,
	}
	return NewSessionService(repo, drafts, media, feedback, NewNoopBroadcaster(), cfg)
}

func TestBeginUnknownQuestion(t *testing.T) {
	svc := newTestSessionService(newMemDraftStore(), newMemMediaStore())

	_, err := svc.Begin(context.Background(), "user-a", "javascript", "nope", model.ModalityText)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestUpdateTextDebouncesDraftSaves(t *testing.T) {
	drafts := newMemDraftStore()
	svc := newTestSessionService(drafts, newMemMediaStore())

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", attempt.ID)

	for _, text := range []string{"클", "클로", "클로저", "클로저는", "클로저는 함수다"} {
		_, err := svc.UpdateText(context.Background(), "user-a", attempt.ID, text)
		require.NoError(t, err)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, drafts.saveCount())

	key := model.DraftKey{Category: "javascript", QuestionID: "js-001"}
	text, ok, err := drafts.Load(context.Background(), "user-a", key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "클로저는 함수다", text)
}

func TestBeginRehydratesDraft(t *testing.T) {
	drafts := newMemDraftStore()
	svc := newTestSessionService(drafts, newMemMediaStore())

	key := model.DraftKey{Category: "javascript", QuestionID: "js-001"}
	require.NoError(t, drafts.Save(context.Background(), "user-a", key, "이전에 쓰던 답변"))

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", attempt.ID)

	got, score, err := svc.Get("user-a", attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, "이전에 쓰던 답변", got.TextContent)
	assert.Greater(t, score.Value, 0)
}

func TestSubmitClearsDraftAndEndsAttempt(t *testing.T) {
	drafts := newMemDraftStore()
	svc := newTestSessionService(drafts, newMemMediaStore())

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)

	answer := strings.Repeat("단어 ", 38) + "예를 들어"
	_, err = svc.UpdateText(context.Background(), "user-a", attempt.ID, answer)
	require.NoError(t, err)

	report, err := svc.Submit(context.Background(), "user-a", attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 100, report.TotalScore)
	assert.Equal(t, 5, report.StarRating)
	assert.Equal(t, model.FeedbackSourceLocalFallback, report.Source)

	key := model.DraftKey{Category: "javascript", QuestionID: "js-001"}
	_, ok, err := drafts.Load(context.Background(), "user-a", key)
	require.NoError(t, err)
	assert.False(t, ok, "draft must be cleared on submit")

	_, _, err = svc.Get("user-a", attempt.ID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestSubmitEmptyAnswerRejected(t *testing.T) {
	svc := newTestSessionService(newMemDraftStore(), newMemMediaStore())

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", attempt.ID)

	_, err = svc.Submit(context.Background(), "user-a", attempt.ID)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestAbandonFlushesPendingDraft(t *testing.T) {
	drafts := newMemDraftStore()
	svc := newTestSessionService(drafts, newMemMediaStore())

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)

	_, err = svc.UpdateText(context.Background(), "user-a", attempt.ID, "저장되기 전에 떠난다")
	require.NoError(t, err)

	// Abandon before the quiet period elapses; the pending save must flush.
	require.NoError(t, svc.Abandon(context.Background(), "user-a", attempt.ID))

	key := model.DraftKey{Category: "javascript", QuestionID: "js-001"}
	text, ok, err := drafts.Load(context.Background(), "user-a", key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "저장되기 전에 떠난다", text)
}

func TestBeginAbandonsPreviousAttempt(t *testing.T) {
	svc := newTestSessionService(newMemDraftStore(), newMemMediaStore())

	first, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)

	second, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", second.ID)

	_, _, err = svc.Get("user-a", first.ID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestRecordingLifecycleStoresMedia(t *testing.T) {
	media := newMemMediaStore()
	svc := newTestSessionService(newMemDraftStore(), media)

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityAudio)
	require.NoError(t, err)

	require.NoError(t, svc.StartRecording(context.Background(), "user-a", attempt.ID, model.ModalityAudio))
	require.NoError(t, svc.AppendRecording("user-a", attempt.ID, []byte("chunk-1")))
	require.NoError(t, svc.AppendRecording("user-a", attempt.ID, []byte("chunk-2")))

	key, err := svc.StopRecording(context.Background(), "user-a", attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, "captures/"+attempt.ID+".webm", key)
	assert.Equal(t, []byte("chunk-1chunk-2"), media.objects[key])

	report, err := svc.Submit(context.Background(), "user-a", attempt.ID)
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestStartRecordingWhileCapturing(t *testing.T) {
	svc := newTestSessionService(newMemDraftStore(), newMemMediaStore())

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityAudio)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", attempt.ID)

	require.NoError(t, svc.StartRecording(context.Background(), "user-a", attempt.ID, model.ModalityAudio))

	err = svc.StartRecording(context.Background(), "user-a", attempt.ID, model.ModalityAudio)
	assert.ErrorIs(t, err, engine.ErrAlreadyRecording)
}

func TestDiscardRecordingDeletesStoredMedia(t *testing.T) {
	media := newMemMediaStore()
	svc := newTestSessionService(newMemDraftStore(), media)

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityAudio)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", attempt.ID)

	require.NoError(t, svc.StartRecording(context.Background(), "user-a", attempt.ID, model.ModalityAudio))
	require.NoError(t, svc.AppendRecording("user-a", attempt.ID, []byte("chunk")))

	key, err := svc.StopRecording(context.Background(), "user-a", attempt.ID)
	require.NoError(t, err)
	require.Contains(t, media.objects, key)

	require.NoError(t, svc.DiscardRecording(context.Background(), "user-a", attempt.ID))
	assert.NotContains(t, media.objects, key)

	// Back to idle, so re-recording works.
	require.NoError(t, svc.StartRecording(context.Background(), "user-a", attempt.ID, model.ModalityAudio))
}

func TestOwnershipEnforced(t *testing.T) {
	svc := newTestSessionService(newMemDraftStore(), newMemMediaStore())

	attempt, err := svc.Begin(context.Background(), "user-a", "javascript", "js-001", model.ModalityText)
	require.NoError(t, err)
	defer svc.Abandon(context.Background(), "user-a", attempt.ID)

	_, err = svc.UpdateText(context.Background(), "user-b", attempt.ID, "남의 답변")
	assert.ErrorIs(t, err, ErrNotOwner)

	assert.True(t, svc.Owns(attempt.ID, "user-a"))
	assert.False(t, svc.Owns(attempt.ID, "user-b"))
}
