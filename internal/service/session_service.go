package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoyyChoi/yeonseubpun/internal/cache"
	"github.com/hoyyChoi/yeonseubpun/internal/config"
	"github.com/hoyyChoi/yeonseubpun/internal/engine"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
	"github.com/hoyyChoi/yeonseubpun/internal/repository"
	"github.com/hoyyChoi/yeonseubpun/pkg/logger"
)

var (
	// ErrAttemptNotFound means no active attempt exists under that id.
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrQuestionNotFound means the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidSubmission rejects a submit with no answer, or with both a
	// text answer and a captured recording.
	ErrInvalidSubmission = errors.New("submission must have exactly one answer source")

	// ErrNotOwner rejects access to another user's attempt.
	ErrNotOwner = errors.New("attempt belongs to another user")
)

// Websocket message types pushed while an attempt is live.
const (
	MsgTick             = "tick"
	MsgScoreUpdate      = "score_update"
	MsgEvaluationResult = "evaluation_result"
)

// activeAttempt bundles the per-attempt machinery: the wall-clock timer, the
// debounced draft writer, the recording state machine and the attempt-scoped
// context that is cancelled the moment the attempt ends.
type activeAttempt struct {
	mu sync.Mutex

	attempt  *model.Attempt
	question *model.Question

	timer     *engine.Timer
	debounce  *engine.Debouncer
	recording *engine.RecordingSession
	capture   *UploadCaptureDevice

	score model.ScoreSnapshot

	ctx    context.Context
	cancel context.CancelFunc
	done   bool
}

// SessionService owns the lifecycle of answer attempts: begin, live edits
// with debounced draft persistence, recording, submit and abandon. One
// attempt per user is active at a time; beginning a new one abandons the old.
type SessionService struct {
	questions   repository.QuestionRepo
	drafts      cache.DraftStore
	media       MediaStore
	feedback    *FeedbackService
	scorer      *engine.Scorer
	broadcaster Broadcaster
	cfg         config.SessionConfig

	mu       sync.Mutex
	attempts map[string]*activeAttempt
	byUser   map[string]string // userID -> attemptID
}

func NewSessionService(questions repository.QuestionRepo, drafts cache.DraftStore, media MediaStore, feedback *FeedbackService, broadcaster Broadcaster, cfg config.SessionConfig) *SessionService {
	return &SessionService{
		questions:   questions,
		drafts:      drafts,
		media:       media,
		feedback:    feedback,
		scorer:      engine.NewScorer(),
		broadcaster: broadcaster,
		cfg:         cfg,
		attempts:    make(map[string]*activeAttempt),
		byUser:      make(map[string]string),
	}
}

// Begin starts a new attempt at a question. Any previous active attempt by
// the same user is abandoned first. For text attempts, a persisted draft is
// rehydrated so a reload resumes where the user left off.
func (s *SessionService) Begin(ctx context.Context, userID, category, questionID string, modality model.Modality) (*model.Attempt, error) {
	question, err := s.questions.GetByID(ctx, category, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	s.mu.Lock()
	if prevID, ok := s.byUser[userID]; ok {
		prev := s.attempts[prevID]
		s.mu.Unlock()
		if prev != nil {
			s.abandonAttempt(prevID, prev)
		}
		s.mu.Lock()
	}

	attempt := &model.Attempt{
		ID:         uuid.New().String(),
		UserID:     userID,
		QuestionID: question.ID,
		Category:   question.Category,
		Difficulty: question.Difficulty,
		Modality:   modality,
		StartedAt:  time.Now(),
		Status:     model.AttemptActive,
	}

	attemptCtx, cancel := context.WithCancel(context.Background())
	capture := NewUploadCaptureDevice()
	aa := &activeAttempt{
		attempt:   attempt,
		question:  question,
		timer:     engine.NewTimer(),
		debounce:  engine.NewDebouncer(s.cfg.DraftQuietPeriod),
		recording: engine.NewRecordingSession(capture, s.cfg.CaptureTimeout),
		capture:   capture,
		ctx:       attemptCtx,
		cancel:    cancel,
	}

	s.attempts[attempt.ID] = aa
	s.byUser[userID] = attempt.ID
	s.mu.Unlock()

	if modality == model.ModalityText {
		key := model.DraftKey{Category: attempt.Category, QuestionID: attempt.QuestionID}
		if text, ok, err := s.drafts.Load(ctx, userID, key); err != nil {
			logger.Log.Warn("draft rehydration failed", zap.String("attempt", attempt.ID), zap.Error(err))
		} else if ok {
			aa.mu.Lock()
			aa.attempt.TextContent = text
			aa.score = s.scorer.Score(text, 0)
			aa.mu.Unlock()
		}
	}

	aa.timer.Start()
	go s.pumpTicks(aa)

	logger.Log.Info("attempt started",
		zap.String("attempt", attempt.ID),
		zap.String("question", attempt.QuestionID),
		zap.String("modality", string(modality)))
	return s.snapshotAttempt(aa), nil
}

// pumpTicks forwards elapsed-time samples to the attempt's viewers, rescoring
// on each so the time bonus decays live even while the user is not typing.
func (s *SessionService) pumpTicks(aa *activeAttempt) {
	for {
		select {
		case <-aa.ctx.Done():
			return
		case elapsed := <-aa.timer.Ticks():
			aa.mu.Lock()
			if aa.done {
				aa.mu.Unlock()
				return
			}
			attemptID := aa.attempt.ID
			if aa.attempt.Modality == model.ModalityText {
				aa.score = s.scorer.Score(aa.attempt.TextContent, elapsed)
			}
			score := aa.score
			aa.mu.Unlock()

			s.broadcaster.BroadcastToAttempt(attemptID, MsgTick, map[string]interface{}{
				"elapsedSeconds": elapsed,
				"score":          score,
			})
		}
	}
}

// UpdateText replaces the attempt's answer text, rescoring immediately and
// scheduling a debounced draft save.
func (s *SessionService) UpdateText(ctx context.Context, userID, attemptID, text string) (model.ScoreSnapshot, error) {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return model.ScoreSnapshot{}, err
	}

	aa.mu.Lock()
	if aa.done {
		aa.mu.Unlock()
		return model.ScoreSnapshot{}, ErrAttemptNotFound
	}
	aa.attempt.TextContent = text
	aa.score = s.scorer.Score(text, aa.timer.Elapsed())
	score := aa.score
	key := model.DraftKey{Category: aa.attempt.Category, QuestionID: aa.attempt.QuestionID}
	aa.mu.Unlock()

	aa.debounce.Call(func() {
		// Background context: the save must outlive the request that
		// scheduled it.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.drafts.Save(saveCtx, userID, key, text); err != nil {
			logger.Log.Warn("draft save failed", zap.String("attempt", attemptID), zap.Error(err))
		}
	})

	s.broadcaster.BroadcastToAttempt(attemptID, MsgScoreUpdate, score)
	return score, nil
}

// StartRecording moves the attempt's recording session into capturing.
func (s *SessionService) StartRecording(ctx context.Context, userID, attemptID string, modality model.Modality) error {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return err
	}
	return aa.recording.Start(ctx, modality)
}

// AppendRecording forwards an uploaded media chunk to the open capture.
func (s *SessionService) AppendRecording(userID, attemptID string, chunk []byte) error {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return err
	}
	return aa.capture.Append(chunk)
}

// StopRecording finalizes the capture and persists the blob. On a storage
// failure the capture is discarded so the session returns to idle.
func (s *SessionService) StopRecording(ctx context.Context, userID, attemptID string) (string, error) {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return "", err
	}

	blob, err := aa.recording.Stop()
	if err != nil {
		return "", err
	}

	key, err := s.media.Store(ctx, attemptID, aa.attempt.Modality, blob)
	if err != nil {
		if derr := aa.recording.Discard(); derr != nil {
			logger.Log.Warn("discard after failed store", zap.String("attempt", attemptID), zap.Error(derr))
		}
		return "", err
	}

	aa.mu.Lock()
	aa.attempt.MediaKey = key
	aa.mu.Unlock()
	return key, nil
}

// DiscardRecording drops the held capture (or aborts an in-flight one) and
// deletes any stored blob, so the user can re-record.
func (s *SessionService) DiscardRecording(ctx context.Context, userID, attemptID string) error {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return err
	}

	if err := aa.recording.Discard(); err != nil {
		return err
	}

	aa.mu.Lock()
	key := aa.attempt.MediaKey
	aa.attempt.MediaKey = ""
	aa.mu.Unlock()

	if key != "" {
		if err := s.media.Delete(ctx, key); err != nil {
			logger.Log.Warn("stored capture delete failed", zap.String("attempt", attemptID), zap.Error(err))
		}
	}
	return nil
}

// Submit finalizes the attempt: it freezes the score, generates the feedback
// report, clears the persisted draft and tears the attempt down. The
// submitted answer must be exactly one of text or captured media.
func (s *SessionService) Submit(ctx context.Context, userID, attemptID string) (*model.FeedbackReport, error) {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return nil, err
	}

	aa.mu.Lock()
	if aa.done {
		aa.mu.Unlock()
		return nil, ErrAttemptNotFound
	}
	if !aa.attempt.Submittable() {
		aa.mu.Unlock()
		return nil, ErrInvalidSubmission
	}
	aa.done = true
	elapsed := aa.timer.Elapsed()
	final := s.scorer.Score(aa.attempt.TextContent, elapsed)
	if aa.attempt.Modality != model.ModalityText {
		final = aa.score
	}
	aa.attempt.Status = model.AttemptSubmitted
	question := aa.question
	text := aa.attempt.TextContent
	key := model.DraftKey{Category: aa.attempt.Category, QuestionID: aa.attempt.QuestionID}
	aa.mu.Unlock()

	aa.timer.Stop()
	aa.debounce.Stop()

	report := s.feedback.Generate(aa.ctx, question, text, final, elapsed)
	if aa.ctx.Err() != nil {
		// The attempt was torn down while the remote call was in flight;
		// the result belongs to nobody now.
		return nil, ErrAttemptNotFound
	}

	clearCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.drafts.Clear(clearCtx, userID, key); err != nil {
		logger.Log.Warn("draft clear failed", zap.String("attempt", attemptID), zap.Error(err))
	}

	s.broadcaster.BroadcastToAttempt(attemptID, MsgEvaluationResult, report)
	s.teardown(attemptID, aa)

	logger.Log.Info("attempt submitted",
		zap.String("attempt", attemptID),
		zap.Int("score", report.TotalScore),
		zap.String("source", string(report.Source)))
	return report, nil
}

// Abandon ends the attempt without evaluation. A pending draft save is
// flushed first so the user's last edit survives for the next session.
func (s *SessionService) Abandon(ctx context.Context, userID, attemptID string) error {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return err
	}
	s.abandonAttempt(attemptID, aa)
	return nil
}

func (s *SessionService) abandonAttempt(attemptID string, aa *activeAttempt) {
	aa.mu.Lock()
	if aa.done {
		aa.mu.Unlock()
		return
	}
	aa.done = true
	aa.attempt.Status = model.AttemptAbandoned
	aa.mu.Unlock()

	aa.debounce.Flush()
	aa.debounce.Stop()
	aa.timer.Stop()
	s.teardown(attemptID, aa)

	logger.Log.Info("attempt abandoned", zap.String("attempt", attemptID))
}

// teardown cancels the attempt context, releases any capture resources and
// drops the attempt from the registry.
func (s *SessionService) teardown(attemptID string, aa *activeAttempt) {
	aa.cancel()
	aa.recording.Close()

	s.mu.Lock()
	delete(s.attempts, attemptID)
	if s.byUser[aa.attempt.UserID] == attemptID {
		delete(s.byUser, aa.attempt.UserID)
	}
	s.mu.Unlock()
}

// Owns reports whether the attempt exists and belongs to the user. Used by
// the websocket handshake.
func (s *SessionService) Owns(attemptID, userID string) bool {
	_, err := s.lookup(attemptID, userID)
	return err == nil
}

// Get returns a point-in-time copy of an active attempt.
func (s *SessionService) Get(userID, attemptID string) (*model.Attempt, model.ScoreSnapshot, error) {
	aa, err := s.lookup(attemptID, userID)
	if err != nil {
		return nil, model.ScoreSnapshot{}, err
	}
	aa.mu.Lock()
	defer aa.mu.Unlock()
	copied := *aa.attempt
	return &copied, aa.score, nil
}

func (s *SessionService) lookup(attemptID, userID string) (*activeAttempt, error) {
	s.mu.Lock()
	aa, ok := s.attempts[attemptID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if aa.attempt.UserID != userID {
		return nil, ErrNotOwner
	}
	return aa, nil
}

func (s *SessionService) snapshotAttempt(aa *activeAttempt) *model.Attempt {
	aa.mu.Lock()
	defer aa.mu.Unlock()
	copied := *aa.attempt
	return &copied
}
