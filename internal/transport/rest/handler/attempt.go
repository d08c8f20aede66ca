package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hoyyChoi/yeonseubpun/internal/engine"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
	"github.com/hoyyChoi/yeonseubpun/internal/service"
	"github.com/hoyyChoi/yeonseubpun/internal/transport/rest/middleware"
)

// maxChunkBytes caps a single recording upload chunk.
const maxChunkBytes = 4 << 20

// AttemptHandler handles answer attempt endpoints
type AttemptHandler struct {
	sessionSvc *service.SessionService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(sessionSvc *service.SessionService) *AttemptHandler {
	return &AttemptHandler{sessionSvc: sessionSvc}
}

// Begin handles POST /v1/attempts
func (h *AttemptHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category   string         `json:"category"`
		QuestionID string         `json:"questionId"`
		Modality   model.Modality `json:"modality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Modality == "" {
		req.Modality = model.ModalityText
	}
	if !req.Modality.Valid() {
		writeError(w, http.StatusBadRequest, "unknown modality")
		return
	}

	userID := middleware.GetUserID(r.Context())
	attempt, err := h.sessionSvc.Begin(r.Context(), userID, req.Category, req.QuestionID, req.Modality)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

// UpdateAnswer handles PUT /v1/attempts/{id}/answer
func (h *AttemptHandler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())
	score, err := h.sessionSvc.UpdateText(r.Context(), userID, mux.Vars(r)["id"], req.Text)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"score": score})
}

// StartRecording handles POST /v1/attempts/{id}/recording/start
func (h *AttemptHandler) StartRecording(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Modality model.Modality `json:"modality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Modality.CapturesMedia() {
		writeError(w, http.StatusBadRequest, "modality does not capture media")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.sessionSvc.StartRecording(r.Context(), userID, mux.Vars(r)["id"], req.Modality); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"state": string(engine.RecordingCapturing)})
}

// AppendRecording handles PUT /v1/attempts/{id}/recording/data
func (h *AttemptHandler) AppendRecording(w http.ResponseWriter, r *http.Request) {
	chunk, err := io.ReadAll(io.LimitReader(r.Body, maxChunkBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read chunk")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.sessionSvc.AppendRecording(userID, mux.Vars(r)["id"], chunk); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StopRecording handles POST /v1/attempts/{id}/recording/stop
func (h *AttemptHandler) StopRecording(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	mediaKey, err := h.sessionSvc.StopRecording(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"mediaKey": mediaKey})
}

// DiscardRecording handles POST /v1/attempts/{id}/recording/discard
func (h *AttemptHandler) DiscardRecording(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.sessionSvc.DiscardRecording(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"state": string(engine.RecordingIdle)})
}

// Submit handles POST /v1/attempts/{id}/submit
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	report, err := h.sessionSvc.Submit(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Abandon handles DELETE /v1/attempts/{id}
func (h *AttemptHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.sessionSvc.Abandon(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /v1/attempts/{id}
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	attempt, score, err := h.sessionSvc.Get(userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempt": attempt,
		"score":   score,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAttemptNotFound), errors.Is(err, service.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrAlreadyRecording), errors.Is(err, engine.ErrCaptureRetained):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotCapturing), errors.Is(err, engine.ErrNothingCaptured):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidSubmission):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrDeviceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
