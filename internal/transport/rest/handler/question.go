package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hoyyChoi/yeonseubpun/internal/repository"
)

// QuestionHandler serves the question catalog
type QuestionHandler struct {
	questions repository.QuestionRepo
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions repository.QuestionRepo) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// List handles GET /v1/categories/{category}/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	questions, err := h.questions.ListByCategory(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list questions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category":  category,
		"questions": questions,
	})
}

// Get handles GET /v1/categories/{category}/questions/{questionId}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	question, err := h.questions.GetByID(r.Context(), vars["category"], vars["questionId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load question")
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	writeJSON(w, http.StatusOK, question)
}
