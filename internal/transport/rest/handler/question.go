package handler

import (
	"encoding/json"
	"net/http"
	"quizbank/internal/model"
	"quizbank/internal/service"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// QuestionHandler handles question bank endpoints
type QuestionHandler struct {
	questionSvc *service.QuestionService
	log         *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionSvc: questionSvc,
		log:         log,
	}
}

// List handles GET /questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.QuestionBank{Questions: questions})
}

// Create handles POST /questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Question
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.questionSvc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /questions/{index}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	var req model.Question
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.questionSvc.Update(r.Context(), index, req)
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /questions/{index}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	removed, err := h.questionSvc.Delete(r.Context(), index)
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removed)
}

func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return index, true
}
