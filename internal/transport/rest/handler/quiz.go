package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"quizbank/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// QuizHandler handles the session quiz flow
type QuizHandler struct {
	quizSvc *service.QuizService
	log     *zap.Logger
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService, log *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quizSvc: quizSvc,
		log:     log,
	}
}

// GetQuestionsRequest is the request body for starting a quiz.
// Num is left untyped so non-numbers can be told apart from bad numbers.
type GetQuestionsRequest struct {
	Num       interface{} `json:"num"`
	SessionID string      `json:"sessionId,omitempty"`
}

// FinalistRequest is the request body for submitting answers
type FinalistRequest struct {
	SessionID   string    `json:"sessionId"`
	UserAnswers *[]string `json:"userAnswers"`
}

// GetQuestions handles POST /getQuestions
func (h *QuizHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	var req GetQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, ok := wholeNumber(req.Num)
	if !ok {
		writeError(w, http.StatusBadRequest, `"num" must be a positive whole number`)
		return
	}

	sel, err := h.quizSvc.Select(r.Context(), count, req.SessionID)
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sel)
}

// Finalist handles POST /finalist
func (h *QuizHandler) Finalist(w http.ResponseWriter, r *http.Request) {
	var req FinalistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// absent and null both leave the pointer nil
	if req.UserAnswers == nil {
		writeError(w, http.StatusBadRequest, `"userAnswers" must be an array of strings`)
		return
	}

	score, err := h.quizSvc.Score(r.Context(), req.SessionID, *req.UserAnswers)
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// Results handles GET /results/{date}
func (h *QuizHandler) Results(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	games, err := h.quizSvc.Results(r.Context(), date)
	if err != nil {
		writeServiceError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"date": date, "games": games})
}

// wholeNumber accepts JSON numbers with no fractional part. Counts beyond
// int32 are clamped since selection never exceeds the bank size anyway.
func wholeNumber(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}
