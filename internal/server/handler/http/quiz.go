package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/LangHelper/internal/middleware"
	"github.com/atinyakov/LangHelper/internal/models"
	"go.uber.org/zap"
)

// QuizService defines the completion-backed operations required by the QuizHandler.
type QuizService interface {
	NewQuiz(ctx context.Context, userID int64) (models.Quiz, error)
	QuizFeedback(ctx context.Context, userID int64, quiz models.Quiz, answer string) (string, error)
	WritingFeedback(ctx context.Context, userID int64, text string) (string, error)
}

// QuizHandler serves the vocabulary quiz and writing feedback endpoints.
// The server keeps no quiz state; clients send the question and word back
// together with their answer.
type QuizHandler struct {
	QuizService QuizService
	Logger      *zap.Logger
}

// QuizAnswerRequest is the payload of POST /api/quiz/feedback.
type QuizAnswerRequest struct {
	Word     string `json:"word"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FeedbackResponse carries the generated feedback.
type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

// NewQuiz handles POST /api/quiz. It answers 409 when the user has no starred words.
func (h *QuizHandler) NewQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.QuizService.NewQuiz(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, "generate quiz failed", err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// QuizFeedback handles POST /api/quiz/feedback.
func (h *QuizHandler) QuizFeedback(w http.ResponseWriter, r *http.Request) {
	var req QuizAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	quiz := models.Quiz{Word: req.Word, Question: req.Question}
	feedback, err := h.QuizService.QuizFeedback(r.Context(), middleware.GetUserIDFromContext(r.Context()), quiz, req.Answer)
	if err != nil {
		h.fail(w, "quiz feedback failed", err)
		return
	}
	writeJSON(w, http.StatusOK, FeedbackResponse{Feedback: feedback})
}

// WritingFeedback handles POST /api/writing/feedback with a {"text": "..."} body.
func (h *QuizHandler) WritingFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	feedback, err := h.QuizService.WritingFeedback(r.Context(), middleware.GetUserIDFromContext(r.Context()), req.Text)
	if err != nil {
		h.fail(w, "writing feedback failed", err)
		return
	}
	writeJSON(w, http.StatusOK, FeedbackResponse{Feedback: feedback})
}

func (h *QuizHandler) fail(w http.ResponseWriter, msg string, err error) {
	if h.Logger != nil && statusFor(err) == http.StatusInternalServerError {
		h.Logger.Error(msg, zap.Error(err))
	}
	writeError(w, err)
}
