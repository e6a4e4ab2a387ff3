package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/LangHelper/internal/ai"
	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/stretchr/testify/assert"
)

type fakeQuizService struct {
	quiz     models.Quiz
	feedback string
	err      error
	gotQuiz  models.Quiz
	gotText  string
}

func (f *fakeQuizService) NewQuiz(context.Context, int64) (models.Quiz, error) {
	return f.quiz, f.err
}
func (f *fakeQuizService) QuizFeedback(_ context.Context, _ int64, quiz models.Quiz, answer string) (string, error) {
	f.gotQuiz, f.gotText = quiz, answer
	return f.feedback, f.err
}
func (f *fakeQuizService) WritingFeedback(_ context.Context, _ int64, text string) (string, error) {
	f.gotText = text
	return f.feedback, f.err
}

func TestQuizHandler_NewQuiz(t *testing.T) {
	tests := []struct {
		name     string
		svc      *fakeQuizService
		wantCode int
	}{
		{"quiz", &fakeQuizService{quiz: models.Quiz{Word: "gato", Question: "Q"}}, http.StatusOK},
		{"no starred words", &fakeQuizService{err: models.ErrNoStarred}, http.StatusConflict},
		{"completion disabled", &fakeQuizService{err: fmt.Errorf("generate question: %w", ai.ErrNotConfigured)}, http.StatusServiceUnavailable},
		{"completion failed", &fakeQuizService{err: errors.New("quota")}, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &QuizHandler{QuizService: tc.svc}
			rec := httptest.NewRecorder()
			asUser(h.NewQuiz, 1).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/quiz", nil)))
			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"word":"gato","question":"Q"}`, rec.Body.String())
			}
		})
	}
}

func TestQuizHandler_QuizFeedback(t *testing.T) {
	svc := &fakeQuizService{feedback: "Well done"}
	h := &QuizHandler{QuizService: svc}
	body := bytes.NewBufferString(`{"word":"gato","question":"Q","answer":"El gato"}`)

	rec := httptest.NewRecorder()
	asUser(h.QuizFeedback, 1).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/quiz/feedback", body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"feedback":"Well done"}`, rec.Body.String())
	assert.Equal(t, models.Quiz{Word: "gato", Question: "Q"}, svc.gotQuiz)
	assert.Equal(t, "El gato", svc.gotText)
}

func TestQuizHandler_WritingFeedback(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svc      *fakeQuizService
		wantCode int
	}{
		{"invalid JSON", `nope`, &fakeQuizService{}, http.StatusBadRequest},
		{"empty text", `{"text":""}`, &fakeQuizService{err: models.ErrEmptyText}, http.StatusBadRequest},
		{"ok", `{"text":"Hola"}`, &fakeQuizService{feedback: "fine"}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &QuizHandler{QuizService: tc.svc}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/writing/feedback", bytes.NewBufferString(tc.body))
			asUser(h.WritingFeedback, 1).ServeHTTP(rec, authed(req))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}
