package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atinyakov/LangHelper/internal/ai"
	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStarred struct {
	words []string
	err   error
}

func (s stubStarred) StarredWords(context.Context, int64) ([]string, error) { return s.words, s.err }

type stubProfiles struct{}

func (stubProfiles) GetByID(_ context.Context, id int64) (*models.User, bool, error) {
	if id != 1 {
		return nil, false, nil
	}
	return &models.User{ID: 1, NativeLanguage: "English", TargetLanguage: "Chinese"}, true, nil
}

type recordingCompleter struct {
	reply    string
	err      error
	messages []ai.Message
}

func (c *recordingCompleter) Complete(_ context.Context, m []ai.Message) (string, error) {
	c.messages = m
	return c.reply, c.err
}

func TestNewQuiz(t *testing.T) {
	completer := &recordingCompleter{reply: "¿...?"}
	svc := NewQuizService(stubStarred{words: []string{"gato", "perro"}}, stubProfiles{}, completer)
	svc.pick = func(n int) int { return n - 1 }

	quiz, err := svc.NewQuiz(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.Quiz{Word: "perro", Question: "¿...?"}, quiz)

	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[1].Content, "'perro'")
	assert.True(t, strings.HasSuffix(completer.messages[1].Content, "Please respond in Chinese."))
}

func TestNewQuiz_NoStarred(t *testing.T) {
	completer := &recordingCompleter{}
	svc := NewQuizService(stubStarred{}, stubProfiles{}, completer)

	_, err := svc.NewQuiz(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrNoStarred)
	assert.Nil(t, completer.messages)
}

func TestNewQuiz_CompleterError(t *testing.T) {
	wantErr := errors.New("quota")
	svc := NewQuizService(stubStarred{words: []string{"gato"}}, stubProfiles{}, &recordingCompleter{err: wantErr})

	_, err := svc.NewQuiz(context.Background(), 1)
	assert.ErrorIs(t, err, wantErr)
}

func TestQuizFeedback(t *testing.T) {
	completer := &recordingCompleter{reply: "Good use of the word."}
	svc := NewQuizService(stubStarred{}, stubProfiles{}, completer)

	reply, err := svc.QuizFeedback(context.Background(), 1, models.Quiz{Word: "gato", Question: "Q?"}, "El gato duerme.")
	require.NoError(t, err)
	assert.Equal(t, "Good use of the word.", reply)
	prompt := completer.messages[1].Content
	assert.Contains(t, prompt, "The student is responding to this prompt: Q?")
	assert.Contains(t, prompt, "The student's writing: El gato duerme.")
	assert.Contains(t, prompt, "The word they were supposed to use is: gato")

	_, err = svc.QuizFeedback(context.Background(), 1, models.Quiz{}, "  ")
	assert.ErrorIs(t, err, models.ErrEmptyText)
}

func TestWritingFeedback(t *testing.T) {
	completer := &recordingCompleter{reply: "ok"}
	svc := NewQuizService(stubStarred{}, stubProfiles{}, completer)

	_, err := svc.WritingFeedback(context.Background(), 1, "Hola amigo")
	require.NoError(t, err)
	assert.Contains(t, completer.messages[1].Content, "This is the student's writing: Hola amigo")
	assert.Contains(t, completer.messages[1].Content, "respond in English.")

	_, err = svc.WritingFeedback(context.Background(), 2, "Hola")
	assert.ErrorIs(t, err, models.ErrMissingUser)

	_, err = svc.WritingFeedback(context.Background(), 1, "")
	assert.ErrorIs(t, err, models.ErrEmptyText)
}
