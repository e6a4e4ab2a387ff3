package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/atinyakov/LangHelper/internal/ai"
	"github.com/atinyakov/LangHelper/internal/models"
)

const (
	quizSystemPrompt = "You are a language teacher helping a student learn a new language through quizzing them about new vocabulary words."

	feedbackSystemPrompt = "You are a language teacher helping a student learn a new language by giving them feedback on their writing."

	quizQuestionPrompt = "You are talking directly to the student. Write a question that will prompt the student to put the word '%s' into context. Please respond in %s."

	quizFeedbackPrompt = "The student is responding to this prompt: %s\n" +
		"The student's writing: %s\n" +
		"The word they were supposed to use is: %s\n" +
		"Please check if they used the word correctly and naturally in their response. " +
		"List at least 1 strength and give the student 1-2 pieces of feedback on their writing. " +
		"Evaluate the student's writing with an emphasis on the student's contextualization of the vocabulary word. " +
		"Please respond in %s and respond as if you were speaking directly to the student."

	writingFeedbackPrompt = "This is the student's writing: %s\n" +
		"Please give the student feedback on social convention. For example, give feedback on whether the " +
		"student's writing aligns with the country's social customs or whether the words and phrases the " +
		"student is using are culturally appropriate. If the student spoke this way, would they sound like " +
		"a native speaker? If not, how can they improve? Also give feedback on the student's grammar or in " +
		"any areas in which there is room for improvement. Please respond as if you are speaking directly " +
		"to the student and respond in %s."
)

// StarredSource lists quiz candidates.
type StarredSource interface {
	StarredWords(ctx context.Context, userID int64) ([]string, error)
}

// ProfileSource loads the user's languages.
type ProfileSource interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
}

// QuizService builds vocabulary quizzes and writing feedback on top of a Completer.
// It keeps no state between calls.
type QuizService struct {
	words     StarredSource
	profiles  ProfileSource
	completer ai.Completer

	pick func(n int) int
}

// NewQuizService constructs a QuizService.
func NewQuizService(words StarredSource, profiles ProfileSource, completer ai.Completer) *QuizService {
	return &QuizService{words: words, profiles: profiles, completer: completer, pick: rand.IntN}
}

// NewQuiz picks a random starred word and asks for a question about it in the
// user's target language. It returns models.ErrNoStarred when nothing is starred.
func (s *QuizService) NewQuiz(ctx context.Context, userID int64) (models.Quiz, error) {
	words, err := s.words.StarredWords(ctx, userID)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("starred words: %w", err)
	}
	if len(words) == 0 {
		return models.Quiz{}, models.ErrNoStarred
	}
	word := words[s.pick(len(words))]

	user, err := s.profile(ctx, userID)
	if err != nil {
		return models.Quiz{}, err
	}

	question, err := s.completer.Complete(ctx, []ai.Message{
		{Role: "system", Content: quizSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(quizQuestionPrompt, word, user.TargetLanguage)},
	})
	if err != nil {
		return models.Quiz{}, fmt.Errorf("generate question: %w", err)
	}
	return models.Quiz{Word: word, Question: question}, nil
}

// QuizFeedback evaluates the answer to a quiz question.
func (s *QuizService) QuizFeedback(ctx context.Context, userID int64, quiz models.Quiz, answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", models.ErrEmptyText
	}
	user, err := s.profile(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.feedback(ctx, fmt.Sprintf(quizFeedbackPrompt, quiz.Question, answer, quiz.Word, user.NativeLanguage))
}

// WritingFeedback comments on the social conventions and grammar of free text.
func (s *QuizService) WritingFeedback(ctx context.Context, userID int64, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", models.ErrEmptyText
	}
	user, err := s.profile(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.feedback(ctx, fmt.Sprintf(writingFeedbackPrompt, text, user.NativeLanguage))
}

func (s *QuizService) feedback(ctx context.Context, prompt string) (string, error) {
	reply, err := s.completer.Complete(ctx, []ai.Message{
		{Role: "system", Content: feedbackSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("generate feedback: %w", err)
	}
	return reply, nil
}

func (s *QuizService) profile(ctx context.Context, userID int64) (*models.User, error) {
	user, found, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return nil, models.ErrMissingUser
	}
	return user, nil
}
