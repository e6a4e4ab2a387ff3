// Package session keeps the CLI's explicit session state between invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atinyakov/LangHelper/internal/models"
)

// FileName is the name of the state file inside the user's config directory.
const FileName = "session.json"

// State is everything the CLI remembers about the current user.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Token    string `json:"token,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`

	QuizWord     string `json:"quiz_word,omitempty"`
	QuizQuestion string `json:"quiz_question,omitempty"`

	path string
}

// DefaultPath returns <user config dir>/langhelper/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "langhelper", FileName), nil
}

// Load reads the state stored at path. A missing file yields a logged-out state.
func Load(path string) (*State, error) {
	st := &State{path: path}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(st); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	st.path = path
	return st, nil
}

// Save writes the state back to the file it was loaded from.
func (s *State) Save() error {
	if s.path == "" {
		return errors.New("session has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Begin records a successful login or registration and drops any stale quiz.
func (s *State) Begin(token string, user *models.User) {
	s.LoggedIn = true
	s.Token = token
	s.UserID = user.ID
	s.Username = user.Username
	s.ClearQuiz()
}

// Clear logs the user out.
func (s *State) Clear() {
	*s = State{path: s.path}
}

// SetQuiz remembers the open quiz question until it is answered.
func (s *State) SetQuiz(q models.Quiz) {
	s.QuizWord = q.Word
	s.QuizQuestion = q.Question
}

// Quiz returns the open quiz, if any.
func (s *State) Quiz() (models.Quiz, bool) {
	if s.QuizQuestion == "" {
		return models.Quiz{}, false
	}
	return models.Quiz{Word: s.QuizWord, Question: s.QuizQuestion}, true
}

// ClearQuiz forgets the open quiz.
func (s *State) ClearQuiz() {
	s.QuizWord = ""
	s.QuizQuestion = ""
}
