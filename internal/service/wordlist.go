package service

import (
	"context"
	"strings"

	"github.com/atinyakov/LangHelper/internal/models"
)

// WordStore is the storage behind the extension-side word list.
type WordStore interface {
	AddWord(ctx context.Context, userID int64, word string) (bool, error)
	ListWords(ctx context.Context, userID int64) ([]string, error)
	RemoveWord(ctx context.Context, userID int64, word string) (bool, error)
}

// WordListService validates requests of the extension-side list service.
type WordListService struct {
	store WordStore
}

// NewWordListService constructs a WordListService over store.
func NewWordListService(store WordStore) *WordListService {
	return &WordListService{store: store}
}

// Add stores the trimmed word. It returns the stored text and whether it was new.
func (s *WordListService) Add(ctx context.Context, userID int64, word string) (string, bool, error) {
	word, err := validateWord(userID, word)
	if err != nil {
		return "", false, err
	}
	added, err := s.store.AddWord(ctx, userID, word)
	return word, added, err
}

// List returns the user's words in insertion order.
func (s *WordListService) List(ctx context.Context, userID int64) ([]string, error) {
	if userID <= 0 {
		return nil, models.ErrMissingUser
	}
	return s.store.ListWords(ctx, userID)
}

// Remove deletes the trimmed word. It returns the word and whether it was present.
func (s *WordListService) Remove(ctx context.Context, userID int64, word string) (string, bool, error) {
	word, err := validateWord(userID, word)
	if err != nil {
		return "", false, err
	}
	removed, err := s.store.RemoveWord(ctx, userID, word)
	return word, removed, err
}

func validateWord(userID int64, word string) (string, error) {
	if userID <= 0 {
		return "", models.ErrMissingUser
	}
	word = strings.TrimSpace(word)
	if word == "" {
		return "", models.ErrEmptyWord
	}
	return word, nil
}
