package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jmoiron/sqlx"
)

// WordListRepository is the durable store behind the extension list service.
// Each user has an independent, flat set of words.
type WordListRepository struct {
	DB *sqlx.DB
}

// NewWordListRepository creates a WordListRepository using the provided connection.
func NewWordListRepository(db *sqlx.DB) *WordListRepository {
	return &WordListRepository{DB: db}
}

// AddWord stores the word for the user. It returns false if the word was already present.
func (r *WordListRepository) AddWord(ctx context.Context, userID int64, word string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO extension_words (user_id, word) VALUES (?, ?)
		ON CONFLICT (user_id, word) DO NOTHING
	`), userID, word)
	if err != nil {
		return false, fmt.Errorf("insert word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListWords returns the user's words in insertion order.
func (r *WordListRepository) ListWords(ctx context.Context, userID int64) ([]string, error) {
	words := []string{}
	err := r.DB.SelectContext(ctx, &words,
		r.DB.Rebind(`SELECT word FROM extension_words WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

// RemoveWord deletes the word for the user. It returns false if the word was not present.
func (r *WordListRepository) RemoveWord(ctx context.Context, userID int64, word string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		r.DB.Rebind(`DELETE FROM extension_words WHERE user_id = ? AND word = ?`),
		userID, word,
	)
	if err != nil {
		return false, fmt.Errorf("delete word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// MemoryWordList keeps the extension word lists in process memory. Contents are
// lost on restart.
type MemoryWordList struct {
	mu    sync.Mutex
	words map[int64][]string
}

// NewMemoryWordList creates an empty MemoryWordList.
func NewMemoryWordList() *MemoryWordList {
	return &MemoryWordList{words: make(map[int64][]string)}
}

// AddWord appends the word unless the user already has it.
func (m *MemoryWordList) AddWord(_ context.Context, userID int64, word string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.words[userID], word) {
		return false, nil
	}
	m.words[userID] = append(m.words[userID], word)
	return true, nil
}

// ListWords returns a copy of the user's words in insertion order.
func (m *MemoryWordList) ListWords(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.words[userID]...), nil
}

// RemoveWord deletes the word if present.
func (m *MemoryWordList) RemoveWord(_ context.Context, userID int64, word string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.words[userID], word)
	if i < 0 {
		return false, nil
	}
	m.words[userID] = slices.Delete(m.words[userID], i, i+1)
	return true, nil
}
