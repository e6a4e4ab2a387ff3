package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/jmoiron/sqlx"
)

// VocabularyRepository stores per-user vocabulary entries.
type VocabularyRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sqlx.DB

	now func() time.Time
}

// NewVocabularyRepository creates a VocabularyRepository using the provided connection.
func NewVocabularyRepository(db *sqlx.DB) *VocabularyRepository {
	return &VocabularyRepository{DB: db, now: time.Now}
}

const insertEntry = `
	INSERT INTO vocabulary (user_id, word, starred, created_at)
	VALUES (?, ?, FALSE, ?)
	ON CONFLICT (user_id, word) DO NOTHING`

// Add stores word for the user. The word is trimmed first and must not be empty.
// When the user already has the word, Add returns (nil, false, nil).
func (r *VocabularyRepository) Add(ctx context.Context, userID int64, word string) (*models.VocabularyEntry, bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, false, models.ErrEmptyWord
	}

	entry := models.VocabularyEntry{UserID: userID, Word: word, CreatedAt: r.now().UTC()}
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(insertEntry+` RETURNING id`),
		userID, word, entry.CreatedAt,
	).Scan(&entry.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert entry: %w", err)
	}
	return &entry, true, nil
}

// Remove deletes the entry if it belongs to the user and returns its word.
// An entry owned by somebody else is reported exactly like a missing one.
func (r *VocabularyRepository) Remove(ctx context.Context, userID, entryID int64) (string, bool, error) {
	var word string
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`DELETE FROM vocabulary WHERE id = ? AND user_id = ? RETURNING word`),
		entryID, userID,
	).Scan(&word)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("delete entry: %w", err)
	}
	return word, true, nil
}

// ToggleStar flips the starred flag of the user's entry and returns the new value.
func (r *VocabularyRepository) ToggleStar(ctx context.Context, userID, entryID int64) (bool, bool, error) {
	var starred bool
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`UPDATE vocabulary SET starred = NOT starred WHERE id = ? AND user_id = ? RETURNING starred`),
		entryID, userID,
	).Scan(&starred)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("toggle star: %w", err)
	}
	return starred, true, nil
}

// List returns the user's entries, newest first. With starredOnly set, only
// starred entries are selected.
func (r *VocabularyRepository) List(ctx context.Context, userID int64, starredOnly bool) ([]models.VocabularyEntry, error) {
	query := `SELECT id, user_id, word, starred, created_at FROM vocabulary WHERE user_id = ?`
	if starredOnly {
		query += ` AND starred = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	entries := []models.VocabularyEntry{}
	if err := r.DB.SelectContext(ctx, &entries, r.DB.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Exists reports whether the user has the word.
func (r *VocabularyRepository) Exists(ctx context.Context, userID int64, word string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`SELECT EXISTS(SELECT 1 FROM vocabulary WHERE user_id = ? AND word = ?)`),
		userID, strings.TrimSpace(word),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}
	return exists, nil
}

// StarredWords returns the text of every starred entry of the user.
func (r *VocabularyRepository) StarredWords(ctx context.Context, userID int64) ([]string, error) {
	words := []string{}
	err := r.DB.SelectContext(ctx, &words,
		r.DB.Rebind(`SELECT word FROM vocabulary WHERE user_id = ? AND starred = TRUE ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("starred words: %w", err)
	}
	return words, nil
}

// AddMissing inserts every word the user does not have yet, unstarred, within a
// single transaction. It returns the number of inserted entries. On error nothing
// is written.
func (r *VocabularyRepository) AddMissing(ctx context.Context, userID int64, words []string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(insertEntry)
	now := r.now().UTC()
	inserted := 0
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		res, err := tx.ExecContext(ctx, query, userID, word, now)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", word, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
